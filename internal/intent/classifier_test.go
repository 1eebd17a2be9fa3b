package intent

import "testing"

func textEvent(text string) Event {
	return Event{UserID: 7, ChatID: 7, Kind: KindText, Text: text}
}

func TestClassifyCommands(t *testing.T) {
	cases := map[string]Type{
		"/start":       TypeStart,
		"/instruction": TypeShowInstructions,
		"/lang":        TypeShowLanguageMenu,
		"/settings":    TypeShowSettings,
		"/A0":          TypeSetFormat,
		"/A4":          TypeSetFormat,
		"/photo":       TypeRunPreset,
		"/mono":        TypeRunPreset,
		"/custom":      TypeRunPreset,
	}
	for text, want := range cases {
		in, ok := Classify(textEvent(text))
		if !ok {
			t.Fatalf("%s: expected an intent", text)
		}
		if in.Type != want {
			t.Fatalf("%s: got type %d, want %d", text, in.Type, want)
		}
	}
}

func TestClassifyPresetValues(t *testing.T) {
	in, ok := Classify(textEvent("/mono"))
	if !ok || in.Preset != PresetMono {
		t.Fatalf("expected mono preset, got %+v ok=%v", in, ok)
	}
	in, ok = Classify(Event{UserID: 7, Kind: KindCallback, CallbackToken: "customProperties"})
	if !ok || in.Preset != PresetCustom {
		t.Fatalf("expected custom preset, got %+v ok=%v", in, ok)
	}
}

func TestClassifyPropertyPrefixes(t *testing.T) {
	in, ok := Classify(textEvent("format=a3"))
	if !ok || in.Type != TypeSetFormat || in.Value != "a3" {
		t.Fatalf("format=a3: got %+v ok=%v", in, ok)
	}
	// Prefix match is case-insensitive on the key.
	in, ok = Classify(textEvent("BRIGHTNESS=128"))
	if !ok || in.Type != TypeSetBrightness || in.Value != "128" {
		t.Fatalf("BRIGHTNESS=128: got %+v ok=%v", in, ok)
	}
	in, ok = Classify(textEvent("Denoising=40"))
	if !ok || in.Type != TypeSetDenoising || in.Value != "40" {
		t.Fatalf("Denoising=40: got %+v ok=%v", in, ok)
	}
}

func TestClassifyUnknownTextIgnored(t *testing.T) {
	for _, text := range []string{"hello", "/unknown", "formatA4", "= A4", ""} {
		if _, ok := Classify(textEvent(text)); ok {
			t.Fatalf("%q: expected no intent", text)
		}
	}
}

func TestClassifyUnknownCallbackIgnored(t *testing.T) {
	if _, ok := Classify(Event{UserID: 7, Kind: KindCallback, CallbackToken: "bogus"}); ok {
		t.Fatal("unknown callback token must be ignored")
	}
}

func TestClassifyDropsUnattributedEvents(t *testing.T) {
	if _, ok := Classify(Event{Kind: KindText, Text: "/start"}); ok {
		t.Fatal("event without user identity must not classify")
	}
}

func TestClassifyPhotoPicksLargestVariant(t *testing.T) {
	ev := Event{UserID: 7, Kind: KindPhoto, Photos: []PhotoVariant{
		{Ref: "small", Size: 100},
		{Ref: "big", Size: 500},
		{Ref: "mid", Size: 250},
	}}
	in, ok := Classify(ev)
	if !ok || in.Type != TypePhotoReceived {
		t.Fatalf("expected photo intent, got %+v ok=%v", in, ok)
	}
	if in.ImageRef != "big" {
		t.Fatalf("expected largest variant, got %s", in.ImageRef)
	}
}

func TestClassifyPhotoTieBreakFirstWins(t *testing.T) {
	ev := Event{UserID: 7, Kind: KindPhoto, Photos: []PhotoVariant{
		{Ref: "first", Size: 500},
		{Ref: "second", Size: 500},
	}}
	in, _ := Classify(ev)
	if in.ImageRef != "first" {
		t.Fatalf("tie must resolve to first occurrence, got %s", in.ImageRef)
	}
}

func TestClassifyEmptyPhotoIgnored(t *testing.T) {
	if _, ok := Classify(Event{UserID: 7, Kind: KindPhoto}); ok {
		t.Fatal("photo event without variants must be ignored")
	}
}

func TestClassifyDocument(t *testing.T) {
	in, ok := Classify(Event{UserID: 7, Kind: KindDocument, DocumentRef: "doc-1"})
	if !ok || in.Type != TypeDocumentReceived || in.ImageRef != "doc-1" {
		t.Fatalf("document: got %+v ok=%v", in, ok)
	}
}
