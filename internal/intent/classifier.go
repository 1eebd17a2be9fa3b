package intent

import "strings"

var callbackIntents = map[string]Intent{
	"lang":             {Type: TypeShowLanguageMenu},
	"instruction":      {Type: TypeShowInstructions},
	"photoPreset":      {Type: TypeRunPreset, Preset: PresetPhoto},
	"monochromePreset": {Type: TypeRunPreset, Preset: PresetMono},
	"customProperties": {Type: TypeRunPreset, Preset: PresetCustom},
	"en":               {Type: TypeSetLanguage, Value: "en"},
	"ru":               {Type: TypeSetLanguage, Value: "ru"},
}

var commandIntents = map[string]Intent{
	"/start":       {Type: TypeStart},
	"/instruction": {Type: TypeShowInstructions},
	"/lang":        {Type: TypeShowLanguageMenu},
	"/settings":    {Type: TypeShowSettings},
	"/A0":          {Type: TypeSetFormat, Value: "A0"},
	"/A1":          {Type: TypeSetFormat, Value: "A1"},
	"/A2":          {Type: TypeSetFormat, Value: "A2"},
	"/A3":          {Type: TypeSetFormat, Value: "A3"},
	"/A4":          {Type: TypeSetFormat, Value: "A4"},
	"/photo":       {Type: TypeRunPreset, Preset: PresetPhoto},
	"/mono":        {Type: TypeRunPreset, Preset: PresetMono},
	"/custom":      {Type: TypeRunPreset, Preset: PresetCustom},
}

// propertyPrefixes map a case-insensitive key=value prefix to an intent type.
var propertyPrefixes = []struct {
	prefix string
	typ    Type
}{
	{"format=", TypeSetFormat},
	{"denoising=", TypeSetDenoising},
	{"brightness=", TypeSetBrightness},
}

// Classify maps one inbound event to exactly one intent. The second return
// value is false when the event matches nothing and must be ignored without
// a reply. Events with no resolvable user identity never classify.
func Classify(ev Event) (Intent, bool) {
	if ev.UserID == 0 {
		return Intent{}, false
	}

	switch ev.Kind {
	case KindCallback:
		if in, ok := callbackIntents[ev.CallbackToken]; ok {
			return in, true
		}
		return Intent{}, false

	case KindText:
		if in, ok := commandIntents[ev.Text]; ok {
			return in, true
		}
		for _, p := range propertyPrefixes {
			if len(ev.Text) >= len(p.prefix) && strings.EqualFold(ev.Text[:len(p.prefix)], p.prefix) {
				return Intent{Type: p.typ, Value: ev.Text[len(p.prefix):]}, true
			}
		}
		return Intent{}, false

	case KindPhoto:
		ref, ok := largestVariant(ev.Photos)
		if !ok {
			return Intent{}, false
		}
		return Intent{Type: TypePhotoReceived, ImageRef: ref}, true

	case KindDocument:
		if ev.DocumentRef == "" {
			return Intent{}, false
		}
		return Intent{Type: TypeDocumentReceived, ImageRef: ev.DocumentRef}, true
	}

	return Intent{}, false
}

// largestVariant picks the variant with the largest reported byte size.
// Ties resolve to the first occurrence, keeping the choice deterministic.
func largestVariant(variants []PhotoVariant) (string, bool) {
	if len(variants) == 0 {
		return "", false
	}
	best := variants[0]
	for _, v := range variants[1:] {
		if v.Size > best.Size {
			best = v
		}
	}
	return best.Ref, true
}
