package i18n

import "testing"

func TestResolveKnownLocales(t *testing.T) {
	b, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	en := b.Resolve("property.accept", "en")
	ru := b.Resolve("property.accept", "ru")
	if en == "" || ru == "" || en == ru {
		t.Fatalf("expected distinct translations, got %q / %q", en, ru)
	}
}

func TestResolveFallsBackToDefaultLocale(t *testing.T) {
	b, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := b.Resolve("start.message", "de"); got != b.Resolve("start.message", "en") {
		t.Fatalf("unknown locale must fall back to default, got %q", got)
	}
	if got := b.Resolve("start.message", ""); got != b.Resolve("start.message", "en") {
		t.Fatalf("empty locale must fall back to default, got %q", got)
	}
}

func TestResolveMissingKeyNeverFails(t *testing.T) {
	b, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := b.Resolve("no.such.key", "en"); got != "no.such.key" {
		t.Fatalf("missing key must resolve to itself, got %q", got)
	}
}

func TestHas(t *testing.T) {
	b, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !b.Has("en") || !b.Has("ru") {
		t.Fatal("expected en and ru bundles")
	}
	if b.Has("fr") {
		t.Fatal("unexpected fr bundle")
	}
}
