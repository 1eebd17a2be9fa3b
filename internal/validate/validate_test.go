package validate

import "testing"

func TestFormatAcceptsEnumCaseInsensitive(t *testing.T) {
	for _, tok := range []string{"A0", "a1", "A2", "a3", "A4", " a4 "} {
		norm, ok := Format(tok)
		if !ok {
			t.Fatalf("%q: expected accept", tok)
		}
		found := false
		for _, f := range Formats {
			if norm == f {
				found = true
			}
		}
		if !found {
			t.Fatalf("%q: normalized to %q, not in enum", tok, norm)
		}
	}
}

func TestFormatRejectsUnknown(t *testing.T) {
	for _, tok := range []string{"A5", "B4", "", "A44", "4A"} {
		if _, ok := Format(tok); ok {
			t.Fatalf("%q: expected reject", tok)
		}
	}
}

func TestBrightnessBoundsInclusive(t *testing.T) {
	for raw, want := range map[string]int{"0": 0, "255": 255, "128": 128} {
		v, ok := Brightness(raw)
		if !ok || v != want {
			t.Fatalf("%q: got %d ok=%v", raw, v, ok)
		}
	}
	for _, raw := range []string{"-1", "256", "abc", "", "12.5"} {
		if _, ok := Brightness(raw); ok {
			t.Fatalf("%q: expected reject", raw)
		}
	}
}

func TestDetailThreshold(t *testing.T) {
	if v, ok := DetailThreshold("100000"); !ok || v != 100000 {
		t.Fatalf("no upper bound expected, got %d ok=%v", v, ok)
	}
	if _, ok := DetailThreshold("x"); ok {
		t.Fatal("non-numeric must be rejected")
	}
	if _, ok := DetailThreshold("-5"); ok {
		t.Fatal("negative threshold must be rejected")
	}
}

func TestFormatCommands(t *testing.T) {
	if got := FormatCommands(); got != "/A0 /A1 /A2 /A3 /A4" {
		t.Fatalf("unexpected command list: %q", got)
	}
}
