package reply

import (
	"strings"
	"testing"

	"github.com/stickpick/stickpick/internal/i18n"
)

func newComposer(t *testing.T) *Composer {
	t.Helper()
	msgs, err := i18n.Load()
	if err != nil {
		t.Fatalf("load bundles: %v", err)
	}
	return NewComposer(msgs)
}

func TestStartMenuShape(t *testing.T) {
	p := newComposer(t).Start("en")
	if p.Text == "" || p.Keyboard == nil {
		t.Fatalf("payload incomplete: %+v", p)
	}
	if rows := len(p.Keyboard.InlineKeyboard); rows != 1 {
		t.Fatalf("start menu rows = %d, want 1", rows)
	}
	if n := len(p.Keyboard.InlineKeyboard[0]); n != 2 {
		t.Fatalf("start menu buttons = %d, want 2", n)
	}
}

func TestLanguageMenuShape(t *testing.T) {
	p := newComposer(t).LanguageMenu("ru")
	if len(p.Keyboard.InlineKeyboard) != 1 || len(p.Keyboard.InlineKeyboard[0]) != 2 {
		t.Fatalf("language menu shape wrong: %+v", p.Keyboard.InlineKeyboard)
	}
}

func TestPresetMenuOneButtonPerRow(t *testing.T) {
	p := newComposer(t).PresetMenu("en")
	if rows := len(p.Keyboard.InlineKeyboard); rows != 3 {
		t.Fatalf("preset menu rows = %d, want 3", rows)
	}
	for i, row := range p.Keyboard.InlineKeyboard {
		if len(row) != 1 {
			t.Fatalf("row %d has %d buttons, want 1", i, len(row))
		}
	}
	if !strings.Contains(p.Text, "/A0 /A1 /A2 /A3 /A4") {
		t.Fatalf("preset menu must list format commands: %q", p.Text)
	}
}

func TestRejectionsNameTheConstraint(t *testing.T) {
	c := newComposer(t)
	if p := c.FormatRejected("en"); !strings.Contains(p.Text, "/A4") {
		t.Fatalf("format rejection must list valid formats: %q", p.Text)
	}
	if p := c.NoFormat("en"); !strings.Contains(p.Text, "/A0") {
		t.Fatalf("no-format rejection must list valid formats: %q", p.Text)
	}
	if p := c.BrightnessRejected("en"); !strings.Contains(p.Text, "255") {
		t.Fatalf("brightness rejection must mention the range: %q", p.Text)
	}
}

func TestLocaleSelectsBundle(t *testing.T) {
	c := newComposer(t)
	if c.PropertyAccepted("en").Text == c.PropertyAccepted("ru").Text {
		t.Fatal("expected locale-specific texts")
	}
}

func TestPlainTextRepliesHaveNoKeyboard(t *testing.T) {
	c := newComposer(t)
	for name, p := range map[string]Payload{
		"instructions": c.Instructions("en"),
		"accepted":     c.PropertyAccepted("en"),
		"overflow":     c.QueueOverflow("en"),
		"generating":   c.GeneratingStarted("en"),
	} {
		if p.Keyboard != nil {
			t.Fatalf("%s: unexpected keyboard", name)
		}
		if p.Text == "" {
			t.Fatalf("%s: empty text", name)
		}
	}
}
