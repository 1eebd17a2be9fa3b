// Package reply maps classified outcomes to localized reply payloads.
package reply

import (
	tele "gopkg.in/telebot.v4"

	"github.com/stickpick/stickpick/core/telegram/keyboard"
	"github.com/stickpick/stickpick/internal/i18n"
	"github.com/stickpick/stickpick/internal/validate"
)

// Payload is one outbound reply: text plus an optional inline keyboard.
// Exactly one payload is produced per classified event.
type Payload struct {
	Text     string
	Keyboard *tele.ReplyMarkup
}

// Composer is a pure mapping from (outcome, locale) to a payload. It
// performs no I/O; delivery belongs to the caller.
type Composer struct {
	msgs *i18n.Bundle
}

// NewComposer wires the localization bundle.
func NewComposer(msgs *i18n.Bundle) *Composer {
	return &Composer{msgs: msgs}
}

// Start renders the greeting with the language/instructions menu.
func (c *Composer) Start(locale string) Payload {
	kb := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: c.msgs.Resolve("lang.button", locale), Unique: "lang"},
		{Text: c.msgs.Resolve("instruction.button", locale), Unique: "instruction"},
	})
	return Payload{Text: c.msgs.Resolve("start.message", locale), Keyboard: kb}
}

// LanguageMenu renders the two-option language selector.
func (c *Composer) LanguageMenu(locale string) Payload {
	kb := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: c.msgs.Resolve("lang.en", locale), Unique: "en"},
		{Text: c.msgs.Resolve("lang.ru", locale), Unique: "ru"},
	})
	return Payload{Text: c.msgs.Resolve("lang.message", locale), Keyboard: kb}
}

// PresetMenu renders the post-upload preset chooser, one button per row.
func (c *Composer) PresetMenu(locale string) Payload {
	kb := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: c.msgs.Resolve("photo.preset.button", locale), Unique: "photoPreset"},
		{Text: c.msgs.Resolve("monochrome.preset.button", locale), Unique: "monochromePreset"},
		{Text: c.msgs.Resolve("custom.properties.button", locale), Unique: "customProperties"},
	})
	text := c.msgs.Resolve("choose.preset.message", locale) + " " + validate.FormatCommands() +
		"\n\n" + c.msgs.Resolve("custom.preset.message", locale)
	return Payload{Text: text, Keyboard: kb}
}

// Instructions renders the usage help.
func (c *Composer) Instructions(locale string) Payload {
	return c.text("instruction.message", locale)
}

// Settings renders the property help.
func (c *Composer) Settings(locale string) Payload {
	return c.text("properties.message", locale)
}

// PropertyAccepted confirms a successful property update.
func (c *Composer) PropertyAccepted(locale string) Payload {
	return c.text("property.accept", locale)
}

// FormatRejected names the valid format set after a bad token.
func (c *Composer) FormatRejected(locale string) Payload {
	return Payload{Text: c.msgs.Resolve("format.reject", locale) + " " + validate.FormatCommands()}
}

// DenoisingRejected reports a non-numeric detail threshold.
func (c *Composer) DenoisingRejected(locale string) Payload {
	return c.text("denoising.reject", locale)
}

// BrightnessRejected reports an out-of-range or non-numeric brightness.
func (c *Composer) BrightnessRejected(locale string) Payload {
	return c.text("brightness.reject", locale)
}

// NotAnImage reports a document upload that does not decode.
func (c *Composer) NotAnImage(locale string) Payload {
	return c.text("no.photo.file.reject", locale)
}

// NoFormat reports a run attempted before choosing a sheet format.
func (c *Composer) NoFormat(locale string) Payload {
	return Payload{Text: c.msgs.Resolve("no.found.format.reject", locale) + " " + validate.FormatCommands()}
}

// MissingCustomProperties reports an incomplete custom preset.
func (c *Composer) MissingCustomProperties(locale string) Payload {
	return c.text("no.found.custom.properties.reject", locale)
}

// MissingFile reports an absent or unreadable pending image.
func (c *Composer) MissingFile(locale string) Payload {
	return c.text("missing.file.reject", locale)
}

// GeneratingStarted confirms an accepted job.
func (c *Composer) GeneratingStarted(locale string) Payload {
	return c.text("generating.start", locale)
}

// QueueOverflow tells the user to retry later.
func (c *Composer) QueueOverflow(locale string) Payload {
	return c.text("queue.overflow", locale)
}

func (c *Composer) text(key, locale string) Payload {
	return Payload{Text: c.msgs.Resolve(key, locale)}
}
