// Package intent turns raw inbound updates into a closed set of typed
// intents, keeping transport parsing separate from business rules.
package intent

// Type enumerates every intent the bot understands.
type Type int

const (
	// TypeNone means the event produced no intent and must be ignored.
	TypeNone Type = iota
	// TypeStart shows the start message with the entry menu.
	TypeStart
	// TypeShowInstructions shows usage instructions.
	TypeShowInstructions
	// TypeShowSettings shows the property help text.
	TypeShowSettings
	// TypeShowLanguageMenu shows the language selection menu.
	TypeShowLanguageMenu
	// TypeSetLanguage switches the session locale. Value holds the code.
	TypeSetLanguage
	// TypeSetFormat sets the sheet format. Value holds the raw token.
	TypeSetFormat
	// TypeSetDenoising sets the small-details threshold. Value holds the raw input.
	TypeSetDenoising
	// TypeSetBrightness sets the brightness level. Value holds the raw input.
	TypeSetBrightness
	// TypePhotoReceived stores an uploaded photo reference. ImageRef holds it.
	TypePhotoReceived
	// TypeDocumentReceived stores an uploaded document reference after the
	// image-fetch collaborator confirms it decodes. ImageRef holds it.
	TypeDocumentReceived
	// TypeRunPreset attempts a generation run. Preset names the bundle.
	TypeRunPreset
)

// Preset names a bundle of generation parameters.
type Preset string

const (
	// PresetPhoto is the photographic rendering preset.
	PresetPhoto Preset = "photo"
	// PresetMono is the monochrome rendering preset.
	PresetMono Preset = "mono"
	// PresetCustom uses the user's brightness and detail settings.
	PresetCustom Preset = "custom"
)

// Intent is the classified meaning of one inbound event.
type Intent struct {
	Type     Type
	Value    string
	ImageRef string
	Preset   Preset
}
