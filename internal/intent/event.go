package intent

// Kind identifies the raw shape of an inbound update.
type Kind int

const (
	// KindText is a plain text message, including slash commands.
	KindText Kind = iota
	// KindCallback is an inline button press carrying an opaque token.
	KindCallback
	// KindPhoto is a photo upload delivered as one or more size variants.
	KindPhoto
	// KindDocument is a file upload that may or may not be an image.
	KindDocument
)

// PhotoVariant is one delivered size of an uploaded photo.
type PhotoVariant struct {
	Ref  string
	Size int64
}

// Event is a transport-neutral inbound update. UserID is zero when the
// transport could not attribute the update to a user.
type Event struct {
	UserID       int64
	ChatID       int64
	Username     string
	LanguageCode string

	Kind          Kind
	Text          string
	CallbackToken string
	Photos        []PhotoVariant
	DocumentRef   string
}
