// Package imagefetch resolves uploaded file references into decoded images.
package imagefetch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync/atomic"

	// Codecs the generator accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	tele "gopkg.in/telebot.v4"
)

// ErrNotAnImage reports that the referenced file was fetched but does not
// decode as a supported image.
var ErrNotAnImage = errors.New("imagefetch: not an image")

// Fetcher resolves an opaque image reference to a decoded image.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (image.Image, error)
}

// TelegramFetcher downloads files through the Bot API. The bot handle is
// bound lazily because the runtime constructs it after wiring.
type TelegramFetcher struct {
	bot atomic.Pointer[tele.Bot]
}

// NewTelegramFetcher returns an unbound fetcher; Bind must be called before
// the first Fetch.
func NewTelegramFetcher() *TelegramFetcher {
	return &TelegramFetcher{}
}

// Bind attaches the bot handle used for downloads. Safe to call repeatedly.
func (f *TelegramFetcher) Bind(b *tele.Bot) {
	if b != nil {
		f.bot.Store(b)
	}
}

// Fetch downloads the file by its reference and decodes it. Transport
// failures are returned as-is; decode failures map to ErrNotAnImage.
func (f *TelegramFetcher) Fetch(_ context.Context, ref string) (image.Image, error) {
	b := f.bot.Load()
	if b == nil {
		return nil, errors.New("imagefetch: bot not bound")
	}
	rc, err := b.File(&tele.File{FileID: ref})
	if err != nil {
		return nil, fmt.Errorf("imagefetch: download %s: %w", ref, err)
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, ErrNotAnImage
	}
	return img, nil
}
