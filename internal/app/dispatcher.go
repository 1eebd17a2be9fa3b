// Package app orchestrates one inbound event from classification to a
// single delivered reply.
package app

import (
	"context"
	"sync"

	"github.com/stickpick/stickpick/core/logger"
	"github.com/stickpick/stickpick/internal/gate"
	"github.com/stickpick/stickpick/internal/imagefetch"
	"github.com/stickpick/stickpick/internal/intent"
	"github.com/stickpick/stickpick/internal/reply"
	"github.com/stickpick/stickpick/internal/session"
	"github.com/stickpick/stickpick/internal/validate"
	"log/slog"
)

// ReplyFunc delivers one reply payload to the originating chat.
type ReplyFunc func(p reply.Payload) error

// Dispatcher routes classified intents through the session store, the
// validator, and the admission gate. Events for the same user are processed
// strictly in arrival order; different users proceed concurrently.
type Dispatcher struct {
	store    session.Store
	composer *reply.Composer
	gate     *gate.Gate
	fetch    imagefetch.Fetcher

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewDispatcher wires the dispatch collaborators.
func NewDispatcher(store session.Store, composer *reply.Composer, g *gate.Gate, fetch imagefetch.Fetcher) *Dispatcher {
	return &Dispatcher{
		store:    store,
		composer: composer,
		gate:     g,
		fetch:    fetch,
		locks:    make(map[int64]*sync.Mutex),
	}
}

// Dispatch processes one inbound event to a terminal outcome. It never
// returns an error: unroutable and unrecognized events are dropped
// silently, collaborator failures are logged, and delivery failures must
// not reach the transport loop.
func (d *Dispatcher) Dispatch(ctx context.Context, ev intent.Event, send ReplyFunc) {
	in, ok := intent.Classify(ev)
	if !ok {
		return
	}

	lock := d.userLock(ev.UserID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := d.store.LoadOrCreate(ctx, ev.UserID, session.Seed{
		DisplayName: ev.Username,
		Locale:      ev.LanguageCode,
	})
	if err != nil {
		logger.Error(ctx, "app", "session.load",
			slog.Int64("user_id", ev.UserID),
			slog.String("err", err.Error()),
		)
		return
	}

	payload, mutated := d.apply(ctx, sess, in, ev.ChatID)
	if mutated {
		if err := d.store.Save(ctx, sess); err != nil {
			logger.Error(ctx, "app", "session.save",
				slog.Int64("user_id", ev.UserID),
				slog.String("err", err.Error()),
			)
			return
		}
	}

	if payload == nil {
		return
	}
	if err := send(*payload); err != nil {
		logger.Warn(ctx, "app", "reply.delivery",
			slog.Int64("user_id", ev.UserID),
			slog.String("err", err.Error()),
		)
	}
}

// apply mutates the session per the intent and picks the reply. The second
// return value reports whether the session must be saved.
func (d *Dispatcher) apply(ctx context.Context, sess *session.Session, in intent.Intent, chatID int64) (*reply.Payload, bool) {
	c := d.composer
	locale := sess.Locale

	switch in.Type {
	case intent.TypeStart:
		return payload(c.Start(locale)), false

	case intent.TypeShowInstructions:
		return payload(c.Instructions(locale)), false

	case intent.TypeShowSettings:
		return payload(c.Settings(locale)), false

	case intent.TypeShowLanguageMenu:
		return payload(c.LanguageMenu(locale)), false

	case intent.TypeSetLanguage:
		sess.Locale = in.Value
		// The confirmation is rendered in the freshly chosen language.
		return payload(c.Start(in.Value)), true

	case intent.TypeSetFormat:
		norm, ok := validate.Format(in.Value)
		if !ok {
			return payload(c.FormatRejected(locale)), false
		}
		sess.SheetFormat = &norm
		return payload(c.PropertyAccepted(locale)), true

	case intent.TypeSetDenoising:
		v, ok := validate.DetailThreshold(in.Value)
		if !ok {
			return payload(c.DenoisingRejected(locale)), false
		}
		sess.DetailThreshold = &v
		return payload(c.PropertyAccepted(locale)), true

	case intent.TypeSetBrightness:
		v, ok := validate.Brightness(in.Value)
		if !ok {
			return payload(c.BrightnessRejected(locale)), false
		}
		sess.BrightnessLevel = &v
		return payload(c.PropertyAccepted(locale)), true

	case intent.TypePhotoReceived:
		ref := in.ImageRef
		sess.PendingImageRef = &ref
		return payload(c.PresetMenu(locale)), true

	case intent.TypeDocumentReceived:
		if _, err := d.fetch.Fetch(ctx, in.ImageRef); err != nil {
			return payload(c.NotAnImage(locale)), false
		}
		ref := in.ImageRef
		sess.PendingImageRef = &ref
		return payload(c.PresetMenu(locale)), true

	case intent.TypeRunPreset:
		switch d.gate.Run(ctx, sess, in.Preset, chatID) {
		case gate.OutcomeNoFormat:
			return payload(c.NoFormat(locale)), false
		case gate.OutcomeMissingCustomProperties:
			return payload(c.MissingCustomProperties(locale)), false
		case gate.OutcomeMissingFile:
			return payload(c.MissingFile(locale)), false
		case gate.OutcomeOverflow:
			return payload(c.QueueOverflow(locale)), false
		default:
			return payload(c.GeneratingStarted(locale)), false
		}
	}

	return nil, false
}

func payload(p reply.Payload) *reply.Payload {
	return &p
}

func (d *Dispatcher) userLock(userID int64) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	lock, ok := d.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		d.locks[userID] = lock
	}
	return lock
}
