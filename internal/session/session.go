// Package session holds durable per-user configuration state and the
// stores that persist it.
package session

import (
	"context"
	"time"
)

// Session is the mutable preference state of one user. Optional fields are
// pointers; nil means the user has not chosen a value yet.
type Session struct {
	UserID      int64  `db:"user_id"`
	DisplayName string `db:"display_name"`
	Locale      string `db:"locale"`

	SheetFormat     *string `db:"sheet_format"`
	BrightnessLevel *int    `db:"brightness_level"`
	DetailThreshold *int    `db:"detail_threshold"`
	PendingImageRef *string `db:"pending_image_ref"`

	RegistrationTime time.Time `db:"registration_time"`
	LastActiveTime   time.Time `db:"last_active_time"`
}

// Seed carries identity details captured from the transport on first
// contact. DisplayName is never overwritten once set.
type Seed struct {
	DisplayName string
	Locale      string
}

// Store persists sessions keyed by user identity. Save must be atomic per
// user; callers serialize updates for the same user.
type Store interface {
	LoadOrCreate(ctx context.Context, userID int64, seed Seed) (*Session, error)
	Save(ctx context.Context, s *Session) error
}

// Clone returns a deep copy so callers can mutate without sharing pointers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.SheetFormat = clonePtr(s.SheetFormat)
	out.BrightnessLevel = clonePtr(s.BrightnessLevel)
	out.DetailThreshold = clonePtr(s.DetailThreshold)
	out.PendingImageRef = clonePtr(s.PendingImageRef)
	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
