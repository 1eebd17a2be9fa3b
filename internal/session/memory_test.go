package session

import (
	"context"
	"testing"
)

func TestLoadOrCreateSeedsOnce(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s, err := store.LoadOrCreate(ctx, 42, Seed{DisplayName: "alice", Locale: "ru"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.DisplayName != "alice" || s.Locale != "ru" {
		t.Fatalf("seed not applied: %+v", s)
	}
	if s.SheetFormat != nil || s.BrightnessLevel != nil || s.PendingImageRef != nil {
		t.Fatalf("new session must have unset properties: %+v", s)
	}

	// A later event with a different seed must not reset identity fields.
	again, err := store.LoadOrCreate(ctx, 42, Seed{DisplayName: "other", Locale: "en"})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.DisplayName != "alice" || again.Locale != "ru" {
		t.Fatalf("existing session overwritten: %+v", again)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s, _ := store.LoadOrCreate(ctx, 1, Seed{})
	format := "A4"
	level := 200
	s.SheetFormat = &format
	s.BrightnessLevel = &level
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, _ := store.LoadOrCreate(ctx, 1, Seed{})
	if got.SheetFormat == nil || *got.SheetFormat != "A4" {
		t.Fatalf("sheet format lost: %+v", got)
	}
	if got.BrightnessLevel == nil || *got.BrightnessLevel != 200 {
		t.Fatalf("brightness lost: %+v", got)
	}
}

func TestSaveUnknownUserFails(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Save(context.Background(), &Session{UserID: 99}); err == nil {
		t.Fatal("expected error for unknown user")
	}
}

func TestLoadReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	s, _ := store.LoadOrCreate(ctx, 5, Seed{})
	format := "A0"
	s.SheetFormat = &format

	// Mutation without Save must not leak into the store.
	got, _ := store.LoadOrCreate(ctx, 5, Seed{})
	if got.SheetFormat != nil {
		t.Fatal("store leaked a mutable pointer")
	}
}
