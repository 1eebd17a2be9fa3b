package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/stickpick/stickpick/core/logger"
	"log/slog"
)

// PostgresStore persists sessions in the sessions table.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps the shared database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectSession = `
SELECT user_id, display_name, locale, sheet_format, brightness_level,
       detail_threshold, pending_image_ref, registration_time, last_active_time
FROM sessions WHERE user_id = $1`

// LoadOrCreate returns the stored session for userID, inserting a fresh one
// seeded from the transport identity when none exists yet.
func (p *PostgresStore) LoadOrCreate(ctx context.Context, userID int64, seed Seed) (*Session, error) {
	var s Session
	err := p.db.GetContext(ctx, &s, selectSession, userID)
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session load: %w", err)
	}

	now := time.Now().UTC()
	s = Session{
		UserID:           userID,
		DisplayName:      seed.DisplayName,
		Locale:           seed.Locale,
		RegistrationTime: now,
		LastActiveTime:   now,
	}
	_, err = p.db.ExecContext(ctx, `
INSERT INTO sessions (user_id, display_name, locale, registration_time, last_active_time)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id) DO NOTHING`,
		s.UserID, s.DisplayName, s.Locale, s.RegistrationTime, s.LastActiveTime)
	if err != nil {
		return nil, fmt.Errorf("session create: %w", err)
	}

	// A concurrent first contact may have won the insert; re-read either way.
	if err := p.db.GetContext(ctx, &s, selectSession, userID); err != nil {
		return nil, fmt.Errorf("session reload: %w", err)
	}
	logger.Info(ctx, "service.sessions", "session.create",
		slog.Int64("user_id", userID),
	)
	return &s, nil
}

// Save writes every mutable field and bumps last_active_time.
func (p *PostgresStore) Save(ctx context.Context, s *Session) error {
	if s == nil {
		return errors.New("nil session")
	}
	s.LastActiveTime = time.Now().UTC()
	res, err := p.db.ExecContext(ctx, `
UPDATE sessions
SET display_name = $2, locale = $3, sheet_format = $4, brightness_level = $5,
    detail_threshold = $6, pending_image_ref = $7, last_active_time = $8
WHERE user_id = $1`,
		s.UserID, s.DisplayName, s.Locale, s.SheetFormat, s.BrightnessLevel,
		s.DetailThreshold, s.PendingImageRef, s.LastActiveTime)
	if err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session save: user %d not found", s.UserID)
	}
	return nil
}
