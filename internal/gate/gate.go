// Package gate checks run-preset preconditions and submits admissible jobs
// into the generation pipeline.
package gate

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/stickpick/stickpick/core/logger"
	"github.com/stickpick/stickpick/core/telegram/format"
	"github.com/stickpick/stickpick/internal/imagefetch"
	"github.com/stickpick/stickpick/internal/intent"
	"github.com/stickpick/stickpick/internal/pipeline"
	"github.com/stickpick/stickpick/internal/session"
	"log/slog"
)

// Outcome is the terminal result of one admission attempt. Preconditions
// are checked in order; the first unmet one decides the outcome.
type Outcome int

const (
	// OutcomeAccepted means the pipeline now owns a job for this user.
	OutcomeAccepted Outcome = iota
	// OutcomeNoFormat means the sheet format has not been chosen.
	OutcomeNoFormat
	// OutcomeMissingCustomProperties means the custom preset lacks
	// brightness or detail threshold.
	OutcomeMissingCustomProperties
	// OutcomeMissingFile means no uploaded image resolves to a decodable file.
	OutcomeMissingFile
	// OutcomeOverflow means the pipeline is saturated; nothing was mutated.
	OutcomeOverflow
)

// Defaults applied to the generation request when the custom preset passes
// the gate with unset optionals. The gate rejects unset values first, so
// these only matter if that precondition is ever relaxed.
const (
	defaultDetailThreshold = 128
	defaultBrightness      = 100
)

// Gate validates session completeness and performs the non-blocking enqueue.
type Gate struct {
	fetch imagefetch.Fetcher
	pipe  pipeline.Pipeline
}

// New wires the gate with its collaborators.
func New(fetch imagefetch.Fetcher, pipe pipeline.Pipeline) *Gate {
	return &Gate{fetch: fetch, pipe: pipe}
}

// Run checks preconditions for the given preset against the session and, if
// all hold, constructs a GenerationRequest routed back to chatID and
// attempts the enqueue. The session is never mutated.
func (g *Gate) Run(ctx context.Context, sess *session.Session, preset intent.Preset, chatID int64) Outcome {
	if sess.SheetFormat == nil {
		return OutcomeNoFormat
	}
	if preset == intent.PresetCustom {
		if sess.BrightnessLevel == nil || sess.DetailThreshold == nil {
			return OutcomeMissingCustomProperties
		}
	}
	if sess.PendingImageRef == nil {
		return OutcomeMissingFile
	}

	img, err := g.fetch.Fetch(ctx, *sess.PendingImageRef)
	if err != nil {
		logger.Warn(ctx, "service.pipeline", "gate.fetch",
			slog.Int64("user_id", sess.UserID),
			slog.String("err", err.Error()),
		)
		return OutcomeMissingFile
	}

	req := &pipeline.Request{
		JobID:       jobID(sess),
		Image:       img,
		SheetFormat: *sess.SheetFormat,
		Params: pipeline.Params{
			Preset:          preset,
			BrightnessLevel: format.DerefInt(sess.BrightnessLevel, defaultBrightness),
			DetailThreshold: format.DerefInt(sess.DetailThreshold, defaultDetailThreshold),
		},
		Dest: pipeline.Destination{
			ChatID: chatID,
			UserID: sess.UserID,
			Locale: sess.Locale,
		},
	}

	if g.pipe.Submit(ctx, req) == pipeline.SubmitRejectedOverflow {
		return OutcomeOverflow
	}
	return OutcomeAccepted
}

// jobID derives a collision-resistant job/folder identifier from the user's
// display name (or numeric id) and a random token, so concurrent runs from
// different users never collide.
func jobID(sess *session.Session) string {
	name := sess.DisplayName
	if name == "" {
		name = "id" + strconv.FormatInt(sess.UserID, 10)
	}
	return name + "_" + uuid.NewString()
}
