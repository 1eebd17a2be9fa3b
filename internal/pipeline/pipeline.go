// Package pipeline models the capacity-bounded generation pipeline and the
// requests submitted into it.
package pipeline

import (
	"context"
	"image"

	"github.com/stickpick/stickpick/internal/intent"
)

// Params bundles preset-specific generation parameters.
type Params struct {
	Preset          intent.Preset
	BrightnessLevel int
	DetailThreshold int
}

// Destination routes the finished artifact back to the originating chat.
type Destination struct {
	ChatID int64
	UserID int64
	Locale string
}

// Request is one generation job. It is ephemeral: once accepted, the
// pipeline owns it and this core's responsibility ends.
type Request struct {
	JobID       string
	Image       image.Image
	SheetFormat string
	Params      Params
	Dest        Destination
}

// SubmitResult is the two-outcome admission result. A dedicated type keeps
// future extension (distinguishing overflow from other failures) type-safe.
type SubmitResult int

const (
	// SubmitAccepted means the pipeline now owns the job.
	SubmitAccepted SubmitResult = iota
	// SubmitRejectedOverflow means the pipeline is at capacity and nothing
	// was mutated; the caller should tell the user to retry later.
	SubmitRejectedOverflow
)

// Pipeline accepts generation requests without blocking.
type Pipeline interface {
	Submit(ctx context.Context, req *Request) SubmitResult
}
