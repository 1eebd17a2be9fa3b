package gate

import (
	"context"
	"image"
	"strings"
	"testing"

	"github.com/stickpick/stickpick/internal/imagefetch"
	"github.com/stickpick/stickpick/internal/intent"
	"github.com/stickpick/stickpick/internal/pipeline"
	"github.com/stickpick/stickpick/internal/session"
)

type stubFetcher struct {
	err   error
	calls int
}

func (f *stubFetcher) Fetch(_ context.Context, _ string) (image.Image, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

type stubPipeline struct {
	result pipeline.SubmitResult
	reqs   []*pipeline.Request
}

func (p *stubPipeline) Submit(_ context.Context, req *pipeline.Request) pipeline.SubmitResult {
	p.reqs = append(p.reqs, req)
	return p.result
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func completeSession() *session.Session {
	return &session.Session{
		UserID:          10,
		DisplayName:     "alice",
		SheetFormat:     strPtr("A3"),
		PendingImageRef: strPtr("file-1"),
	}
}

func TestNoFormatRejectsFirst(t *testing.T) {
	fetch := &stubFetcher{}
	g := New(fetch, &stubPipeline{})
	sess := completeSession()
	sess.SheetFormat = nil

	if got := g.Run(context.Background(), sess, intent.PresetPhoto, 10); got != OutcomeNoFormat {
		t.Fatalf("outcome = %v, want no-format", got)
	}
	if fetch.calls != 0 {
		t.Fatal("fetch must not run before the format check passes")
	}
}

func TestCustomRequiresBothProperties(t *testing.T) {
	g := New(&stubFetcher{}, &stubPipeline{})
	sess := completeSession()
	sess.DetailThreshold = intPtr(40) // brightness still unset

	if got := g.Run(context.Background(), sess, intent.PresetCustom, 10); got != OutcomeMissingCustomProperties {
		t.Fatalf("outcome = %v, want missing-custom-properties", got)
	}
}

func TestMissingImage(t *testing.T) {
	g := New(&stubFetcher{}, &stubPipeline{})
	sess := completeSession()
	sess.PendingImageRef = nil
	if got := g.Run(context.Background(), sess, intent.PresetPhoto, 10); got != OutcomeMissingFile {
		t.Fatalf("outcome = %v, want missing-file", got)
	}
}

func TestUndecodableImage(t *testing.T) {
	g := New(&stubFetcher{err: imagefetch.ErrNotAnImage}, &stubPipeline{})
	if got := g.Run(context.Background(), completeSession(), intent.PresetPhoto, 10); got != OutcomeMissingFile {
		t.Fatalf("outcome = %v, want missing-file", got)
	}
}

func TestOverflowMutatesNothing(t *testing.T) {
	pipe := &stubPipeline{result: pipeline.SubmitRejectedOverflow}
	g := New(&stubFetcher{}, pipe)
	sess := completeSession()

	if got := g.Run(context.Background(), sess, intent.PresetPhoto, 10); got != OutcomeOverflow {
		t.Fatalf("outcome = %v, want overflow", got)
	}
	if sess.PendingImageRef == nil || *sess.PendingImageRef != "file-1" {
		t.Fatal("session must not be mutated on overflow")
	}
}

func TestAcceptedRequestShape(t *testing.T) {
	pipe := &stubPipeline{result: pipeline.SubmitAccepted}
	g := New(&stubFetcher{}, pipe)
	sess := completeSession()
	sess.BrightnessLevel = intPtr(210)
	sess.DetailThreshold = intPtr(55)

	if got := g.Run(context.Background(), sess, intent.PresetCustom, 77); got != OutcomeAccepted {
		t.Fatalf("outcome = %v, want accepted", got)
	}
	if len(pipe.reqs) != 1 {
		t.Fatalf("expected one submission, got %d", len(pipe.reqs))
	}
	req := pipe.reqs[0]
	if req.SheetFormat != "A3" {
		t.Fatalf("format = %s", req.SheetFormat)
	}
	if req.Params.BrightnessLevel != 210 || req.Params.DetailThreshold != 55 {
		t.Fatalf("params = %+v", req.Params)
	}
	if req.Dest.ChatID != 77 || req.Dest.UserID != 10 {
		t.Fatalf("destination = %+v", req.Dest)
	}
	if !strings.HasPrefix(req.JobID, "alice_") || len(req.JobID) <= len("alice_") {
		t.Fatalf("job id = %q", req.JobID)
	}
}

func TestJobIDFallsBackToNumericID(t *testing.T) {
	sess := completeSession()
	sess.DisplayName = ""
	if id := jobID(sess); !strings.HasPrefix(id, "id10_") {
		t.Fatalf("job id = %q", id)
	}
}

func TestJobIDsDiffer(t *testing.T) {
	sess := completeSession()
	if jobID(sess) == jobID(sess) {
		t.Fatal("job ids must be collision-resistant")
	}
}
