package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"
	"testing"

	"github.com/stickpick/stickpick/internal/gate"
	"github.com/stickpick/stickpick/internal/i18n"
	"github.com/stickpick/stickpick/internal/imagefetch"
	"github.com/stickpick/stickpick/internal/intent"
	"github.com/stickpick/stickpick/internal/pipeline"
	"github.com/stickpick/stickpick/internal/reply"
	"github.com/stickpick/stickpick/internal/session"
)

type stubFetcher struct{ err error }

func (f *stubFetcher) Fetch(_ context.Context, _ string) (image.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

type stubPipeline struct {
	mu     sync.Mutex
	result pipeline.SubmitResult
	reqs   []*pipeline.Request
}

func (p *stubPipeline) Submit(_ context.Context, req *pipeline.Request) pipeline.SubmitResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reqs = append(p.reqs, req)
	return p.result
}

type capture struct {
	mu       sync.Mutex
	payloads []reply.Payload
	err      error
}

func (c *capture) send(p reply.Payload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payloads = append(c.payloads, p)
	return c.err
}

func (c *capture) texts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.payloads))
	for i, p := range c.payloads {
		out[i] = p.Text
	}
	return out
}

type fixture struct {
	d     *Dispatcher
	store *session.MemoryStore
	pipe  *stubPipeline
	fetch *stubFetcher
	msgs  *i18n.Bundle
}

func newFixture(t *testing.T, result pipeline.SubmitResult) *fixture {
	t.Helper()
	msgs, err := i18n.Load()
	if err != nil {
		t.Fatalf("load bundles: %v", err)
	}
	store := session.NewMemoryStore()
	pipe := &stubPipeline{result: result}
	fetch := &stubFetcher{}
	composer := reply.NewComposer(msgs)
	d := NewDispatcher(store, composer, gate.New(fetch, pipe), fetch)
	return &fixture{d: d, store: store, pipe: pipe, fetch: fetch, msgs: msgs}
}

func textEvent(userID int64, text string) intent.Event {
	return intent.Event{UserID: userID, ChatID: userID, Kind: intent.KindText, Text: text}
}

func (f *fixture) sessionOf(t *testing.T, userID int64) *session.Session {
	t.Helper()
	s, err := f.store.LoadOrCreate(context.Background(), userID, session.Seed{})
	if err != nil {
		t.Fatalf("session read: %v", err)
	}
	return s
}

func TestUnattributedEventDroppedSilently(t *testing.T) {
	f := newFixture(t, pipeline.SubmitAccepted)
	c := &capture{}
	f.d.Dispatch(context.Background(), intent.Event{Kind: intent.KindText, Text: "/start"}, c.send)
	if len(c.payloads) != 0 {
		t.Fatalf("expected no reply, got %v", c.texts())
	}
}

func TestUnknownTextIgnored(t *testing.T) {
	f := newFixture(t, pipeline.SubmitAccepted)
	c := &capture{}
	f.d.Dispatch(context.Background(), textEvent(1, "what is this"), c.send)
	if len(c.payloads) != 0 {
		t.Fatalf("unrecognized input must not reply, got %v", c.texts())
	}
}

func TestFormatUpdateIdempotent(t *testing.T) {
	f := newFixture(t, pipeline.SubmitAccepted)
	c := &capture{}
	f.d.Dispatch(context.Background(), textEvent(1, "format=A4"), c.send)
	f.d.Dispatch(context.Background(), textEvent(1, "format=A4"), c.send)

	texts := c.texts()
	if len(texts) != 2 || texts[0] != texts[1] {
		t.Fatalf("expected two identical acceptance replies, got %v", texts)
	}
	s := f.sessionOf(t, 1)
	if s.SheetFormat == nil || *s.SheetFormat != "A4" {
		t.Fatalf("sheet format = %+v", s.SheetFormat)
	}
}

func TestRejectedFormatLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t, pipeline.SubmitAccepted)
	c := &capture{}
	f.d.Dispatch(context.Background(), textEvent(1, "/A2"), c.send)
	f.d.Dispatch(context.Background(), textEvent(1, "format=B5"), c.send)

	s := f.sessionOf(t, 1)
	if s.SheetFormat == nil || *s.SheetFormat != "A2" {
		t.Fatalf("rejected update must not change format: %+v", s.SheetFormat)
	}
	texts := c.texts()
	if len(texts) != 2 || texts[1] == texts[0] {
		t.Fatalf("expected a rejection reply, got %v", texts)
	}
}

func TestBrightnessBoundaries(t *testing.T) {
	f := newFixture(t, pipeline.SubmitAccepted)
	accept := f.msgs.Resolve("property.accept", "")

	for _, tc := range []struct {
		raw string
		ok  bool
	}{
		{"0", true}, {"255", true}, {"-1", false}, {"256", false}, {"x", false},
	} {
		c := &capture{}
		f.d.Dispatch(context.Background(), textEvent(2, "brightness="+tc.raw), c.send)
		texts := c.texts()
		if len(texts) != 1 {
			t.Fatalf("%s: expected one reply, got %v", tc.raw, texts)
		}
		if got := texts[0] == accept; got != tc.ok {
			t.Fatalf("brightness=%s: accepted=%v, want %v", tc.raw, got, tc.ok)
		}
	}
	s := f.sessionOf(t, 2)
	if s.BrightnessLevel == nil || *s.BrightnessLevel != 255 {
		t.Fatalf("expected last accepted value 255, got %+v", s.BrightnessLevel)
	}
}

func TestAdmissionOrderingNoFormatFirst(t *testing.T) {
	f := newFixture(t, pipeline.SubmitAccepted)
	// Everything except the format is complete.
	for _, text := range []string{"brightness=100", "denoising=10"} {
		f.d.Dispatch(context.Background(), textEvent(3, text), (&capture{}).send)
	}
	f.d.Dispatch(context.Background(), intent.Event{
		UserID: 3, ChatID: 3, Kind: intent.KindPhoto,
		Photos: []intent.PhotoVariant{{Ref: "p", Size: 1}},
	}, (&capture{}).send)

	c := &capture{}
	f.d.Dispatch(context.Background(), textEvent(3, "/photo"), c.send)
	want := f.msgs.Resolve("no.found.format.reject", "")
	texts := c.texts()
	if len(texts) != 1 || !strings.HasPrefix(texts[0], want) {
		t.Fatalf("expected no-format rejection, got %v", texts)
	}
	if len(f.pipe.reqs) != 0 {
		t.Fatal("nothing may reach the pipeline without a format")
	}
}

func TestCustomPresetGating(t *testing.T) {
	f := newFixture(t, pipeline.SubmitAccepted)
	for _, text := range []string{"/A4", "denoising=10"} {
		f.d.Dispatch(context.Background(), textEvent(4, text), (&capture{}).send)
	}
	c := &capture{}
	f.d.Dispatch(context.Background(), textEvent(4, "/custom"), c.send)
	want := f.msgs.Resolve("no.found.custom.properties.reject", "")
	if texts := c.texts(); len(texts) != 1 || texts[0] != want {
		t.Fatalf("expected missing-custom-properties, got %v", texts)
	}
}

func TestSequentialUpdatesKeepLastValue(t *testing.T) {
	f := newFixture(t, pipeline.SubmitAccepted)
	f.d.Dispatch(context.Background(), textEvent(5, "brightness=10"), (&capture{}).send)
	f.d.Dispatch(context.Background(), textEvent(5, "brightness=20"), (&capture{}).send)
	s := f.sessionOf(t, 5)
	if s.BrightnessLevel == nil || *s.BrightnessLevel != 20 {
		t.Fatalf("expected 20 after ordered updates, got %+v", s.BrightnessLevel)
	}
}

func TestConcurrentUsersDoNotInterfere(t *testing.T) {
	f := newFixture(t, pipeline.SubmitAccepted)
	var wg sync.WaitGroup
	for user := int64(100); user < 110; user++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				f.d.Dispatch(context.Background(), textEvent(id, fmt.Sprintf("denoising=%d", id)), (&capture{}).send)
			}
		}(user)
	}
	wg.Wait()
	for user := int64(100); user < 110; user++ {
		s := f.sessionOf(t, user)
		if s.DetailThreshold == nil || *s.DetailThreshold != int(user) {
			t.Fatalf("user %d: threshold = %+v", user, s.DetailThreshold)
		}
	}
}

func TestOverflowLeavesImageAndNeverStartsGeneration(t *testing.T) {
	f := newFixture(t, pipeline.SubmitRejectedOverflow)
	f.d.Dispatch(context.Background(), textEvent(6, "/A1"), (&capture{}).send)
	f.d.Dispatch(context.Background(), intent.Event{
		UserID: 6, ChatID: 6, Kind: intent.KindPhoto,
		Photos: []intent.PhotoVariant{{Ref: "img-6", Size: 9}},
	}, (&capture{}).send)

	c := &capture{}
	f.d.Dispatch(context.Background(), textEvent(6, "/photo"), c.send)

	want := f.msgs.Resolve("queue.overflow", "")
	if texts := c.texts(); len(texts) != 1 || texts[0] != want {
		t.Fatalf("expected overflow reply, got %v", texts)
	}
	s := f.sessionOf(t, 6)
	if s.PendingImageRef == nil || *s.PendingImageRef != "img-6" {
		t.Fatal("overflow must not consume the pending image")
	}
	started := f.msgs.Resolve("generating.start", "")
	for _, text := range c.texts() {
		if text == started {
			t.Fatal("accepted-path reply must never fire on overflow")
		}
	}
}

func TestFullScenarioPhotoFormatRun(t *testing.T) {
	f := newFixture(t, pipeline.SubmitAccepted)

	photoReply := &capture{}
	f.d.Dispatch(context.Background(), intent.Event{
		UserID: 7, ChatID: 7, Username: "bob", Kind: intent.KindPhoto,
		Photos: []intent.PhotoVariant{
			{Ref: "v100", Size: 100},
			{Ref: "v500", Size: 500},
			{Ref: "v250", Size: 250},
		},
	}, photoReply.send)
	if len(photoReply.payloads) != 1 || photoReply.payloads[0].Keyboard == nil {
		t.Fatalf("photo upload must yield one preset menu, got %v", photoReply.texts())
	}
	s := f.sessionOf(t, 7)
	if s.PendingImageRef == nil || *s.PendingImageRef != "v500" {
		t.Fatalf("pending image = %+v, want v500", s.PendingImageRef)
	}

	f.d.Dispatch(context.Background(), textEvent(7, "/A3"), (&capture{}).send)

	run := &capture{}
	f.d.Dispatch(context.Background(), textEvent(7, "/photo"), run.send)
	want := f.msgs.Resolve("generating.start", "")
	if texts := run.texts(); len(texts) != 1 || texts[0] != want {
		t.Fatalf("expected exactly one generating-started reply, got %v", texts)
	}
	if len(f.pipe.reqs) != 1 || f.pipe.reqs[0].SheetFormat != "A3" {
		t.Fatalf("pipeline request = %+v", f.pipe.reqs)
	}
}

func TestDocumentThatIsNotAnImage(t *testing.T) {
	f := newFixture(t, pipeline.SubmitAccepted)
	f.fetch.err = imagefetch.ErrNotAnImage

	c := &capture{}
	f.d.Dispatch(context.Background(), intent.Event{
		UserID: 8, ChatID: 8, Kind: intent.KindDocument, DocumentRef: "doc-8",
	}, c.send)

	want := f.msgs.Resolve("no.photo.file.reject", "")
	if texts := c.texts(); len(texts) != 1 || texts[0] != want {
		t.Fatalf("expected not-an-image rejection, got %v", texts)
	}
	if s := f.sessionOf(t, 8); s.PendingImageRef != nil {
		t.Fatal("rejected document must not set the pending image")
	}
}

func TestLanguageSwitchRepliesInNewLocale(t *testing.T) {
	f := newFixture(t, pipeline.SubmitAccepted)
	c := &capture{}
	f.d.Dispatch(context.Background(), intent.Event{
		UserID: 9, ChatID: 9, Kind: intent.KindCallback, CallbackToken: "ru",
	}, c.send)

	want := f.msgs.Resolve("start.message", "ru")
	if texts := c.texts(); len(texts) != 1 || texts[0] != want {
		t.Fatalf("expected russian start message, got %v", texts)
	}
	if s := f.sessionOf(t, 9); s.Locale != "ru" {
		t.Fatalf("locale = %q", s.Locale)
	}
}

func TestDeliveryFailureDoesNotKillDispatch(t *testing.T) {
	f := newFixture(t, pipeline.SubmitAccepted)
	broken := &capture{err: errors.New("network down")}
	f.d.Dispatch(context.Background(), textEvent(11, "/A0"), broken.send)

	// State still committed and the next event processes normally.
	if s := f.sessionOf(t, 11); s.SheetFormat == nil || *s.SheetFormat != "A0" {
		t.Fatalf("format not saved despite delivery failure: %+v", s.SheetFormat)
	}
	c := &capture{}
	f.d.Dispatch(context.Background(), textEvent(11, "/settings"), c.send)
	if len(c.payloads) != 1 {
		t.Fatalf("dispatch loop must survive delivery errors, got %v", c.texts())
	}
}
