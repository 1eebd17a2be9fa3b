package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestSubmitRejectsWhenFull(t *testing.T) {
	release := make(chan struct{})
	var started sync.WaitGroup
	started.Add(1)
	render := func(ctx context.Context, req *Request) ([]string, error) {
		started.Done()
		<-release
		return nil, nil
	}
	deliver := func(ctx context.Context, req *Request, artifacts []string) error { return nil }

	s := NewService(Config{QueueSize: 1, Workers: 1}, render, deliver)
	defer func() {
		close(release)
		s.Close()
	}()

	// First job occupies the worker, second fills the queue slot.
	if got := s.Submit(context.Background(), &Request{JobID: "a"}); got != SubmitAccepted {
		t.Fatalf("first submit: %v", got)
	}
	started.Wait()
	if got := s.Submit(context.Background(), &Request{JobID: "b"}); got != SubmitAccepted {
		t.Fatalf("second submit: %v", got)
	}
	if got := s.Submit(context.Background(), &Request{JobID: "c"}); got != SubmitRejectedOverflow {
		t.Fatalf("expected overflow, got %v", got)
	}
}

func TestWorkersRenderAndDeliver(t *testing.T) {
	done := make(chan string, 1)
	render := func(ctx context.Context, req *Request) ([]string, error) {
		return []string{"result.pdf", "preview.pdf"}, nil
	}
	deliver := func(ctx context.Context, req *Request, artifacts []string) error {
		if len(artifacts) != 2 {
			t.Errorf("artifacts = %v", artifacts)
		}
		done <- req.JobID
		return nil
	}

	s := NewService(Config{QueueSize: 2, Workers: 1}, render, deliver)
	defer s.Close()

	if got := s.Submit(context.Background(), &Request{JobID: "job-1"}); got != SubmitAccepted {
		t.Fatalf("submit: %v", got)
	}
	select {
	case id := <-done:
		if id != "job-1" {
			t.Fatalf("delivered wrong job: %s", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job never delivered")
	}
}

func TestSubmitAfterCloseRejects(t *testing.T) {
	s := NewService(Config{QueueSize: 1, Workers: 1},
		func(ctx context.Context, req *Request) ([]string, error) { return nil, nil },
		func(ctx context.Context, req *Request, artifacts []string) error { return nil },
	)
	s.Close()
	if got := s.Submit(context.Background(), &Request{JobID: "late"}); got != SubmitRejectedOverflow {
		t.Fatalf("expected rejection after close, got %v", got)
	}
}
