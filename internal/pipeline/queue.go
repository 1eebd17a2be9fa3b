package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/stickpick/stickpick/core/logger"
	"log/slog"
)

// Renderer turns an accepted request into artifact file paths. Rendering is
// external to this core; implementations typically shell out to a generator.
type Renderer func(ctx context.Context, req *Request) ([]string, error)

// Deliverer uploads finished artifacts back to the request destination.
type Deliverer func(ctx context.Context, req *Request, artifacts []string) error

// Config sizes the bounded queue.
type Config struct {
	QueueSize int `yaml:"queue_size" envconfig:"PIPELINE_QUEUE_SIZE"`
	Workers   int `yaml:"workers" envconfig:"PIPELINE_WORKERS"`
}

// Service is a bounded worker pool implementing Pipeline. Admission is
// non-blocking: a full queue rejects immediately.
type Service struct {
	jobs    chan *Request
	mu      sync.RWMutex
	closed  bool
	once    sync.Once
	wg      sync.WaitGroup
	render  Renderer
	deliver Deliverer
}

// NewService starts the worker pool. Zeroed config fields fall back to
// small defaults suited to a single-host deployment.
func NewService(cfg Config, render Renderer, deliver Deliverer) *Service {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 4
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	s := &Service{
		jobs:    make(chan *Request, cfg.QueueSize),
		render:  render,
		deliver: deliver,
	}
	s.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go s.worker()
	}
	return s
}

// Submit enqueues the request if capacity allows. It never blocks and never
// retries; retry policy belongs to the user.
func (s *Service) Submit(ctx context.Context, req *Request) SubmitResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return SubmitRejectedOverflow
	}
	select {
	case s.jobs <- req:
		logger.Info(ctx, "service.pipeline", "pipeline.accept",
			slog.String("job_id", req.JobID),
			slog.String("preset", string(req.Params.Preset)),
			slog.String("format", req.SheetFormat),
			slog.Int("queue_len", len(s.jobs)),
			slog.Int("queue_cap", cap(s.jobs)),
		)
		return SubmitAccepted
	default:
		logger.Warn(ctx, "service.pipeline", "pipeline.overflow",
			slog.String("job_id", req.JobID),
			slog.Int("queue_cap", cap(s.jobs)),
		)
		return SubmitRejectedOverflow
	}
}

// Close stops accepting jobs and waits for queued work to finish.
func (s *Service) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.jobs)
		s.wg.Wait()
	})
}

func (s *Service) worker() {
	defer s.wg.Done()
	for req := range s.jobs {
		s.process(req)
	}
}

func (s *Service) process(req *Request) {
	ctx := context.Background()
	start := time.Now()

	artifacts, err := s.render(ctx, req)
	if err != nil {
		logger.Error(ctx, "service.pipeline", "pipeline.render",
			slog.String("status", "fail"),
			slog.String("job_id", req.JobID),
			slog.Duration("duration", logger.Took(start)),
			slog.String("err", err.Error()),
		)
		return
	}

	if err := s.deliver(ctx, req, artifacts); err != nil {
		logger.Error(ctx, "service.pipeline", "pipeline.deliver",
			slog.String("status", "fail"),
			slog.String("job_id", req.JobID),
			slog.String("err", err.Error()),
		)
		return
	}

	logger.Info(ctx, "service.pipeline", "pipeline.done",
		slog.String("status", "ok"),
		slog.String("job_id", req.JobID),
		slog.Duration("duration", logger.Took(start)),
	)
}
