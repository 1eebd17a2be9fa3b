package generation

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/stickpick/stickpick/core/logger"
	"github.com/stickpick/stickpick/core/telegram/netutil"
	"github.com/stickpick/stickpick/internal/pipeline"
	"log/slog"
)

// Deliverer uploads finished artifacts to the request destination. The bot
// handle is bound lazily because the runtime constructs it after wiring.
type Deliverer struct {
	bot atomic.Pointer[tele.Bot]
}

// NewDeliverer returns an unbound deliverer; Bind must be called before the
// first delivery.
func NewDeliverer() *Deliverer {
	return &Deliverer{}
}

// Bind attaches the bot handle used for uploads. Safe to call repeatedly.
func (d *Deliverer) Bind(b *tele.Bot) {
	if b != nil {
		d.bot.Store(b)
	}
}

// Deliver sends each artifact as a document to the destination chat. The
// first failed upload aborts the rest; partial deliveries are logged.
func (d *Deliverer) Deliver(ctx context.Context, req *pipeline.Request, artifacts []string) error {
	b := d.bot.Load()
	if b == nil {
		return errors.New("generation: bot not bound")
	}
	to := &tele.Chat{ID: req.Dest.ChatID}

	for i, path := range artifacts {
		doc := &tele.Document{
			File:     tele.FromDisk(path),
			FileName: filepath.Base(path),
		}
		if _, err := b.Send(to, doc); err != nil {
			logger.Error(ctx, "service.generation", "artifact.send",
				slog.String("status", "fail"),
				slog.String("job_id", req.JobID),
				slog.Int("sent", i),
				slog.Int("total", len(artifacts)),
				slog.Bool("retryable", netutil.ShouldRetry(err)),
				slog.String("err", err.Error()),
			)
			return fmt.Errorf("generation: send %s: %w", filepath.Base(path), err)
		}
	}
	logger.Info(ctx, "service.generation", "artifact.send",
		slog.String("status", "ok"),
		slog.String("job_id", req.JobID),
		slog.Int("total", len(artifacts)),
	)
	return nil
}
