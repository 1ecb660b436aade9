package modes

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Temutjin2k/qglide-admin/config"
	"github.com/Temutjin2k/qglide-admin/internal/adapter/tui"
	"github.com/Temutjin2k/qglide-admin/pkg/clock"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	"github.com/Temutjin2k/qglide-admin/pkg/telemetry"
)

// Tickets runs the terminal ticket watcher against the stored session.
type Tickets struct {
	backend *backend
	model   *tui.Model
	tracing func(context.Context) error
	spans   io.Closer

	log logger.Logger
}

func NewTickets(ctx context.Context, cfg config.Config, log logger.Logger) (*Tickets, error) {
	// The terminal belongs to the watcher, so spans go next to the log file.
	var (
		spans  io.WriteCloser
		output io.Writer = io.Discard
	)
	if cfg.Telemetry.Enabled && cfg.LogOutput != "" {
		f, err := os.OpenFile(cfg.LogOutput+".traces", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("failed to open trace output: %w", err)
		}
		spans, output = f, f
	}

	tracing, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: Version,
		Output:         output,
	})
	if err != nil {
		closeQuietly(spans)
		return nil, fmt.Errorf("failed to init telemetry: %w", err)
	}

	b, err := newBackend(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to setup backend", err)
		_ = tracing(ctx)
		closeQuietly(spans)
		return nil, err
	}

	model := tui.New(ctx, b.admin, tui.Options{
		Interval:   cfg.Polling.Interval,
		MaxRetries: cfg.Polling.MaxRetries,
		PageSize:   cfg.Console.PageSize,
		Clock:      clock.Real(),
	}, log)

	return &Tickets{
		backend: b,
		model:   model,
		tracing: tracing,
		spans:   spans,
		log:     log,
	}, nil
}

func (t *Tickets) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()
	defer t.close(ctx)

	t.log.Info(ctx, "ticket watcher started")
	if err := tui.Run(ctx, t.model); err != nil {
		return err
	}
	t.log.Info(ctx, "ticket watcher closed")
	return nil
}

func (t *Tickets) close(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	t.backend.close(ctx)
	if err := t.tracing(ctx); err != nil {
		t.log.Warn(ctx, "failed to flush traces", "error", err.Error())
	}
	closeQuietly(t.spans)
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
