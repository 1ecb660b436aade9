package modes

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Temutjin2k/qglide-admin/config"
	"github.com/Temutjin2k/qglide-admin/internal/adapter/http/server"
	wshandler "github.com/Temutjin2k/qglide-admin/internal/adapter/http/ws"
	"github.com/Temutjin2k/qglide-admin/pkg/clock"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	"github.com/Temutjin2k/qglide-admin/pkg/telemetry"
	ws "github.com/Temutjin2k/qglide-admin/pkg/wsHub"
)

// Console serves the operator API, the ticket websocket and swagger.
type Console struct {
	backend    *backend
	hub        *ws.ConnectionHub
	httpServer *server.API
	tracing    func(context.Context) error

	cfg config.Config
	log logger.Logger
}

func NewConsole(ctx context.Context, cfg config.Config, log logger.Logger) (*Console, error) {
	tracing, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: Version,
		Output:         os.Stdout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init telemetry: %w", err)
	}

	b, err := newBackend(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to setup backend", err)
		_ = tracing(ctx)
		return nil, err
	}

	hub := ws.NewConnHub("console", log)
	ticketView := wshandler.NewTicketView(b.admin, hub, clock.Real(), wshandler.PollingOptions{
		Interval:   cfg.Polling.Interval,
		MaxRetries: cfg.Polling.MaxRetries,
	}, cfg.Console.AllowedOrigins, log)

	services := server.Services{
		Auth:      b.admin,
		Dashboard: b.admin,
		Rides:     b.admin,
		Users:     b.admin,
		Tickets:   b.admin,
	}
	httpServer, err := server.New(cfg, services, ticketView, b.store, log)
	if err != nil {
		log.Error(ctx, "failed to setup http server", err)
		b.close(ctx)
		_ = tracing(ctx)
		return nil, err
	}

	return &Console{
		backend:    b,
		hub:        hub,
		httpServer: httpServer,
		tracing:    tracing,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (c *Console) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	c.httpServer.Run(ctx, errCh)
	defer func() {
		c.close(ctx)
		c.log.Info(ctx, "console closed")
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	c.log.Info(ctx, "console started", "port", c.cfg.Console.Port, "upstream", c.cfg.API.BaseURL)

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		c.log.Info(ctx, "shutting down console", "signal", sig.String())
		return nil
	case <-ctx.Done():
		return nil
	}
}

func (c *Console) close(ctx context.Context) {
	// Detach from the caller's cancellation so shutdown still gets its timeouts.
	ctx = context.WithoutCancel(ctx)

	if err := c.httpServer.Stop(ctx); err != nil {
		c.log.Warn(ctx, "failed to gracefully close http server", "error", err.Error())
	}
	c.hub.Close()
	c.backend.close(ctx)
	if err := c.tracing(ctx); err != nil {
		c.log.Warn(ctx, "failed to flush traces", "error", err.Error())
	}
}
