package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Temutjin2k/qglide-admin/config"
	"github.com/Temutjin2k/qglide-admin/internal/app/modes"
	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	wrap "github.com/Temutjin2k/qglide-admin/pkg/logger/wrapper"
)

var (
	ErrInvalidMode           = errors.New("invalid mode")
	ErrServiceNotInitialized = errors.New("service not initialized")
)

// Service is one front-end of the console. Start blocks until the
// front-end is done and releases everything it opened.
type Service interface {
	Start(ctx context.Context) error
}

type constructor func(ctx context.Context, cfg config.Config, log logger.Logger) (Service, error)

var constructors = map[types.ServiceMode]constructor{
	types.ConsoleMode: func(ctx context.Context, cfg config.Config, log logger.Logger) (Service, error) {
		return modes.NewConsole(ctx, cfg, log)
	},
	types.TicketsMode: func(ctx context.Context, cfg config.Config, log logger.Logger) (Service, error) {
		return modes.NewTickets(ctx, cfg, log)
	},
}

type App struct {
	mode    types.ServiceMode
	service Service
	log     logger.Logger
}

// NewApplication builds the front-end for cfg.Mode. Nothing listens or draws
// until Run.
func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	newService, ok := constructors[cfg.Mode]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, cfg.Mode)
	}

	ctx = wrap.WithAction(ctx, "app_init")
	service, err := newService(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to init %s: %w", cfg.Mode, err)
	}

	return &App{mode: cfg.Mode, service: service, log: log}, nil
}

func (a *App) Run(ctx context.Context) error {
	if a.service == nil {
		return ErrServiceNotInitialized
	}

	a.log.Debug(wrap.WithAction(ctx, "app_run"), "starting", "mode", a.mode.String())
	return a.service.Start(ctx)
}
