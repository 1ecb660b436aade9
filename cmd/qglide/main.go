package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Temutjin2k/qglide-admin/config"
	"github.com/Temutjin2k/qglide-admin/internal/app"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx := context.Background()

	cfg, err := config.NewConfig(args)
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			config.PrintHelp(os.Stdout)
			return 0
		}
		fmt.Fprintf(os.Stderr, "failed to configure application: %v\n\n", err)
		config.PrintHelp(os.Stderr)
		return 2
	}

	out := io.Writer(os.Stdout)
	if cfg.LogOutput != "" {
		f, err := os.OpenFile(cfg.LogOutput, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log output: %v\n", err)
			return 1
		}
		defer f.Close()
		out = f
	}
	log := logger.InitLoggerTo(out, "qglide-"+cfg.Mode.String(), cfg.LogLevel)

	// Printing configuration
	config.PrintConfig(out, cfg)

	application, err := app.NewApplication(ctx, *cfg, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		return 1
	}

	if err = application.Run(ctx); err != nil {
		log.Error(ctx, "failed to run application", err)
		return 1
	}
	return 0
}
