package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
)

// PrintConfig writes the effective configuration with secrets masked.
func PrintConfig(w io.Writer, cfg *Config) {
	rows := [][2]string{
		{"mode", cfg.Mode.String()},
		{"config path", cfg.ConfigPath},
		{"log level", cfg.LogLevel},
		{"log output", orDefault(cfg.LogOutput, "stdout")},
		{"api base url", cfg.API.BaseURL},
		{"api anon key", mask(cfg.API.AnonKey)},
		{"api timeout", cfg.API.Timeout.String()},
		{"session store", cfg.Session.Store},
		{"polling interval", cfg.Polling.Interval.String()},
		{"polling max retries", fmt.Sprint(cfg.Polling.MaxRetries)},
	}

	if cfg.Session.Store == SessionStoreFile {
		rows = append(rows, [2]string{"session file", cfg.Session.FilePath})
	}
	if cfg.Session.Store == SessionStorePostgres {
		rows = append(rows, [2]string{"database", fmt.Sprintf("%s@%s:%s/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)})
	}
	if cfg.Mode == types.ConsoleMode {
		rows = append(rows,
			[2]string{"console port", cfg.Console.Port},
			[2]string{"allowed origins", strings.Join(cfg.Console.AllowedOrigins, ", ")},
		)
	}
	if cfg.RabbitMQ.Enabled {
		rows = append(rows, [2]string{"audit exchange", fmt.Sprintf("%s@%s:%s/%s", cfg.RabbitMQ.User, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.Exchange)})
	}
	rows = append(rows, [2]string{"telemetry", fmt.Sprint(cfg.Telemetry.Enabled)})

	fmt.Fprintln(w, "configuration:")
	for _, r := range rows {
		fmt.Fprintf(w, "  %-20s %s\n", r[0], r[1])
	}
}

func mask(secret string) string {
	if secret == "" {
		return "(unset)"
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
