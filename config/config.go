package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/Temutjin2k/qglide-admin/internal/domain/types"
	"github.com/Temutjin2k/qglide-admin/pkg/configparser"
	"github.com/Temutjin2k/qglide-admin/pkg/logger"
	"github.com/Temutjin2k/qglide-admin/pkg/postgres"
)

const (
	SessionStoreFile     = "file"
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"

	defaultTicketsLog = "qglide-tickets.log"
)

var (
	ErrModeNotProvided = errors.New("mode flag not provided")
	ErrUnknownMode     = errors.New("unknown mode")
	ErrHelp            = pflag.ErrHelp
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Mode       types.ServiceMode
		ConfigPath string
		LogLevel   string
		LogOutput  string

		API       APIConfig
		Session   SessionConfig
		Polling   PollingConfig
		Console   ConsoleConfig
		Database  DatabaseConfig
		RabbitMQ  RabbitMQConfig
		Telemetry TelemetryConfig
	}

	APIConfig struct {
		BaseURL string        `env:"API_BASE_URL" required:"true"`
		AnonKey string        `env:"API_ANON_KEY"`
		Timeout time.Duration `env:"API_TIMEOUT" default:"15s"`
	}

	SessionConfig struct {
		Store    string `env:"SESSION_STORE" default:"file"`
		FilePath string `env:"SESSION_FILE_PATH" default:".qglide/session.json"`
		Key      string `env:"SESSION_KEY" default:"qglide_admin_token"`
	}

	PollingConfig struct {
		Interval   time.Duration `env:"POLLING_INTERVAL" default:"2s"`
		MaxRetries int           `env:"POLLING_MAX_RETRIES" default:"0"`
	}

	ConsoleConfig struct {
		Port           string   `env:"CONSOLE_PORT" default:"8080"`
		AllowedOrigins []string `env:"CONSOLE_ALLOWED_ORIGINS" default:"http://localhost:5173"`
		PageSize       int      `env:"CONSOLE_PAGE_SIZE" default:"20"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"qglide"`
		Password string `env:"DATABASE_PASSWORD" default:"qglide"`
		Database string `env:"DATABASE_DATABASE" default:"qglide_admin"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"4"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"1"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	RabbitMQConfig struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED" default:"false"`
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
		Exchange string `env:"RABBITMQ_EXCHANGE" default:"admin_audit"`
	}

	TelemetryConfig struct {
		Enabled     bool   `env:"TELEMETRY_ENABLED" default:"false"`
		ServiceName string `env:"TELEMETRY_SERVICE_NAME" default:"qglide-admin"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c DatabaseConfig) Pool() postgres.Config {
	return postgres.Config{
		DSN:             c.GetDSN(),
		MaxConns:        c.MaxConns,
		MinConns:        c.MinConns,
		MaxConnLifetime: c.MaxConnLifetime,
		MaxConnIdleTime: c.MaxConnIdleTime,
	}
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

// NewConfig parses flags from args, loads .env and the YAML config file, and
// fills the rest from the environment. It returns ErrHelp when --help was
// given.
func NewConfig(args []string) (*Config, error) {
	cfg := &Config{}

	flags, mode := newFlagSet(cfg)
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if help, _ := flags.GetBool("help"); help {
		return nil, ErrHelp
	}
	cfg.Mode = types.ServiceMode(*mode)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(cfg.ConfigPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newFlagSet(cfg *Config) (*pflag.FlagSet, *string) {
	flags := pflag.NewFlagSet("qglide", pflag.ContinueOnError)
	flags.Usage = func() {}

	mode := flags.String("mode", "", "application mode: console or tickets")
	flags.StringVar(&cfg.ConfigPath, "config-path", "config.yaml", "path to the config yaml file")
	flags.StringVar(&cfg.LogLevel, "log-level", logger.LevelInfo, "log level: DEBUG, INFO, WARN, ERROR")
	flags.StringVar(&cfg.LogOutput, "log-output", "", "write logs to this file instead of stdout")
	flags.BoolP("help", "h", false, "show help")
	return flags, mode
}

func (c *Config) validate() error {
	if c.Mode == "" {
		return ErrModeNotProvided
	}
	if !slices.Contains([]types.ServiceMode{types.ConsoleMode, types.TicketsMode}, c.Mode) {
		return fmt.Errorf("%w: %q", ErrUnknownMode, c.Mode)
	}
	if !logger.ValidateLogLevel(c.LogLevel) {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if !slices.Contains([]string{SessionStoreFile, SessionStoreMemory, SessionStorePostgres}, c.Session.Store) {
		return fmt.Errorf("invalid session store %q", c.Session.Store)
	}
	if c.Polling.Interval <= 0 {
		return fmt.Errorf("polling interval must be positive, got %s", c.Polling.Interval)
	}
	if c.Polling.MaxRetries < 0 {
		return errors.New("polling max retries must not be negative")
	}

	// The ticket watcher draws on the terminal, so its logs go to a file.
	if c.Mode == types.TicketsMode && c.LogOutput == "" {
		c.LogOutput = defaultTicketsLog
	}
	return nil
}
