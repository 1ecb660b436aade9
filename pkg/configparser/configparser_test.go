package configparser

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	API struct {
		BaseURL string        `env:"API_BASE_URL" required:"true"`
		Timeout time.Duration `env:"API_TIMEOUT" default:"15s"`
	}
	Polling struct {
		Interval   time.Duration `env:"POLLING_INTERVAL" default:"2s"`
		MaxRetries int           `env:"POLLING_MAX_RETRIES" default:"0"`
	}
	Console struct {
		AllowedOrigins []string `env:"CONSOLE_ALLOWED_ORIGINS" default:"http://localhost:5173"`
		Enabled        bool     `env:"CONSOLE_ENABLED" default:"true"`
	}
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAndParseYaml(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("API_TIMEOUT", "")
	t.Setenv("POLLING_MAX_RETRIES", "")
	t.Setenv("CONSOLE_ALLOWED_ORIGINS", "")
	t.Setenv("QGLIDE_TEST_TIMEOUT", "30s")

	path := writeYAML(t, `
api:
  base_url: https://api.qglide.test/functions/v1
  timeout: ${QGLIDE_TEST_TIMEOUT:-10s}
polling:
  max_retries: 2
console:
  allowed_origins:
    - http://a.test
    - http://b.test
`)

	var cfg testConfig
	if err := LoadAndParseYaml(path, &cfg); err != nil {
		t.Fatalf("LoadAndParseYaml: %v", err)
	}

	if cfg.API.BaseURL != "https://api.qglide.test/functions/v1" {
		t.Fatalf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Fatalf("env expansion failed, got %v", cfg.API.Timeout)
	}
	if cfg.Polling.Interval != 2*time.Second || cfg.Polling.MaxRetries != 2 {
		t.Fatalf("unexpected polling %+v", cfg.Polling)
	}
	if len(cfg.Console.AllowedOrigins) != 2 || cfg.Console.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.Console.AllowedOrigins)
	}
	if !cfg.Console.Enabled {
		t.Fatalf("default bool not applied")
	}
}

func TestEnvironmentWinsOverFile(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://from-env")
	path := writeYAML(t, "api:\n  base_url: http://from-file\n")

	var cfg testConfig
	if err := LoadAndParseYaml(path, &cfg); err != nil {
		t.Fatalf("LoadAndParseYaml: %v", err)
	}
	if cfg.API.BaseURL != "http://from-env" {
		t.Fatalf("environment should win, got %q", cfg.API.BaseURL)
	}
}

func TestMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://x")
	t.Setenv("API_TIMEOUT", "")
	var cfg testConfig
	if err := LoadAndParseYaml(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Fatalf("default not applied: %v", cfg.API.Timeout)
	}
}

func TestRequiredField(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	var cfg testConfig
	if err := ParseEnv(&cfg); err == nil {
		t.Fatalf("expected required error")
	}
}

func TestParseEnv_RejectsNonPointer(t *testing.T) {
	if err := ParseEnv(testConfig{}); err != ErrNotStructPointer {
		t.Fatalf("expected ErrNotStructPointer, got %v", err)
	}
}
