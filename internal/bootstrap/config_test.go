package bootstrap

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ticketdesk/admin-console/config"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://tickets.example.com/api/")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("HTTP_ADDR", ":9090")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.API.BaseURL != "https://tickets.example.com/api" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Store.Backend != config.StoreBackendMemory {
		t.Errorf("Store.Backend = %q", cfg.Store.Backend)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("API_BASE_URL", "not a url")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestInitLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := InitLogger(&buf, slog.LevelWarn)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info message logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"key":"value"`) ||
		!strings.Contains(out, `"service":"admin-console"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.env")
	content := "API_BASE_URL=https://file.example.com/api\nHTTP_ADDR=:7070\nSTORE_BACKEND=memory\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", path)
	// godotenv sets variables for the whole process.
	t.Cleanup(func() {
		_ = os.Unsetenv("API_BASE_URL")
		_ = os.Unsetenv("STORE_BACKEND")
	})
	// The process environment takes precedence over the file.
	t.Setenv("HTTP_ADDR", ":6060")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.API.BaseURL != "https://file.example.com/api" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.HTTP.Addr != ":6060" {
		t.Errorf("HTTP.Addr = %q, want the environment value", cfg.HTTP.Addr)
	}
}

func TestLoadConfig_MissingExplicitEnvFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for a missing ENV_FILE")
	}
}
