package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/ticketdesk/admin-console/config"
)

// defaultEnvFile is read before parsing the environment when present.
// ENV_FILE points elsewhere. Real environment variables always win.
const defaultEnvFile = ".env"

// InitLogger installs a JSON slog logger at level as the default and
// returns it. Every record carries service=admin-console.
func InitLogger(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})).
		With("service", "admin-console")
	slog.SetDefault(logger)
	return logger
}

// LoadConfig reads the env file, parses the environment into an AppConfig,
// then sanitizes and validates it.
func LoadConfig() (config.AppConfig, error) {
	path := os.Getenv("ENV_FILE")
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	// A missing default file is normal outside development.
	if err := godotenv.Load(path); err != nil && (explicit || !errors.Is(err, fs.ErrNotExist)) {
		return config.AppConfig{}, fmt.Errorf("load env file %s: %w", path, err)
	}

	cfg, err := env.ParseAs[config.AppConfig]()
	if err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
