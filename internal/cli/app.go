package cli

import (
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/dukerupert/afresh/internal/config"
	"github.com/dukerupert/afresh/internal/database"
	"github.com/dukerupert/afresh/internal/logging"
	"github.com/dukerupert/afresh/internal/server"
)

// app is the wiring every database-backed command shares.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	logCloser io.Closer
	db        *sql.DB
	svc       *server.Services
}

// loadConfig reads the config file and applies the global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openAppWith(cfg)
}

func openAppWith(cfg config.Config) (*app, error) {
	logger, closer := logging.Setup(cfg.Logging)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		closer.Close()
		return nil, err
	}

	svc, err := server.NewServices(db, cfg, logger)
	if err != nil {
		db.Close()
		closer.Close()
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, logCloser: closer, db: db, svc: svc}, nil
}

func (a *app) Close() error {
	err := a.db.Close()
	a.logCloser.Close()
	return err
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
