package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hugo-lorenzo-mato/docfix/internal/adapters/sqlstore"
	"github.com/hugo-lorenzo-mato/docfix/internal/config"
	"github.com/hugo-lorenzo-mato/docfix/internal/fix"
	"github.com/hugo-lorenzo-mato/docfix/internal/logging"
	"github.com/hugo-lorenzo-mato/docfix/internal/service"
)

const appName = "docfix"

// flagBindings maps config keys to the persistent and local flags that
// override them.
var flagBindings = map[string]string{
	"log.level":   "log-level",
	"log.format":  "log-format",
	"server.host": "host",
	"server.port": "port",
}

// loadConfig reads and validates the configuration. Flags only override
// the file and environment when they were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	for key, name := range flagBindings {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding --%s: %w", name, err)
			}
		}
	}

	loader := config.NewLoaderWithViper(v)
	if cfgFile != "" {
		loader.WithConfigFile(cfgFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app is the wiring shared by every command that talks to the database.
type app struct {
	cfg      *config.Config
	logger   *logging.Logger
	store    *sqlstore.Store
	registry *sqlstore.Registry
	docs     *service.DocumentService

	closeLog func() error
}

func openApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.Open(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, err
	}

	registry := sqlstore.NewRegistry(cfg.Statements.Dir, logger.Logger)
	store, err := sqlstore.Open(ctx, sqlstore.Options{
		Connection:   connectionFromConfig(cfg.Database),
		QueryTimeout: cfg.Database.QueryTimeout,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		Retry:        retryFromConfig(cfg.Database),
		Statements:   registry,
		Logger:       logger.Logger,
	})
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	docs := service.NewDocumentService(store, service.Options{
		Fix: fix.Config{
			Statement:         cfg.Fix.Statement,
			WrongDayStatement: cfg.Fix.WrongDayStatement,
			WrongDayError:     cfg.Fix.WrongDayError,
			WrongDayHint:      cfg.Fix.WrongDayHint,
		},
		Logger: logger.Logger,
	})

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		registry: registry,
		docs:     docs,
		closeLog: closeLog,
	}, nil
}

func (a *app) Close() error {
	var errs []error
	if err := a.registry.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.closeLog(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// closeApp is deferred by commands; failures are only logged.
func closeApp(a *app) {
	if err := a.Close(); err != nil {
		a.logger.Warn("closing resources", slog.String("error", err.Error()))
	}
}

func connectionFromConfig(db config.DatabaseConfig) sqlstore.Connection {
	return sqlstore.Connection{
		Driver:                 db.Driver,
		DSN:                    db.DSN,
		Server:                 db.Server,
		Port:                   db.Port,
		Database:               db.Name,
		User:                   db.User,
		Password:               db.Password,
		Encrypt:                db.EncryptMode(),
		TrustServerCertificate: db.TrustsServerCertificate(),
		AppName:                appName,
		Path:                   db.Path,
	}
}

// retryFromConfig keeps a fixed delay between connection attempts.
func retryFromConfig(db config.DatabaseConfig) *sqlstore.RetryPolicy {
	return &sqlstore.RetryPolicy{
		MaxAttempts: db.ConnectAttempts,
		BaseDelay:   db.ConnectBackoff,
		MaxDelay:    db.ConnectBackoff,
		Multiplier:  1,
	}
}
