// Package cli provides the bootstrap shared by ledger commands: logging,
// configuration, store selection and opening one identity's ledger.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"finledger/internal/backend"
	"finledger/internal/categorizer"
	"finledger/internal/config"
	"finledger/internal/ledger"
	"finledger/internal/log"
	"finledger/internal/reconcile"
)

// SetupLogger builds the process logger from cfg and sets it as the default.
func SetupLogger(cfg *config.Config) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	lc := log.DefaultConfig()
	lc.Level = level
	lc.Format = cfg.LogFormat
	lc.Component = log.ComponentCLI
	lc.Output = os.Stderr

	logger := log.New(lc)
	log.SetDefault(logger)
	return logger, nil
}

// LoadEnvFile loads a .env file from the working directory.
// A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Session is one identity's ledger together with the services that act on it.
type Session struct {
	Ledger      *ledger.Engine
	Reconciler  *reconcile.Reconciler
	Categorizer *categorizer.Categorizer

	backend *backend.BackendResult
}

// OpenSession selects the configured store and opens identity's ledger on it.
func OpenSession(ctx context.Context, cfg *config.Config, logger *log.Logger, identity string) (*Session, error) {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, bc)
	if err != nil {
		return nil, err
	}

	cat := categorizer.New(cfg.CategorizerCache)
	engine, err := ledger.Open(ctx, identity, result.Store,
		ledger.WithClassifier(cat),
		ledger.WithLogger(logger),
		ledger.WithLowBalanceThreshold(cfg.LowBalanceThreshold))
	if err != nil {
		if cerr := result.Close(); cerr != nil {
			logger.WarnContext(ctx, "Failed to close backend", log.FieldError, cerr)
		}
		return nil, fmt.Errorf("open ledger for %q: %w", identity, err)
	}
	if engine.Recovered() {
		logger.WithFields(log.NewFields().WithIdentity(identity)).
			WarnContext(ctx, "Stored ledger was unreadable, starting from an empty one")
	}

	rec := reconcile.New(engine, cfg.ReportsDir,
		reconcile.WithClassifier(cat),
		reconcile.WithLogger(logger))

	return &Session{
		Ledger:      engine,
		Reconciler:  rec,
		Categorizer: cat,
		backend:     result,
	}, nil
}

// Close releases the store.
func (s *Session) Close() error {
	if s == nil || s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
