package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/foxseedlab/assist/internal/config"
	"github.com/foxseedlab/assist/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do/v2"
)

const ledgerOpenTimeout = 15 * time.Second

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (repository.Ledger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if !cfg.LedgerEnabled() {
			slog.Info("DATABASE_URL not set; session ledger kept in memory")
			return NewMemoryLedger(), nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), ledgerOpenTimeout)
		defer cancel()
		pool, err := openPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		slog.Info("session ledger ready", "backend", "postgres")
		return NewPostgresLedger(pool), nil
	})
}

// openPool connects, verifies the connection and applies the schema. The pool
// is closed on any failure.
func openPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	poolCfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger pool: %w", err)
	}
	steps := []struct {
		name string
		run  func(context.Context, *pgxpool.Pool) error
	}{
		{name: "ping", run: func(ctx context.Context, p *pgxpool.Pool) error { return p.Ping(ctx) }},
		{name: "migrate", run: RunMigration},
	}
	for _, step := range steps {
		if err := step.run(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ledger %s failed: %w", step.name, err)
		}
	}
	return pool, nil
}
