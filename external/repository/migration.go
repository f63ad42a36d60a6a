package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`DO $$ BEGIN CREATE TYPE support_session_status AS ENUM ('thread_open', 'active', 'timed_out_closed', 'closed', 'aborted'); EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`CREATE TABLE IF NOT EXISTS support_sessions (
		id UUID PRIMARY KEY,
		guild_id TEXT NOT NULL,
		thread_id TEXT NOT NULL UNIQUE,
		prompt_message_id TEXT NOT NULL DEFAULT '',
		user_id TEXT NOT NULL,
		category TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '',
		status support_session_status NOT NULL DEFAULT 'thread_open',
		opened_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		closed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_support_sessions_status ON support_sessions (guild_id, status) WHERE closed_at IS NULL`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
