package repository

import (
	"context"

	"github.com/foxseedlab/assist/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresLedger struct {
	pool *pgxpool.Pool
}

func NewPostgresLedger(pool *pgxpool.Pool) repository.Ledger {
	return &PostgresLedger{pool: pool}
}

// Shutdown closes the pool when the container is torn down.
func (r *PostgresLedger) Shutdown() {
	r.pool.Close()
}

func (r *PostgresLedger) OpenSession(ctx context.Context, input repository.OpenSessionInput) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO support_sessions (id, guild_id, thread_id, prompt_message_id, user_id, category, status, opened_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, 'thread_open', $7, $7)
		 ON CONFLICT (thread_id) DO UPDATE SET prompt_message_id = EXCLUDED.prompt_message_id, updated_at = EXCLUDED.updated_at`,
		input.ID, input.GuildID, input.ThreadID, input.PromptMessageID, input.UserID, input.Category, input.OpenedAt)
	return err
}

func (r *PostgresLedger) UpdateSession(ctx context.Context, input repository.UpdateSessionInput) error {
	var closedAt any
	if input.Status.Terminal() {
		closedAt = input.UpdatedAt
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE support_sessions
		 SET status = $2,
		     title = COALESCE(NULLIF($3, ''), title),
		     tags = COALESCE(NULLIF($4, ''), tags),
		     updated_at = $5,
		     closed_at = COALESCE($6, closed_at)
		 WHERE thread_id = $1`,
		input.ThreadID, string(input.Status), input.Title, input.Tags, input.UpdatedAt, closedAt)
	return err
}

func (r *PostgresLedger) ListSessionsByStatus(ctx context.Context, guildID string, status repository.SessionStatus) ([]repository.Session, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, guild_id, thread_id, prompt_message_id, user_id, category, title, tags, status::text, opened_at, updated_at, closed_at
		 FROM support_sessions WHERE guild_id = $1 AND status = $2 ORDER BY opened_at ASC`,
		guildID, string(status))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.Session, error) {
		var s repository.Session
		err := row.Scan(&s.ID, &s.GuildID, &s.ThreadID, &s.PromptMessageID, &s.UserID, &s.Category, &s.Title, &s.Tags, &s.Status, &s.OpenedAt, &s.UpdatedAt, &s.ClosedAt)
		return s, err
	})
}
