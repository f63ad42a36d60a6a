package repository

import (
	"context"
	"time"
)

type OpenSessionInput struct {
	ID              string
	GuildID         string
	ThreadID        string
	PromptMessageID string
	UserID          string
	Category        string
	OpenedAt        time.Time
}

type UpdateSessionInput struct {
	ThreadID  string
	Status    SessionStatus
	Title     string
	Tags      string
	UpdatedAt time.Time
}

// Ledger records support sessions keyed by thread id. Implementations must
// treat updates to unknown threads as no-ops.
type Ledger interface {
	OpenSession(ctx context.Context, input OpenSessionInput) error
	UpdateSession(ctx context.Context, input UpdateSessionInput) error
	ListSessionsByStatus(ctx context.Context, guildID string, status SessionStatus) ([]Session, error)
}

func (s SessionStatus) Terminal() bool {
	switch s {
	case SessionStatusTimedOutClosed, SessionStatusClosed, SessionStatusAborted:
		return true
	default:
		return false
	}
}
