package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/foxseedlab/assist/internal/repository"
)

// MemoryLedger keeps sessions for the lifetime of the process only. It is
// used when no database is configured.
type MemoryLedger struct {
	mu       sync.Mutex
	sessions map[string]repository.Session
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{sessions: make(map[string]repository.Session)}
}

func (l *MemoryLedger) OpenSession(_ context.Context, input repository.OpenSessionInput) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sessions[input.ThreadID] = repository.Session{
		ID:              input.ID,
		GuildID:         input.GuildID,
		ThreadID:        input.ThreadID,
		PromptMessageID: input.PromptMessageID,
		UserID:          input.UserID,
		Category:        input.Category,
		Status:          repository.SessionStatusThreadOpen,
		OpenedAt:        input.OpenedAt,
		UpdatedAt:       input.OpenedAt,
	}
	return nil
}

func (l *MemoryLedger) UpdateSession(_ context.Context, input repository.UpdateSessionInput) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sessions[input.ThreadID]
	if !ok {
		return nil
	}
	s.Status = input.Status
	if input.Title != "" {
		s.Title = input.Title
	}
	if input.Tags != "" {
		s.Tags = input.Tags
	}
	s.UpdatedAt = input.UpdatedAt
	if input.Status.Terminal() && s.ClosedAt == nil {
		closedAt := input.UpdatedAt
		s.ClosedAt = &closedAt
	}
	l.sessions[input.ThreadID] = s
	return nil
}

func (l *MemoryLedger) ListSessionsByStatus(_ context.Context, guildID string, status repository.SessionStatus) ([]repository.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []repository.Session
	for _, s := range l.sessions {
		if s.GuildID == guildID && s.Status == status {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.Before(out[j].OpenedAt) })
	return out, nil
}
