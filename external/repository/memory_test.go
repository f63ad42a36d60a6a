package repository

import (
	"context"
	"testing"
	"time"

	"github.com/foxseedlab/assist/internal/repository"
)

func TestMemoryLedger_TracksStatusTransitions(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	openedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, threadID := range []string{"thread-2", "thread-1"} {
		if err := l.OpenSession(ctx, repository.OpenSessionInput{
			ID:       "session-" + threadID,
			GuildID:  "guild-1",
			ThreadID: threadID,
			UserID:   "user-1",
			Category: "bug",
			OpenedAt: openedAt.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	open, err := l.ListSessionsByStatus(ctx, "guild-1", repository.SessionStatusThreadOpen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(open) != 2 || open[0].ThreadID != "thread-2" {
		t.Fatalf("expected sessions ordered by open time, got %+v", open)
	}

	if err := l.UpdateSession(ctx, repository.UpdateSessionInput{
		ThreadID:  "thread-1",
		Status:    repository.SessionStatusActive,
		Title:     "Crashes on launch",
		UpdatedAt: openedAt.Add(time.Hour),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.UpdateSession(ctx, repository.UpdateSessionInput{
		ThreadID:  "thread-1",
		Status:    repository.SessionStatusClosed,
		UpdatedAt: openedAt.Add(2 * time.Hour),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	closed, _ := l.ListSessionsByStatus(ctx, "guild-1", repository.SessionStatusClosed)
	if len(closed) != 1 {
		t.Fatalf("expected one closed session, got %d", len(closed))
	}
	if closed[0].Title != "Crashes on launch" {
		t.Fatalf("expected title to survive a status-only update, got %q", closed[0].Title)
	}
	if closed[0].ClosedAt == nil || !closed[0].ClosedAt.Equal(openedAt.Add(2*time.Hour)) {
		t.Fatalf("unexpected closed_at: %v", closed[0].ClosedAt)
	}
}

func TestMemoryLedger_UpdateUnknownThreadIsNoop(t *testing.T) {
	l := NewMemoryLedger()
	if err := l.UpdateSession(context.Background(), repository.UpdateSessionInput{ThreadID: "missing", Status: repository.SessionStatusClosed}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	open, _ := l.ListSessionsByStatus(context.Background(), "guild-1", repository.SessionStatusClosed)
	if len(open) != 0 {
		t.Fatalf("expected no sessions, got %+v", open)
	}
}
