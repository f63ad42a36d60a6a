package repository

import "time"

type SessionStatus string

const (
	SessionStatusThreadOpen     SessionStatus = "thread_open"
	SessionStatusActive         SessionStatus = "active"
	SessionStatusTimedOutClosed SessionStatus = "timed_out_closed"
	SessionStatusClosed         SessionStatus = "closed"
	SessionStatusAborted        SessionStatus = "aborted"
)

// Session is the ledger row for one support thread. It holds only what is
// needed to clean the thread up if the process dies mid-workflow.
type Session struct {
	ID              string
	GuildID         string
	ThreadID        string
	PromptMessageID string
	UserID          string
	Category        string
	Title           string
	Tags            string
	Status          SessionStatus
	OpenedAt        time.Time
	UpdatedAt       time.Time
	ClosedAt        *time.Time
}
