package webhook

import "context"

const ThreadEventSchemaVersion = 1

type ThreadEventType string

const (
	ThreadEventActivated ThreadEventType = "thread_activated"
	ThreadEventTimedOut  ThreadEventType = "thread_timed_out"
	ThreadEventClosed    ThreadEventType = "thread_closed"
	ThreadEventTagsSet   ThreadEventType = "tags_updated"
)

type ThreadEventPayload struct {
	SchemaVersion int             `json:"schema_version"`
	Event         ThreadEventType `json:"event"`
	SessionID     string          `json:"session_id,omitempty"`
	GuildID       string          `json:"guild_id"`
	ThreadID      string          `json:"thread_id"`
	UserID        string          `json:"user_id,omitempty"`
	Category      string          `json:"category,omitempty"`
	Title         string          `json:"title,omitempty"`
	Tags          []string        `json:"tags"`
	OccurredAt    string          `json:"occurred_at"`
}

type Sender interface {
	SendThreadEvent(ctx context.Context, payload ThreadEventPayload) error
}
