package session

import (
	"fmt"
	"slices"

	"github.com/foxseedlab/assist/internal/discord"
	"github.com/google/uuid"
)

type State int

const (
	StateIdle State = iota
	StateThreadOpen
	StateActive
	StateTimedOutClosed
	// StateClosed is reached when the user closes the thread before giving
	// it a title.
	StateClosed
	// StateAborted marks a task that died on a platform or invariant error.
	StateAborted
)

var allowedTransitions = map[State][]State{
	StateIdle:       {StateThreadOpen, StateAborted},
	StateThreadOpen: {StateActive, StateTimedOutClosed, StateClosed, StateAborted},
}

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateThreadOpen:
		return "thread_open"
	case StateActive:
		return "active"
	case StateTimedOutClosed:
		return "timed_out_closed"
	case StateClosed:
		return "closed"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) Terminal() bool {
	return len(allowedTransitions[s]) == 0
}

// Session is one run of the title workflow. It is created when a category
// button is pressed and owned by the goroutine running that workflow.
type Session struct {
	ID       string
	Category Category
	User     discord.User
	GuildID  string

	// ChannelID hosted the category buttons; OriginMessageID carried them.
	ChannelID       string
	OriginMessageID string

	ThreadID        string
	PromptMessageID string
	Title           string
	Tags            []string

	state State
}

func newSession(ev discord.InteractionEvent, c Category) (*Session, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvariant, c)
	}
	if ev.Message == nil {
		return nil, fmt.Errorf("%w: category interaction without message", ErrInvariant)
	}
	return &Session{
		ID:              uuid.NewString(),
		Category:        c,
		User:            ev.User,
		GuildID:         ev.GuildID,
		ChannelID:       ev.ChannelID,
		OriginMessageID: ev.Message.ID,
		state:           StateIdle,
	}, nil
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) transition(to State) error {
	if !slices.Contains(allowedTransitions[s.state], to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, to)
	}
	s.state = to
	return nil
}

func (s *Session) logAttrs() []any {
	return []any{
		"session_id", s.ID,
		"category", string(s.Category),
		"user_id", s.User.ID,
		"thread_id", s.ThreadID,
	}
}
