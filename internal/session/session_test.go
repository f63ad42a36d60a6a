package session

import (
	"errors"
	"testing"

	"github.com/foxseedlab/assist/internal/discord"
)

func TestSessionTransitions(t *testing.T) {
	for _, outcome := range []State{StateActive, StateTimedOutClosed, StateClosed, StateAborted} {
		s := &Session{state: StateIdle}
		if err := s.transition(StateThreadOpen); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := s.transition(outcome); err != nil {
			t.Fatalf("%s: unexpected error: %v", outcome, err)
		}
		if !s.State().Terminal() {
			t.Fatalf("%s: expected terminal state", outcome)
		}
		for _, next := range []State{StateThreadOpen, StateActive, StateTimedOutClosed, StateAborted} {
			if err := s.transition(next); !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("%s -> %s: expected invalid transition, got %v", outcome, next, err)
			}
		}
	}
}

func TestSessionTransitions_CannotSkipThreadOpen(t *testing.T) {
	s := &Session{state: StateIdle}
	if err := s.transition(StateActive); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if err := s.transition(StateAborted); err != nil {
		t.Fatalf("expected idle session to abort, got %v", err)
	}
}

func TestNewSession(t *testing.T) {
	ev := discord.InteractionEvent{
		GuildID:   testGuildID,
		ChannelID: "post-1",
		Message:   &discord.Message{ID: "origin-1"},
		User:      ana,
	}
	s, err := newSession(ev, CategoryBug)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID == "" || s.OriginMessageID != "origin-1" || s.ChannelID != "post-1" || s.State() != StateIdle {
		t.Fatalf("unexpected session: %+v", s)
	}

	ev.Message = nil
	if _, err := newSession(ev, CategoryBug); !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected invariant error without message, got %v", err)
	}
	if _, err := newSession(discord.InteractionEvent{Message: &discord.Message{}}, Category("tags")); !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected invariant error for unknown category, got %v", err)
	}
}
