package session

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/foxseedlab/assist/internal/collector"
	"github.com/foxseedlab/assist/internal/discord"
	"github.com/foxseedlab/assist/internal/repository"
	"github.com/foxseedlab/assist/internal/webhook"
)

const titleTimeout = 600 * time.Second

func (m *Manager) runTitleWorkflow(ctx context.Context, ev discord.InteractionEvent, c Category) error {
	s, err := newSession(ev, c)
	if err != nil {
		return err
	}
	slog.Info("title workflow started", s.logAttrs()...)

	thread, err := m.threads.Open(ctx, s.ChannelID, provisionalThreadName(c, s.User.DisplayName))
	if err != nil {
		_ = s.transition(StateAborted)
		return err
	}
	s.ThreadID = thread.ID

	// Subscribe before anything is posted so that an early reply is not
	// missed.
	wait, release := m.tasks.trackTitle(ctx, s.ThreadID)
	defer release()
	titles := m.messages.Collect(func(msg discord.MessageEvent) bool {
		return msg.AuthorID == s.User.ID && msg.ChannelID == s.ThreadID && strings.TrimSpace(msg.Content) != ""
	}, collector.Options{Limit: 1, Timeout: titleTimeout})
	defer titles.Close()

	if err := s.transition(StateThreadOpen); err != nil {
		return err
	}
	slog.Info("thread provisioned; awaiting title", s.logAttrs()...)

	err = m.retry.do(ctx, "delete origin message", func(ctx context.Context) error {
		return ignoreNotFound(m.discord.DeleteMessage(ctx, s.ChannelID, s.OriginMessageID))
	})
	if err != nil {
		return m.abort(ctx, s, err)
	}
	prompt, err := m.discord.SendMessage(ctx, s.ThreadID, titlePromptMessage(s))
	if err != nil {
		return m.abort(ctx, s, platformError("send title prompt", err))
	}
	s.PromptMessageID = prompt.ID
	m.recordOpened(ctx, s)
	err = m.retry.do(ctx, "pin title prompt", func(ctx context.Context) error {
		return m.discord.PinMessage(ctx, s.ThreadID, s.PromptMessageID)
	})
	if err != nil {
		return m.abort(ctx, s, err)
	}

	msg, ok := titles.Next(wait.ctx)
	if ok {
		return m.activateThread(ctx, wait, s, msg.Content)
	}
	switch {
	case ctx.Err() != nil:
		// Shutting down: the ledger still says thread_open, so the next
		// startup cleans the thread up.
		_ = s.transition(StateAborted)
		slog.Info("title wait interrupted by shutdown", s.logAttrs()...)
		return nil
	case wait.ctx.Err() != nil:
		slog.Info("thread closed before a title was given", s.logAttrs()...)
		return s.transition(StateClosed)
	}
	return m.expireThread(ctx, s)
}

// activateThread finalizes the thread unless a close got there first; a close
// arriving during activation waits and then supersedes it.
func (m *Manager) activateThread(ctx context.Context, wait *titleWait, s *Session, text string) error {
	ran, err := wait.settle(func() error {
		return m.finalizeThread(ctx, s, text)
	})
	if !ran {
		slog.Info("thread closed while its title arrived", s.logAttrs()...)
		return s.transition(StateClosed)
	}
	return err
}

func (m *Manager) finalizeThread(ctx context.Context, s *Session, text string) error {
	s.Title = strings.TrimSpace(text)
	s.Tags = nil
	if err := m.threads.Rename(ctx, s.ThreadID, titledThreadName(s.Category, s.Title)); err != nil {
		return m.abort(ctx, s, err)
	}
	err := m.retry.do(ctx, "edit summary", func(ctx context.Context) error {
		_, err := m.discord.EditMessage(ctx, s.ThreadID, s.PromptMessageID, summaryMessage(summaryEmbed(s)))
		return err
	})
	if err != nil {
		return m.abort(ctx, s, err)
	}
	if err := s.transition(StateActive); err != nil {
		return err
	}
	slog.Info("thread activated", s.logAttrs()...)
	m.recordStatus(ctx, repository.UpdateSessionInput{
		ThreadID: s.ThreadID,
		Status:   repository.SessionStatusActive,
		Title:    s.Title,
		Tags:     FormatTags(s.Tags),
	})
	m.notify(ctx, s.eventPayload(webhook.ThreadEventActivated))
	return nil
}

func (m *Manager) expireThread(ctx context.Context, s *Session) error {
	slog.Info("no title before deadline; closing thread", append(s.logAttrs(), "timeout", titleTimeout)...)
	if err := m.closeWithNotice(ctx, s.ThreadID, s.PromptMessageID); err != nil {
		return m.abort(ctx, s, err)
	}
	if err := s.transition(StateTimedOutClosed); err != nil {
		return err
	}
	m.recordStatus(ctx, repository.UpdateSessionInput{ThreadID: s.ThreadID, Status: repository.SessionStatusTimedOutClosed})
	m.notify(ctx, s.eventPayload(webhook.ThreadEventTimedOut))
	return nil
}

// abort leaves the thread with a visible failure notice and returns cause.
// During shutdown the thread is left untouched.
func (m *Manager) abort(ctx context.Context, s *Session, cause error) error {
	if terr := s.transition(StateAborted); terr != nil {
		slog.Warn("abort from unexpected state", append(s.logAttrs(), "error", terr)...)
	}
	if ctx.Err() != nil {
		return cause
	}
	var err error
	if s.PromptMessageID != "" {
		err = m.retry.do(ctx, "edit abort notice", func(ctx context.Context) error {
			_, err := m.discord.EditMessage(ctx, s.ThreadID, s.PromptMessageID, abortNotice())
			return err
		})
	} else {
		_, err = m.discord.SendMessage(ctx, s.ThreadID, abortNotice())
	}
	if err != nil {
		slog.Warn("failed to post abort notice", append(s.logAttrs(), "error", err)...)
	}
	m.recordStatus(ctx, repository.UpdateSessionInput{ThreadID: s.ThreadID, Status: repository.SessionStatusAborted})
	return cause
}

func (s *Session) eventPayload(event webhook.ThreadEventType) webhook.ThreadEventPayload {
	return webhook.ThreadEventPayload{
		Event:     event,
		SessionID: s.ID,
		ThreadID:  s.ThreadID,
		UserID:    s.User.ID,
		Category:  string(s.Category),
		Title:     s.Title,
		Tags:      s.Tags,
	}
}
