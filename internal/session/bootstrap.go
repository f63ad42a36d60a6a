package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foxseedlab/assist/internal/discord"
	"github.com/foxseedlab/assist/internal/repository"
	"github.com/foxseedlab/assist/internal/webhook"
	"golang.org/x/sync/errgroup"
)

const reconcileConcurrency = 4

// Directory holds the ids of the channels the bot is configured by name.
type Directory struct {
	HelpChannelID string
	FAQChannelID  string
}

// ResolveDirectory looks the help and faq channels up by name. The first
// successful result is cached for the lifetime of the process.
func (m *Manager) ResolveDirectory(ctx context.Context) (Directory, error) {
	m.dirMu.Lock()
	defer m.dirMu.Unlock()
	if m.directory != nil {
		return *m.directory, nil
	}

	channels, err := m.discord.GuildChannels(ctx, m.cfg.DiscordGuildID)
	if err != nil {
		return Directory{}, platformError("list guild channels", err)
	}
	var dir Directory
	for _, ch := range channels {
		if ch.IsThread {
			continue
		}
		switch {
		case ch.Name == m.cfg.HelpChannelName && dir.HelpChannelID == "":
			dir.HelpChannelID = ch.ID
		case ch.Name == m.cfg.FAQChannelName && dir.FAQChannelID == "":
			dir.FAQChannelID = ch.ID
		}
	}
	if dir.HelpChannelID == "" {
		return Directory{}, fmt.Errorf("%w: channel %q not found in guild %s", ErrConfiguration, m.cfg.HelpChannelName, m.cfg.DiscordGuildID)
	}
	if dir.FAQChannelID == "" {
		return Directory{}, fmt.Errorf("%w: channel %q not found in guild %s", ErrConfiguration, m.cfg.FAQChannelName, m.cfg.DiscordGuildID)
	}
	slog.Info("channel directory resolved", "help_channel_id", dir.HelpChannelID, "faq_channel_id", dir.FAQChannelID)
	m.directory = &dir
	return dir, nil
}

// bootstrapThread posts the category prompt into a thread a member just
// opened under the help channel.
func (m *Manager) bootstrapThread(ctx context.Context, ev discord.ThreadCreateEvent) error {
	if !ev.NewlyCreated || ev.GuildID != m.cfg.DiscordGuildID {
		return nil
	}
	if bot := m.botID(); bot != "" && ev.Thread.OwnerID == bot {
		return nil
	}
	dir, err := m.ResolveDirectory(ctx)
	if err != nil {
		return err
	}
	if ev.Thread.ParentID != dir.HelpChannelID {
		return nil
	}
	if _, err := m.discord.SendMessage(ctx, ev.Thread.ID, welcomeMessage(m.cfg.DiscordGuildID, dir.FAQChannelID)); err != nil {
		return platformError("send category prompt", err)
	}
	slog.Info("category prompt posted", "thread_id", ev.Thread.ID, "owner_id", ev.Thread.OwnerID)
	return nil
}

// ReconcileOrphanedSessions closes threads that a previous process left
// waiting for a title. Failures are logged per thread.
func (m *Manager) ReconcileOrphanedSessions(ctx context.Context) error {
	orphans, err := m.ledger.ListSessionsByStatus(ctx, m.cfg.DiscordGuildID, repository.SessionStatusThreadOpen)
	if err != nil {
		return fmt.Errorf("list orphaned sessions: %w", err)
	}
	if len(orphans) == 0 {
		return nil
	}
	slog.Info("reconciling orphaned sessions", "count", len(orphans))

	var g errgroup.Group
	g.SetLimit(reconcileConcurrency)
	for _, orphan := range orphans {
		g.Go(func() error {
			if err := m.reconcileSession(ctx, orphan); err != nil {
				slog.Error("failed to reconcile orphaned session", "session_id", orphan.ID, "thread_id", orphan.ThreadID, "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (m *Manager) reconcileSession(ctx context.Context, orphan repository.Session) error {
	if orphan.PromptMessageID != "" {
		err := m.retry.do(ctx, "edit closing notice", func(ctx context.Context) error {
			_, err := m.discord.EditMessage(ctx, orphan.ThreadID, orphan.PromptMessageID, closingNotice())
			return err
		})
		if err != nil {
			slog.Warn("failed to post closing notice on orphaned thread", "thread_id", orphan.ThreadID, "error", err)
		} else {
			m.clock.Sleep(closingDelay)
		}
	}
	if err := m.threads.Delete(ctx, orphan.ThreadID); err != nil {
		return err
	}
	m.recordStatus(ctx, repository.UpdateSessionInput{ThreadID: orphan.ThreadID, Status: repository.SessionStatusClosed})
	m.notify(ctx, webhook.ThreadEventPayload{
		Event:     webhook.ThreadEventClosed,
		SessionID: orphan.ID,
		ThreadID:  orphan.ThreadID,
		UserID:    orphan.UserID,
		Category:  orphan.Category,
	})
	slog.Info("orphaned thread closed", "session_id", orphan.ID, "thread_id", orphan.ThreadID)
	return nil
}
