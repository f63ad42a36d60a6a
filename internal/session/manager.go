package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/foxseedlab/assist/internal/collector"
	"github.com/foxseedlab/assist/internal/config"
	"github.com/foxseedlab/assist/internal/discord"
	"github.com/foxseedlab/assist/internal/repository"
	"github.com/foxseedlab/assist/internal/webhook"
	"github.com/jonboulle/clockwork"
)

// closingDelay lets the "Closing thread..." notice render before the thread
// disappears.
const closingDelay = time.Second

type Manager struct {
	cfg     *config.Config
	discord discord.Client
	ledger  repository.Ledger
	webhook webhook.Sender
	clock   clockwork.Clock
	retry   retrier
	threads *Provisioner

	messages   *collector.Bus[discord.MessageEvent]
	selections *collector.Bus[discord.InteractionEvent]
	tasks      *taskRegistry

	dirMu     sync.Mutex
	directory *Directory

	mu        sync.Mutex
	botUserID string
	closed    bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewManager(cfg *config.Config, dc discord.Client, ledger repository.Ledger, wh webhook.Sender, clk clockwork.Clock, policy RetryPolicy) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		cfg:        cfg,
		discord:    dc,
		ledger:     ledger,
		webhook:    wh,
		clock:      clk,
		retry:      retrier{policy: policy},
		threads:    NewProvisioner(dc, policy),
		messages:   collector.NewBus[discord.MessageEvent](clk),
		selections: collector.NewBus[discord.InteractionEvent](clk),
		tasks:      newTaskRegistry(),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// SetBotUserID records the bot's own id so that threads it creates are not
// bootstrapped.
func (m *Manager) SetBotUserID(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.botUserID = id
}

func (m *Manager) botID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.botUserID
}

func (m *Manager) HandleInteraction(ev discord.InteractionEvent) {
	if ev.GuildID != m.cfg.DiscordGuildID {
		slog.Debug("ignoring interaction for different guild", "event_guild_id", ev.GuildID, "configured_guild_id", m.cfg.DiscordGuildID)
		return
	}
	action := ParseAction(ev.CustomID)
	attrs := []any{"action", action.Kind.String(), "custom_id", ev.CustomID, "channel_id", ev.ChannelID, "user_id", ev.User.ID}
	switch action.Kind {
	case ActionUnknown:
		return
	case ActionTagsSelect:
		if m.selections.Publish(ev) > 0 {
			return
		}
		slog.Info("tag selection for a menu that is no longer open", attrs...)
		m.spawn(attrs, func(context.Context) error {
			return respondEphemeral(ev, messageEphemeralTagMenuExpired)
		})
		return
	}
	slog.Info("interaction received", attrs...)
	m.spawn(attrs, func(ctx context.Context) error {
		return m.dispatch(ctx, action, ev)
	})
}

func (m *Manager) dispatch(ctx context.Context, action Action, ev discord.InteractionEvent) error {
	switch action.Kind {
	case ActionCategory:
		acknowledge(ev)
		return m.runTitleWorkflow(ctx, ev, action.Category)
	case ActionCloseThread:
		acknowledge(ev)
		return m.closeThread(ctx, ev)
	case ActionAddTags:
		return m.runTagDialog(ctx, ev)
	case ActionTagsSelectDismiss:
		acknowledge(ev)
		return m.dismissTagDialog(ctx, ev)
	default:
		return nil
	}
}

func (m *Manager) HandleMessage(ev discord.MessageEvent) {
	if ev.GuildID != m.cfg.DiscordGuildID || ev.AuthorIsBot {
		return
	}
	m.messages.Publish(ev)
}

func (m *Manager) HandleThreadCreate(ev discord.ThreadCreateEvent) {
	attrs := []any{"thread_id", ev.Thread.ID, "parent_id", ev.Thread.ParentID}
	m.spawn(attrs, func(ctx context.Context) error {
		return m.bootstrapThread(ctx, ev)
	})
}

// spawn runs task in its own goroutine. Errors and panics are logged and go
// no further.
func (m *Manager) spawn(attrs []any, task func(ctx context.Context) error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("session task panicked", append(attrs, "panic", r, "stack", string(debug.Stack()))...)
			}
		}()
		err := task(m.ctx)
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled) && m.ctx.Err() != nil:
			slog.Info("session task stopped by shutdown", attrs...)
		default:
			slog.Error("session task failed", append(attrs, "error", err)...)
		}
	}()
}

// Shutdown cancels every parked task and waits for all of them to return.
// Threads still awaiting a title are left for the next startup's
// reconciliation.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.cancel()
	m.wg.Wait()
}

// Wait blocks until every spawned task has returned.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) closeThread(ctx context.Context, ev discord.InteractionEvent) error {
	if ev.Message == nil {
		return fmt.Errorf("%w: close interaction without message", ErrInvariant)
	}
	threadID := ev.ChannelID
	slog.Info("closing thread on request", "thread_id", threadID, "user_id", ev.User.ID)
	m.tasks.cancelThread(threadID)
	if err := m.closeWithNotice(ctx, threadID, ev.Message.ID); err != nil {
		return err
	}
	m.recordStatus(ctx, repository.UpdateSessionInput{ThreadID: threadID, Status: repository.SessionStatusClosed})
	m.notify(ctx, webhook.ThreadEventPayload{Event: webhook.ThreadEventClosed, ThreadID: threadID, UserID: ev.User.ID})
	return nil
}

// closeWithNotice turns messageID into a closing notice, waits for it to
// render and deletes the thread.
func (m *Manager) closeWithNotice(ctx context.Context, threadID, messageID string) error {
	err := m.retry.do(ctx, "edit closing notice", func(ctx context.Context) error {
		_, err := m.discord.EditMessage(ctx, threadID, messageID, closingNotice())
		return err
	})
	if err != nil {
		return err
	}
	m.clock.Sleep(closingDelay)
	return m.threads.Delete(ctx, threadID)
}

func (m *Manager) recordOpened(ctx context.Context, s *Session) {
	err := m.ledger.OpenSession(ctx, repository.OpenSessionInput{
		ID:              s.ID,
		GuildID:         s.GuildID,
		ThreadID:        s.ThreadID,
		PromptMessageID: s.PromptMessageID,
		UserID:          s.User.ID,
		Category:        string(s.Category),
		OpenedAt:        m.clock.Now(),
	})
	if err != nil {
		slog.Error("failed to record session in ledger", append(s.logAttrs(), "error", err)...)
	}
}

func (m *Manager) recordStatus(ctx context.Context, input repository.UpdateSessionInput) {
	input.UpdatedAt = m.clock.Now()
	if err := m.ledger.UpdateSession(ctx, input); err != nil {
		slog.Error("failed to update session in ledger", "thread_id", input.ThreadID, "status", input.Status, "error", err)
	}
}

func (m *Manager) notify(ctx context.Context, payload webhook.ThreadEventPayload) {
	payload.GuildID = m.cfg.DiscordGuildID
	payload.OccurredAt = m.clock.Now().UTC().Format(time.RFC3339)
	if err := m.webhook.SendThreadEvent(ctx, payload); err != nil {
		slog.Error("failed to send thread webhook", "event", payload.Event, "thread_id", payload.ThreadID, "error", err)
	}
}

func acknowledge(ev discord.InteractionEvent) {
	if ev.Acknowledge == nil {
		return
	}
	if err := ev.Acknowledge(); err != nil {
		slog.Warn("failed to acknowledge interaction", "custom_id", ev.CustomID, "error", err)
	}
}

func respondEphemeral(ev discord.InteractionEvent, content string) error {
	if ev.RespondEphemeral == nil {
		return nil
	}
	if err := ev.RespondEphemeral(content); err != nil {
		return platformError("respond to interaction", err)
	}
	return nil
}
