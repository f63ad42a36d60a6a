package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foxseedlab/assist/internal/collector"
	"github.com/foxseedlab/assist/internal/discord"
	"github.com/foxseedlab/assist/internal/repository"
	"github.com/foxseedlab/assist/internal/webhook"
)

// runTagDialog posts the tag menu for the thread whose summary carries the
// pressed button and applies selections until the menu is gone, dismissed
// or the thread is closed.
func (m *Manager) runTagDialog(ctx context.Context, ev discord.InteractionEvent) error {
	summary, fieldIndex, err := tagsField(ev.Message)
	if err != nil {
		// the press still needs an answer or the client reports a failure
		acknowledge(ev)
		return err
	}
	threadID := ev.ChannelID
	summaryID := ev.Message.ID

	dialogCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	d := &tagDialog{cancel: cancel}
	if !m.tasks.openDialog(threadID, d) {
		slog.Info("tag menu already open", "thread_id", threadID, "user_id", ev.User.ID)
		return respondEphemeral(ev, messageEphemeralTagMenuOpen)
	}
	defer m.tasks.closeDialog(threadID, d)
	acknowledge(ev)

	// Only one dialog is open per thread, so the thread is enough to scope
	// the selections.
	selections := m.selections.Collect(func(sel discord.InteractionEvent) bool {
		return sel.ChannelID == threadID
	}, collector.Options{})
	defer selections.Close()

	current := ParseTags(summary.Fields[fieldIndex].Value)
	dialog, err := m.discord.SendMessage(ctx, threadID, tagDialogMessage(summary.Color, current))
	if err != nil {
		return platformError("send tag menu", err)
	}
	m.tasks.setDialogMessage(threadID, d, dialog.ID)
	slog.Info("tag menu opened", "thread_id", threadID, "message_id", dialog.ID, "user_id", ev.User.ID)

	for sel := range selections.All(dialogCtx) {
		var gone bool
		summary, gone, err = m.applyTagSelection(ctx, sel, dialog.ID, summaryID, summary, fieldIndex)
		if err != nil {
			return err
		}
		if gone {
			return nil
		}
	}
	slog.Info("tag menu closed", "thread_id", threadID, "message_id", dialog.ID)
	return nil
}

// applyTagSelection overwrites the summary's tags with the selected values in
// the order they were returned. gone reports whether the menu message no
// longer exists.
func (m *Manager) applyTagSelection(ctx context.Context, sel discord.InteractionEvent, dialogID, summaryID string, summary discord.Embed, fieldIndex int) (discord.Embed, bool, error) {
	threadID := sel.ChannelID
	if err := respondEphemeral(sel, messageEphemeralTagsUpdated); err != nil {
		slog.Warn("failed to confirm tag selection", "thread_id", threadID, "error", err)
	}
	tags := sel.Values

	gone := true
	err := m.retry.do(ctx, "delete tag menu", func(ctx context.Context) error {
		return ignoreNotFound(m.discord.DeleteMessage(ctx, threadID, dialogID))
	})
	if err != nil {
		slog.Warn("failed to delete tag menu; keeping it open", "thread_id", threadID, "message_id", dialogID, "error", err)
		gone = false
	}

	updated := withTags(summary, fieldIndex, tags)
	err = m.retry.do(ctx, "edit summary tags", func(ctx context.Context) error {
		_, err := m.discord.EditMessage(ctx, threadID, summaryID, summaryMessage(updated))
		return err
	})
	if err != nil {
		return summary, gone, err
	}
	slog.Info("thread tags updated", "thread_id", threadID, "user_id", sel.User.ID, "tags", FormatTags(tags))
	m.recordStatus(ctx, repository.UpdateSessionInput{
		ThreadID: threadID,
		Status:   repository.SessionStatusActive,
		Tags:     FormatTags(tags),
	})
	m.notify(ctx, webhook.ThreadEventPayload{
		Event:    webhook.ThreadEventTagsSet,
		ThreadID: threadID,
		UserID:   sel.User.ID,
		Title:    updated.Description,
		Tags:     tags,
	})
	return updated, gone, nil
}

func (m *Manager) dismissTagDialog(ctx context.Context, ev discord.InteractionEvent) error {
	if ev.Message == nil {
		return fmt.Errorf("%w: dismiss interaction without message", ErrInvariant)
	}
	if !m.tasks.dismissDialog(ev.ChannelID, ev.Message.ID) {
		slog.Debug("dismissed tag menu had no running dialog", "thread_id", ev.ChannelID, "message_id", ev.Message.ID)
	}
	return m.retry.do(ctx, "delete tag menu", func(ctx context.Context) error {
		return ignoreNotFound(m.discord.DeleteMessage(ctx, ev.ChannelID, ev.Message.ID))
	})
}
