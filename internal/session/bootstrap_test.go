package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/foxseedlab/assist/internal/discord"
	"github.com/foxseedlab/assist/internal/repository"
)

func supportChannels() []discord.Channel {
	return []discord.Channel{
		{ID: "general-1", GuildID: testGuildID, Name: "general"},
		{ID: "help-post-9", GuildID: testGuildID, Name: "help", ParentID: "help-1", IsThread: true},
		{ID: "help-1", GuildID: testGuildID, Name: "help"},
		{ID: "faq-1", GuildID: testGuildID, Name: "faq"},
	}
}

func TestResolveDirectory_FindsChannelsAndCaches(t *testing.T) {
	f := newFixture(t)
	f.discord.guildChannels = supportChannels()

	for range 2 {
		dir, err := f.manager.ResolveDirectory(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.HelpChannelID != "help-1" || dir.FAQChannelID != "faq-1" {
			t.Fatalf("unexpected directory: %+v", dir)
		}
	}
	if n := len(f.discord.callsOf("GuildChannels")); n != 1 {
		t.Fatalf("expected a single lookup, got %d", n)
	}
}

func TestResolveDirectory_MissingChannelIsConfigurationError(t *testing.T) {
	f := newFixture(t)
	f.discord.guildChannels = []discord.Channel{{ID: "help-1", GuildID: testGuildID, Name: "help"}}

	_, err := f.manager.ResolveDirectory(context.Background())
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	f.discord.guildChannels = supportChannels()
	if _, err := f.manager.ResolveDirectory(context.Background()); err != nil {
		t.Fatalf("expected a failed lookup not to be cached, got %v", err)
	}
}

func TestResolveDirectory_LookupFailureIsPlatformError(t *testing.T) {
	f := newFixture(t)
	f.discord.setFailure("GuildChannels", errors.New("gateway timeout"))

	_, err := f.manager.ResolveDirectory(context.Background())
	if !errors.Is(err, ErrPlatformRequest) {
		t.Fatalf("expected platform error, got %v", err)
	}
}

func TestHandleThreadCreate_PostsCategoryPromptUnderHelp(t *testing.T) {
	f := newFixture(t)
	f.discord.guildChannels = supportChannels()

	f.manager.HandleThreadCreate(discord.ThreadCreateEvent{
		GuildID:      testGuildID,
		Thread:       discord.Channel{ID: "post-1", GuildID: testGuildID, ParentID: "help-1", OwnerID: ana.ID, IsThread: true},
		NewlyCreated: true,
	})
	waitForTasks(t, f.manager)

	sent := f.discord.callsOf("SendMessage")
	if len(sent) != 1 || sent[0].channelID != "post-1" {
		t.Fatalf("expected prompt in the new thread, got %+v", sent)
	}
	prompt := sent[0].content
	embed := prompt.Embeds[0]
	if embed.Title != "🤝 Welcome to Help" || embed.Description != "Before you create a help thread, you should read <#faq-1> first." {
		t.Fatalf("unexpected welcome embed: %+v", embed)
	}
	buttons := prompt.Rows[0].Buttons
	if len(buttons) != 5 {
		t.Fatalf("expected five buttons, got %d", len(buttons))
	}
	for i, c := range Categories {
		if buttons[i].CustomID != c.CustomID() || buttons[i].Label != c.ButtonLabel() || buttons[i].Emoji != c.Emoji() {
			t.Fatalf("button %d: unexpected %+v", i, buttons[i])
		}
	}
	link := buttons[4]
	if link.Style != discord.ButtonLink || link.URL != "https://discord.com/channels/guild-1/faq-1" || link.CustomID != "" {
		t.Fatalf("unexpected faq button: %+v", link)
	}
}

func TestHandleThreadCreate_IgnoresOtherThreads(t *testing.T) {
	cases := []struct {
		name string
		ev   discord.ThreadCreateEvent
	}{
		{
			name: "other parent",
			ev:   discord.ThreadCreateEvent{GuildID: testGuildID, Thread: discord.Channel{ID: "t-1", ParentID: "general-1", OwnerID: ana.ID}, NewlyCreated: true},
		},
		{
			name: "bot owned",
			ev:   discord.ThreadCreateEvent{GuildID: testGuildID, Thread: discord.Channel{ID: "t-2", ParentID: "help-1", OwnerID: "bot-self"}, NewlyCreated: true},
		},
		{
			name: "not newly created",
			ev:   discord.ThreadCreateEvent{GuildID: testGuildID, Thread: discord.Channel{ID: "t-3", ParentID: "help-1", OwnerID: ana.ID}},
		},
		{
			name: "other guild",
			ev:   discord.ThreadCreateEvent{GuildID: "guild-2", Thread: discord.Channel{ID: "t-4", ParentID: "help-1", OwnerID: ana.ID}, NewlyCreated: true},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.discord.guildChannels = supportChannels()

			f.manager.HandleThreadCreate(tc.ev)
			waitForTasks(t, f.manager)

			if n := len(f.discord.callsOf("SendMessage")); n != 0 {
				t.Fatalf("expected no prompt, got %d", n)
			}
		})
	}
}

func TestReconcileOrphanedSessions_ClosesOpenThreads(t *testing.T) {
	f := newFixture(t)
	f.ledger.orphans = []repository.Session{
		{ID: "s-1", GuildID: testGuildID, ThreadID: "thread-a", PromptMessageID: "prompt-a", Status: repository.SessionStatusThreadOpen},
		{ID: "s-2", GuildID: testGuildID, ThreadID: "thread-b", Status: repository.SessionStatusThreadOpen},
		{ID: "s-3", GuildID: testGuildID, ThreadID: "thread-c", Status: repository.SessionStatusActive},
		{ID: "s-4", GuildID: "guild-2", ThreadID: "thread-d", Status: repository.SessionStatusThreadOpen},
	}

	var wg sync.WaitGroup
	var err error
	wg.Add(1)
	go func() {
		defer wg.Done()
		err = f.manager.ReconcileOrphanedSessions(context.Background())
	}()
	f.advanceUntil(t, closingDelay, func() bool {
		return len(f.discord.callsOf("DeleteChannel")) == 2
	}, "orphaned threads should be deleted")
	wg.Wait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deleted := map[string]bool{}
	for _, c := range f.discord.callsOf("DeleteChannel") {
		deleted[c.channelID] = true
	}
	if !deleted["thread-a"] || !deleted["thread-b"] {
		t.Fatalf("unexpected deletes: %v", deleted)
	}
	edits := f.discord.callsOf("EditMessage")
	if len(edits) != 1 || edits[0].messageID != "prompt-a" || edits[0].content.Content != "Closing thread..." {
		t.Fatalf("expected closing notice on the known prompt only, got %+v", edits)
	}
	for _, thread := range []string{"thread-a", "thread-b"} {
		if got := f.ledger.lastStatus(thread); got != repository.SessionStatusClosed {
			t.Fatalf("%s: unexpected ledger status %s", thread, got)
		}
	}
}

func TestReconcileOrphanedSessions_ContinuesPastFailures(t *testing.T) {
	f := newFixture(t)
	f.ledger.orphans = []repository.Session{
		{ID: "s-1", GuildID: testGuildID, ThreadID: "thread-a", Status: repository.SessionStatusThreadOpen},
		{ID: "s-2", GuildID: testGuildID, ThreadID: "thread-b", Status: repository.SessionStatusThreadOpen},
	}
	f.discord.setFailure("DeleteChannel", errors.New("missing permissions"))

	done := make(chan error, 1)
	go func() { done <- f.manager.ReconcileOrphanedSessions(context.Background()) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected per-thread failures to be logged only, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reconcile did not finish")
	}

	if n := len(f.discord.callsOf("DeleteChannel")); n != 2*(maxPlatformRetries+1) {
		t.Fatalf("expected every orphan to be attempted, got %d deletes", n)
	}
	if got := f.ledger.lastStatus("thread-a"); got != "" {
		t.Fatalf("failed orphan should stay open, got %s", got)
	}
}
