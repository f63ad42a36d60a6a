package discord

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/foxseedlab/assist/internal/discord"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestSession(t *testing.T, rt roundTripFunc) *discordgo.Session {
	t.Helper()
	s, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if rt != nil {
		s.Client = &http.Client{Transport: rt}
	}
	return s
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestGuildChannels_ResolvesChannelsByREST(t *testing.T) {
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		if !strings.HasSuffix(req.URL.Path, "/guilds/guild-1/channels") {
			t.Fatalf("unexpected request path: %s", req.URL.Path)
		}
		return jsonResponse(http.StatusOK, `[{"id":"help-1","name":"help","type":0},{"id":"faq-1","name":"faq","type":0}]`), nil
	})

	c := &Client{session: s}
	channels, err := c.GuildChannels(context.Background(), "guild-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(channels) != 2 || channels[0].Name != "help" || channels[1].ID != "faq-1" {
		t.Fatalf("unexpected channels: %+v", channels)
	}
}

func TestGetChannel_UsesStateCacheFirst(t *testing.T) {
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		t.Fatalf("unexpected REST call: %s %s", req.Method, req.URL.String())
		return nil, nil
	})
	if err := s.State.GuildAdd(&discordgo.Guild{
		ID: "guild-1",
		Channels: []*discordgo.Channel{
			{ID: "help-1", GuildID: "guild-1", Name: "help", Type: discordgo.ChannelTypeGuildText},
		},
	}); err != nil {
		t.Fatalf("failed to add guild to state: %v", err)
	}

	c := &Client{session: s}
	ch, err := c.GetChannel(context.Background(), "help-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.Name != "help" || ch.IsThread {
		t.Fatalf("unexpected channel: %+v", ch)
	}
}

func TestCreatePrivateThread_SendsPrivateThreadType(t *testing.T) {
	var got map[string]any
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || !strings.HasSuffix(req.URL.Path, "/channels/help-1/threads") {
			t.Fatalf("unexpected request: %s %s", req.Method, req.URL.Path)
		}
		if err := json.NewDecoder(req.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		return jsonResponse(http.StatusCreated, `{"id":"thread-1","name":"🐞 Ana's thread","type":12,"parent_id":"help-1"}`), nil
	})

	c := &Client{session: s}
	thread, err := c.CreatePrivateThread(context.Background(), "help-1", "🐞 Ana's thread")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["type"] != float64(discordgo.ChannelTypeGuildPrivateThread) {
		t.Fatalf("expected private thread type, got %v", got["type"])
	}
	if got["name"] != "🐞 Ana's thread" {
		t.Fatalf("unexpected thread name: %v", got["name"])
	}
	if thread.ID != "thread-1" || !thread.IsThread || thread.ParentID != "help-1" {
		t.Fatalf("unexpected thread: %+v", thread)
	}
}

func TestEditMessage_SuppressesEmbedsAndKeepsComponents(t *testing.T) {
	var got map[string]any
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPatch || !strings.HasSuffix(req.URL.Path, "/channels/thread-1/messages/msg-1") {
			t.Fatalf("unexpected request: %s %s", req.Method, req.URL.Path)
		}
		if err := json.NewDecoder(req.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"id":"msg-1","channel_id":"thread-1","content":"Closing thread..."}`), nil
	})

	c := &Client{session: s}
	msg, err := c.EditMessage(context.Background(), "thread-1", "msg-1", discordpkg.MessageContent{
		Content:        "Closing thread...",
		SuppressEmbeds: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["content"] != "Closing thread..." {
		t.Fatalf("unexpected content: %v", got["content"])
	}
	if got["flags"] != float64(discordgo.MessageFlagsSuppressEmbeds) {
		t.Fatalf("expected suppress embeds flag, got %v", got["flags"])
	}
	if _, ok := got["embeds"]; ok {
		t.Fatal("expected embeds to be left untouched")
	}
	if _, ok := got["components"]; ok {
		t.Fatal("expected components to be left untouched")
	}
	if msg.ID != "msg-1" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestDeleteMessage_MapsNotFound(t *testing.T) {
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{"message":"Unknown Message","code":10008}`), nil
	})

	c := &Client{session: s}
	err := c.DeleteMessage(context.Background(), "thread-1", "msg-1")
	if !errors.Is(err, discordpkg.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestToComponents_BuildsButtonsAndSelect(t *testing.T) {
	rows := toComponents([]discordpkg.ActionRow{
		{Buttons: []discordpkg.Button{
			{CustomID: "assist-add-tags", Label: "Add tags", Disabled: true},
			{Label: "FAQ", URL: "https://discord.com/channels/1/2", Style: discordpkg.ButtonLink},
		}},
		{Select: &discordpkg.SelectMenu{
			CustomID:  "assist-tags-select",
			MinValues: 0,
			MaxValues: 2,
			Options: []discordpkg.SelectOption{
				{Label: "Linux", Value: "Linux", Default: true},
				{Label: "BSD", Value: "BSD"},
			},
		}},
	})
	if len(rows) != 2 {
		t.Fatalf("expected two rows, got %d", len(rows))
	}

	buttons := rows[0].(discordgo.ActionsRow).Components
	addTags := buttons[0].(discordgo.Button)
	if !addTags.Disabled || addTags.Style != discordgo.SecondaryButton || addTags.CustomID != "assist-add-tags" {
		t.Fatalf("unexpected add tags button: %+v", addTags)
	}
	faq := buttons[1].(discordgo.Button)
	if faq.Style != discordgo.LinkButton || faq.CustomID != "" || faq.URL == "" {
		t.Fatalf("unexpected link button: %+v", faq)
	}

	menu := rows[1].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	if menu.MinValues == nil || *menu.MinValues != 0 || menu.MaxValues != 2 {
		t.Fatalf("unexpected select bounds: %+v", menu)
	}
	if !menu.Options[0].Default || menu.Options[1].Default {
		t.Fatalf("unexpected default selections: %+v", menu.Options)
	}
}

func TestInteractionUser_PrefersNickname(t *testing.T) {
	u := interactionUser(&discordgo.Interaction{
		Member: &discordgo.Member{
			Nick: "Ana",
			User: &discordgo.User{ID: "user-1", Username: "ana_dev", Discriminator: "0001"},
		},
	})
	if u.DisplayName != "Ana" || u.Username != "ana_dev" || u.Discriminator != "0001" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.AvatarURL == "" {
		t.Fatal("expected default avatar url")
	}
}
