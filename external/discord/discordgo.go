package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/foxseedlab/assist/internal/discord"
)

// Private threads created under a help channel are archived by Discord after
// a day without activity.
const privateThreadAutoArchiveMinutes = 1440

type Client struct {
	session   *discordgo.Session
	token     string
	botUserID string
}

func NewClient(token string) discordpkg.Client {
	return &Client{
		token: token,
	}
}

func (c *Client) Connect(ctx context.Context) error {
	_ = ctx
	s, err := discordgo.New("Bot " + c.token)
	if err != nil {
		return err
	}
	c.session = s
	s.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent)
	if err := s.Open(); err != nil {
		return err
	}
	userID, err := c.GetBotUserID()
	if err != nil {
		return err
	}
	c.botUserID = userID
	return nil
}

func (c *Client) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

func (c *Client) Run() error {
	select {}
}

func (c *Client) GetBotUserID() (string, error) {
	if c.botUserID != "" {
		return c.botUserID, nil
	}
	if c.session == nil {
		return "", fmt.Errorf("discord session is not initialized")
	}
	if c.session.State != nil && c.session.State.User != nil && c.session.State.User.ID != "" {
		c.botUserID = c.session.State.User.ID
		return c.botUserID, nil
	}
	u, err := c.session.User("@me")
	if err != nil {
		return "", err
	}
	c.botUserID = u.ID
	return c.botUserID, nil
}

func (c *Client) RegisterInteractionHandler(handler func(discordpkg.InteractionEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic == nil || ic.Interaction == nil || ic.Type != discordgo.InteractionMessageComponent {
			return
		}
		data := ic.MessageComponentData()
		if data.CustomID == "" {
			return
		}
		user := interactionUser(ic.Interaction)
		if user.ID == "" {
			return
		}
		slog.Debug("component interaction received", "guild_id", ic.GuildID, "channel_id", ic.ChannelID, "custom_id", data.CustomID, "user_id", user.ID)
		handler(discordpkg.InteractionEvent{
			GuildID:   ic.GuildID,
			ChannelID: ic.ChannelID,
			CustomID:  data.CustomID,
			Values:    data.Values,
			Message:   toMessage(ic.Message),
			User:      user,
			Acknowledge: func() error {
				return s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
					Type: discordgo.InteractionResponseDeferredMessageUpdate,
				})
			},
			RespondEphemeral: func(content string) error {
				return s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
					Type: discordgo.InteractionResponseChannelMessageWithSource,
					Data: &discordgo.InteractionResponseData{
						Content: content,
						Flags:   discordgo.MessageFlagsEphemeral,
					},
				})
			},
		})
	})
}

func (c *Client) RegisterMessageHandler(handler func(discordpkg.MessageEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, mc *discordgo.MessageCreate) {
		if mc == nil || mc.Message == nil || mc.Author == nil {
			return
		}
		handler(discordpkg.MessageEvent{
			ID:          mc.ID,
			GuildID:     mc.GuildID,
			ChannelID:   mc.ChannelID,
			AuthorID:    mc.Author.ID,
			AuthorIsBot: mc.Author.Bot,
			Content:     mc.Content,
		})
	})
}

func (c *Client) RegisterThreadCreateHandler(handler func(discordpkg.ThreadCreateEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, tc *discordgo.ThreadCreate) {
		if tc == nil || tc.Channel == nil {
			return
		}
		slog.Debug("thread create received", "guild_id", tc.GuildID, "thread_id", tc.ID, "parent_id", tc.ParentID, "newly_created", tc.NewlyCreated)
		handler(discordpkg.ThreadCreateEvent{
			GuildID:      tc.GuildID,
			Thread:       toChannel(tc.Channel),
			NewlyCreated: tc.NewlyCreated,
		})
	})
}

func (c *Client) GuildChannels(ctx context.Context, guildID string) ([]discordpkg.Channel, error) {
	channels, err := c.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapRESTError(err)
	}
	out := make([]discordpkg.Channel, 0, len(channels))
	for _, ch := range channels {
		if ch == nil {
			continue
		}
		out = append(out, toChannel(ch))
	}
	return out, nil
}

func (c *Client) GetChannel(ctx context.Context, channelID string) (discordpkg.Channel, error) {
	if c.session.State != nil {
		ch, err := c.session.State.Channel(channelID)
		if err == nil && ch != nil {
			return toChannel(ch), nil
		}
	}
	ch, err := c.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return discordpkg.Channel{}, wrapRESTError(err)
	}
	return toChannel(ch), nil
}

func (c *Client) SendMessage(ctx context.Context, channelID string, msg discordpkg.MessageContent) (discordpkg.Message, error) {
	send := &discordgo.MessageSend{
		Content:    msg.Content,
		Embeds:     toEmbeds(msg.Embeds),
		Components: toComponents(msg.Rows),
	}
	if msg.SuppressEmbeds {
		send.Flags = discordgo.MessageFlagsSuppressEmbeds
	}
	m, err := c.session.ChannelMessageSendComplex(channelID, send, discordgo.WithContext(ctx))
	if err != nil {
		return discordpkg.Message{}, wrapRESTError(err)
	}
	return *toMessage(m), nil
}

func (c *Client) EditMessage(ctx context.Context, channelID, messageID string, msg discordpkg.MessageContent) (discordpkg.Message, error) {
	content := msg.Content
	edit := &discordgo.MessageEdit{
		ID:      messageID,
		Channel: channelID,
		Content: &content,
	}
	if msg.Embeds != nil {
		embeds := toEmbeds(msg.Embeds)
		edit.Embeds = &embeds
	}
	if msg.Rows != nil {
		components := toComponents(msg.Rows)
		edit.Components = &components
	}
	if msg.SuppressEmbeds {
		edit.Flags = discordgo.MessageFlagsSuppressEmbeds
	}
	m, err := c.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
	if err != nil {
		return discordpkg.Message{}, wrapRESTError(err)
	}
	return *toMessage(m), nil
}

func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return wrapRESTError(c.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)))
}

func (c *Client) PinMessage(ctx context.Context, channelID, messageID string) error {
	return wrapRESTError(c.session.ChannelMessagePin(channelID, messageID, discordgo.WithContext(ctx)))
}

func (c *Client) CreatePrivateThread(ctx context.Context, parentChannelID, name string) (discordpkg.Channel, error) {
	ch, err := c.session.ThreadStartComplex(parentChannelID, &discordgo.ThreadStart{
		Name:                name,
		Type:                discordgo.ChannelTypeGuildPrivateThread,
		AutoArchiveDuration: privateThreadAutoArchiveMinutes,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return discordpkg.Channel{}, wrapRESTError(err)
	}
	return toChannel(ch), nil
}

func (c *Client) RenameThread(ctx context.Context, threadID, name string) error {
	_, err := c.session.ChannelEdit(threadID, &discordgo.ChannelEdit{Name: name}, discordgo.WithContext(ctx))
	return wrapRESTError(err)
}

func (c *Client) DeleteChannel(ctx context.Context, channelID string) error {
	_, err := c.session.ChannelDelete(channelID, discordgo.WithContext(ctx))
	return wrapRESTError(err)
}

func wrapRESTError(err error) error {
	if err == nil {
		return nil
	}
	if isRESTNotFound(err) {
		return fmt.Errorf("%w: %w", discordpkg.ErrNotFound, err)
	}
	return err
}

func isRESTNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Response == nil {
		return false
	}
	return restErr.Response.StatusCode == http.StatusNotFound
}

func interactionUser(i *discordgo.Interaction) discordpkg.User {
	var (
		u    *discordgo.User
		nick string
	)
	if i.Member != nil && i.Member.User != nil {
		u = i.Member.User
		nick = i.Member.Nick
	}
	if u == nil {
		u = i.User
	}
	if u == nil {
		return discordpkg.User{}
	}
	displayName := nick
	if displayName == "" {
		displayName = preferredDiscordName(u.GlobalName, u.Username, u.ID)
	}
	return discordpkg.User{
		ID:            u.ID,
		Username:      u.Username,
		Discriminator: u.Discriminator,
		DisplayName:   displayName,
		AvatarURL:     u.AvatarURL(""),
		IsBot:         u.Bot,
	}
}

func preferredDiscordName(globalName, username, fallback string) string {
	if globalName != "" {
		return globalName
	}
	if username != "" {
		return username
	}
	return fallback
}
