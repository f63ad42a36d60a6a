package discord

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the target message or channel no longer
// exists on Discord.
var ErrNotFound = errors.New("discord: entity not found")

type ButtonStyle int

const (
	ButtonSecondary ButtonStyle = iota
	ButtonPrimary
	ButtonLink
)

type Button struct {
	CustomID string
	Label    string
	Emoji    string
	URL      string
	Style    ButtonStyle
	Disabled bool
}

type SelectOption struct {
	Label   string
	Value   string
	Default bool
}

type SelectMenu struct {
	CustomID    string
	Placeholder string
	MinValues   int
	MaxValues   int
	Options     []SelectOption
}

// ActionRow holds either buttons or a single select menu.
type ActionRow struct {
	Buttons []Button
	Select  *SelectMenu
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

type EmbedFooter struct {
	Text    string
	IconURL string
}

type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	Footer      *EmbedFooter
}

// MessageContent describes a message to send or an edit to apply. On edit,
// nil Embeds or Rows leave the current ones untouched.
type MessageContent struct {
	Content        string
	Embeds         []Embed
	Rows           []ActionRow
	SuppressEmbeds bool
}

type Message struct {
	ID        string
	ChannelID string
	Content   string
	Embeds    []Embed
}

type Channel struct {
	ID       string
	GuildID  string
	Name     string
	ParentID string
	OwnerID  string
	IsThread bool
}

type User struct {
	ID            string
	Username      string
	Discriminator string
	DisplayName   string
	AvatarURL     string
	IsBot         bool
}

type InteractionEvent struct {
	GuildID   string
	ChannelID string
	CustomID  string
	Values    []string
	Message   *Message
	User      User
	// Acknowledge tells Discord the interaction was received without
	// changing the message.
	Acknowledge      func() error
	RespondEphemeral func(content string) error
}

type MessageEvent struct {
	ID          string
	GuildID     string
	ChannelID   string
	AuthorID    string
	AuthorIsBot bool
	Content     string
}

type ThreadCreateEvent struct {
	GuildID      string
	Thread       Channel
	NewlyCreated bool
}

type Client interface {
	Connect(ctx context.Context) error
	Close() error
	Run() error
	GetBotUserID() (string, error)
	RegisterInteractionHandler(handler func(InteractionEvent))
	RegisterMessageHandler(handler func(MessageEvent))
	RegisterThreadCreateHandler(handler func(ThreadCreateEvent))
	GuildChannels(ctx context.Context, guildID string) ([]Channel, error)
	GetChannel(ctx context.Context, channelID string) (Channel, error)
	SendMessage(ctx context.Context, channelID string, msg MessageContent) (Message, error)
	EditMessage(ctx context.Context, channelID, messageID string, msg MessageContent) (Message, error)
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	PinMessage(ctx context.Context, channelID, messageID string) error
	CreatePrivateThread(ctx context.Context, parentChannelID, name string) (Channel, error)
	RenameThread(ctx context.Context, threadID, name string) error
	DeleteChannel(ctx context.Context, channelID string) error
}
