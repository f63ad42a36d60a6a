package discord

import (
	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/foxseedlab/assist/internal/discord"
)

func toChannel(ch *discordgo.Channel) discordpkg.Channel {
	return discordpkg.Channel{
		ID:       ch.ID,
		GuildID:  ch.GuildID,
		Name:     ch.Name,
		ParentID: ch.ParentID,
		OwnerID:  ch.OwnerID,
		IsThread: ch.IsThread(),
	}
}

func toMessage(m *discordgo.Message) *discordpkg.Message {
	if m == nil {
		return nil
	}
	out := &discordpkg.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
	}
	for _, e := range m.Embeds {
		if e == nil {
			continue
		}
		out.Embeds = append(out.Embeds, fromEmbed(e))
	}
	return out
}

func fromEmbed(e *discordgo.MessageEmbed) discordpkg.Embed {
	out := discordpkg.Embed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		if f == nil {
			continue
		}
		out.Fields = append(out.Fields, discordpkg.EmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	if e.Footer != nil {
		out.Footer = &discordpkg.EmbedFooter{Text: e.Footer.Text, IconURL: e.Footer.IconURL}
	}
	return out
}

func toEmbeds(embeds []discordpkg.Embed) []*discordgo.MessageEmbed {
	out := make([]*discordgo.MessageEmbed, 0, len(embeds))
	for _, e := range embeds {
		me := &discordgo.MessageEmbed{
			Title:       e.Title,
			Description: e.Description,
			Color:       e.Color,
		}
		for _, f := range e.Fields {
			me.Fields = append(me.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
		}
		if e.Footer != nil {
			me.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer.Text, IconURL: e.Footer.IconURL}
		}
		out = append(out, me)
	}
	return out
}

func toComponents(rows []discordpkg.ActionRow) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		if row.Select != nil {
			out = append(out, discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{toSelectMenu(*row.Select)},
			})
			continue
		}
		buttons := make([]discordgo.MessageComponent, 0, len(row.Buttons))
		for _, b := range row.Buttons {
			buttons = append(buttons, toButton(b))
		}
		out = append(out, discordgo.ActionsRow{Components: buttons})
	}
	return out
}

func toButton(b discordpkg.Button) discordgo.Button {
	btn := discordgo.Button{
		Label:    b.Label,
		Disabled: b.Disabled,
	}
	switch b.Style {
	case discordpkg.ButtonLink:
		btn.Style = discordgo.LinkButton
		btn.URL = b.URL
	case discordpkg.ButtonPrimary:
		btn.Style = discordgo.PrimaryButton
		btn.CustomID = b.CustomID
	default:
		btn.Style = discordgo.SecondaryButton
		btn.CustomID = b.CustomID
	}
	if b.Emoji != "" {
		btn.Emoji = &discordgo.ComponentEmoji{Name: b.Emoji}
	}
	return btn
}

func toSelectMenu(m discordpkg.SelectMenu) discordgo.SelectMenu {
	minValues := m.MinValues
	options := make([]discordgo.SelectMenuOption, 0, len(m.Options))
	for _, o := range m.Options {
		options = append(options, discordgo.SelectMenuOption{
			Label:   o.Label,
			Value:   o.Value,
			Default: o.Default,
		})
	}
	return discordgo.SelectMenu{
		MenuType:    discordgo.StringSelectMenu,
		CustomID:    m.CustomID,
		Placeholder: m.Placeholder,
		MinValues:   &minValues,
		MaxValues:   m.MaxValues,
		Options:     options,
	}
}
