package session

import (
	"fmt"

	"github.com/foxseedlab/assist/internal/discord"
)

const (
	messageWelcomeTitle       = "🤝 Welcome to Help"
	messageWelcomeDescription = "Before you create a help thread, you should read <#%s> first."
	messageFAQButtonLabel     = "FAQ"
	messageFAQURLFormat       = "https://discord.com/channels/%s/%s"

	messageTitlePromptTitle       = "🏷️ Set the thread title"
	messageTitlePromptDescription = "Provide a **short description** of your %s by typing into the thread."
	messageTitlePromptFooter      = "The thread will automatically close if there is no activity within 10 minutes."

	messageClosingThread = "Closing thread..."
	messageAbort         = "⚠️ Something went wrong while setting up this thread. Please close it and try again."

	messageSummaryFooterFormat = "Opened by %s#%s"
	tagsFieldName              = "🏷️ Tags"

	messageAddTagsButton     = "Add tags"
	messageCloseThreadButton = "Close thread"

	messageTagDialogTitle       = "🏷️ Add thread tags"
	messageTagDialogDescription = "Tags help your thread get solved quicker, select a couple from the list below."
	messageTagDialogFooter      = "Tapping outside the selection menu will save your selections."
	messageTagDialogPlaceholder = "No tags selected"
	messageTagDialogDismiss     = "Dismiss"

	messageEphemeralTagsUpdated    = "Updated tags."
	messageEphemeralTagMenuExpired = "This tag menu has expired."
	messageEphemeralTagMenuOpen    = "A tag menu is already open in this thread."
)

func welcomeMessage(guildID, faqChannelID string) discord.MessageContent {
	buttons := make([]discord.Button, 0, len(Categories)+1)
	for _, c := range Categories {
		buttons = append(buttons, discord.Button{
			CustomID: c.CustomID(),
			Label:    c.ButtonLabel(),
			Emoji:    c.Emoji(),
		})
	}
	buttons = append(buttons, discord.Button{
		Label: messageFAQButtonLabel,
		URL:   fmt.Sprintf(messageFAQURLFormat, guildID, faqChannelID),
		Style: discord.ButtonLink,
	})
	return discord.MessageContent{
		Embeds: []discord.Embed{{
			Title:       messageWelcomeTitle,
			Description: fmt.Sprintf(messageWelcomeDescription, faqChannelID),
			Color:       CategoryHelp.Color(),
		}},
		Rows: []discord.ActionRow{{Buttons: buttons}},
	}
}

func threadActionRow(addTagsDisabled bool) discord.ActionRow {
	return discord.ActionRow{Buttons: []discord.Button{
		{CustomID: customIDAddTags, Label: messageAddTagsButton, Disabled: addTagsDisabled},
		{CustomID: customIDCloseThread, Label: messageCloseThreadButton},
	}}
}

func titlePromptMessage(s *Session) discord.MessageContent {
	return discord.MessageContent{
		Content: fmt.Sprintf("<@%s>", s.User.ID),
		Embeds: []discord.Embed{{
			Title:       messageTitlePromptTitle,
			Description: fmt.Sprintf(messageTitlePromptDescription, s.Category.Noun()),
			Color:       s.Category.Color(),
			Footer:      &discord.EmbedFooter{Text: messageTitlePromptFooter},
		}},
		Rows: []discord.ActionRow{threadActionRow(true)},
	}
}

func closingNotice() discord.MessageContent {
	return discord.MessageContent{Content: messageClosingThread, SuppressEmbeds: true}
}

// abortNotice replaces whatever the prompt showed; the close button stays so
// the user can clean up.
func abortNotice() discord.MessageContent {
	return discord.MessageContent{
		Content: messageAbort,
		Embeds:  []discord.Embed{},
		Rows:    []discord.ActionRow{threadActionRow(true)},
	}
}

func summaryEmbed(s *Session) discord.Embed {
	return discord.Embed{
		Title:       s.Category.Emoji() + " " + s.Category.Label(),
		Description: s.Title,
		Color:       s.Category.Color(),
		Fields:      []discord.EmbedField{{Name: tagsFieldName, Value: FormatTags(s.Tags)}},
		Footer: &discord.EmbedFooter{
			Text:    fmt.Sprintf(messageSummaryFooterFormat, s.User.Username, s.User.Discriminator),
			IconURL: s.User.AvatarURL,
		},
	}
}

func summaryMessage(embed discord.Embed) discord.MessageContent {
	return discord.MessageContent{
		Content: "",
		Embeds:  []discord.Embed{embed},
		Rows:    []discord.ActionRow{threadActionRow(false)},
	}
}

func tagDialogMessage(color int, current []string) discord.MessageContent {
	options := make([]discord.SelectOption, 0, len(tagCatalog))
	for _, o := range defaultSelection(current) {
		options = append(options, discord.SelectOption{Label: o.name, Value: o.name, Default: o.selected})
	}
	return discord.MessageContent{
		Embeds: []discord.Embed{{
			Title:       messageTagDialogTitle,
			Description: messageTagDialogDescription,
			Color:       color,
			Footer:      &discord.EmbedFooter{Text: messageTagDialogFooter},
		}},
		Rows: []discord.ActionRow{
			{Select: &discord.SelectMenu{
				CustomID:    customIDTagsSelect,
				Placeholder: messageTagDialogPlaceholder,
				MinValues:   0,
				MaxValues:   len(tagCatalog),
				Options:     options,
			}},
			{Buttons: []discord.Button{{CustomID: customIDTagsSelectDismiss, Label: messageTagDialogDismiss}}},
		},
	}
}

// tagsField returns the summary embed of a finalized thread and the index of
// its tags field.
func tagsField(msg *discord.Message) (discord.Embed, int, error) {
	if msg == nil || len(msg.Embeds) == 0 {
		return discord.Embed{}, 0, fmt.Errorf("%w: summary message has no embed", ErrInvariant)
	}
	embed := msg.Embeds[0]
	for i, f := range embed.Fields {
		if f.Name == tagsFieldName {
			return embed, i, nil
		}
	}
	return discord.Embed{}, 0, fmt.Errorf("%w: summary embed has no %q field", ErrInvariant, tagsFieldName)
}

// withTags copies the summary embed, replacing only the tags value.
func withTags(embed discord.Embed, fieldIndex int, tags []string) discord.Embed {
	out := embed
	out.Fields = make([]discord.EmbedField, len(embed.Fields))
	copy(out.Fields, embed.Fields)
	out.Fields[fieldIndex].Value = FormatTags(tags)
	if embed.Footer != nil {
		footer := *embed.Footer
		out.Footer = &footer
	}
	return out
}
