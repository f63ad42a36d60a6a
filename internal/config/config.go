package config

import (
	"fmt"
	"net/url"
	"strconv"
)

type Config struct {
	Env              string
	DiscordToken     string
	DiscordGuildID   string
	HelpChannelName  string
	FAQChannelName   string
	DatabaseURL      string
	ThreadWebhookURL string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if _, err := strconv.ParseUint(c.DiscordGuildID, 10, 64); err != nil {
		return fmt.Errorf("DISCORD_GUILD_ID must be a numeric snowflake, got %q", c.DiscordGuildID)
	}
	if c.HelpChannelName == c.FAQChannelName {
		return fmt.Errorf("HELP_CHANNEL_NAME and FAQ_CHANNEL_NAME must differ, both are %q", c.HelpChannelName)
	}
	if c.ThreadWebhookURL != "" {
		u, err := url.Parse(c.ThreadWebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("THREAD_WEBHOOK_URL must be an absolute http(s) URL")
		}
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "DISCORD_TOKEN", value: c.DiscordToken},
		{name: "DISCORD_GUILD_ID", value: c.DiscordGuildID},
		{name: "HELP_CHANNEL_NAME", value: c.HelpChannelName},
		{name: "FAQ_CHANNEL_NAME", value: c.FAQChannelName},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// LedgerEnabled reports whether open sessions are recorded in Postgres.
func (c *Config) LedgerEnabled() bool {
	return c.DatabaseURL != ""
}
