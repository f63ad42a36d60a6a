package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/assist/internal/config"
)

type envConfig struct {
	Env              string `env:"ENV" envDefault:"production"`
	DiscordToken     string `env:"DISCORD_TOKEN,required"`
	DiscordGuildID   string `env:"DISCORD_GUILD_ID,required"`
	HelpChannelName  string `env:"HELP_CHANNEL_NAME" envDefault:"help"`
	FAQChannelName   string `env:"FAQ_CHANNEL_NAME" envDefault:"faq"`
	DatabaseURL      string `env:"DATABASE_URL"`
	ThreadWebhookURL string `env:"THREAD_WEBHOOK_URL"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:              raw.Env,
		DiscordToken:     raw.DiscordToken,
		DiscordGuildID:   raw.DiscordGuildID,
		HelpChannelName:  raw.HelpChannelName,
		FAQChannelName:   raw.FAQChannelName,
		DatabaseURL:      raw.DatabaseURL,
		ThreadWebhookURL: raw.ThreadWebhookURL,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
