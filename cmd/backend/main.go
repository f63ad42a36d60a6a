package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	configloader "github.com/foxseedlab/assist/external/config"
	"github.com/foxseedlab/assist/external/discord"
	repositoryimpl "github.com/foxseedlab/assist/external/repository"
	webhookimpl "github.com/foxseedlab/assist/external/webhook"
	"github.com/foxseedlab/assist/internal/config"
	discordpkg "github.com/foxseedlab/assist/internal/discord"
	"github.com/foxseedlab/assist/internal/session"
	"github.com/samber/do/v2"
)

const (
	discordConnectTimeout = 20 * time.Second
	startupTimeout        = 2 * time.Minute
)

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "ledger_enabled", cfg.LedgerEnabled())

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)
	defer shutdownDI(injector)

	if err := runBot(cfg, injector); err != nil {
		slog.Error("support bot stopped", "error", err)
		shutdownDI(injector)
		os.Exit(1)
	}
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	discord.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	session.RegisterDI(injector)

	return injector
}

func shutdownDI(injector do.Injector) {
	if report := injector.Shutdown(); report != nil && !report.Succeed {
		slog.Warn("some services did not shut down cleanly", "report", report)
	}
}

func runBot(cfg *config.Config, injector do.Injector) error {
	dc, err := do.Invoke[discordpkg.Client](injector)
	if err != nil {
		return fmt.Errorf("resolve discord client: %w", err)
	}
	manager, err := do.Invoke[*session.Manager](injector)
	if err != nil {
		return fmt.Errorf("resolve session manager: %w", err)
	}

	if err := connect(dc, manager); err != nil {
		return err
	}
	defer func() {
		if err := dc.Close(); err != nil {
			slog.Error("discord close failed", "error", err)
		}
	}()

	dir, err := prepareSupport(manager)
	if err != nil {
		return fmt.Errorf("support channels in guild %s: %w", cfg.DiscordGuildID, err)
	}

	dc.RegisterInteractionHandler(manager.HandleInteraction)
	dc.RegisterMessageHandler(manager.HandleMessage)
	dc.RegisterThreadCreateHandler(manager.HandleThreadCreate)
	slog.Info("discord handlers registered", "guild_id", cfg.DiscordGuildID, "help_channel_id", dir.HelpChannelID, "faq_channel_id", dir.FAQChannelID)

	serve(dc)
	manager.Shutdown()
	return nil
}

func connect(dc discordpkg.Client, manager *session.Manager) error {
	ctx, cancel := context.WithTimeout(context.Background(), discordConnectTimeout)
	defer cancel()

	slog.Info("startup: connecting to discord gateway")
	if err := dc.Connect(ctx); err != nil {
		return fmt.Errorf("discord connect: %w", err)
	}
	botUserID, err := dc.GetBotUserID()
	if err != nil {
		_ = dc.Close()
		return fmt.Errorf("resolve bot user id: %w", err)
	}
	manager.SetBotUserID(botUserID)
	slog.Info("startup: discord connected", "bot_user_id", botUserID)
	return nil
}

// prepareSupport resolves the help and FAQ channels, then closes threads a
// previous process left waiting for a title.
func prepareSupport(manager *session.Manager) (session.Directory, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	dir, err := manager.ResolveDirectory(ctx)
	if err != nil {
		return session.Directory{}, err
	}
	if err := manager.ReconcileOrphanedSessions(ctx); err != nil {
		slog.Error("failed to reconcile orphaned sessions", "error", err)
	}
	return dir, nil
}

// serve blocks until the gateway loop ends or the process is signalled.
func serve(dc discordpkg.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		slog.Info("startup: entering discord run loop")
		if err := dc.Run(); err != nil {
			slog.Error("discord run failed", "error", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case <-done:
	}
}
