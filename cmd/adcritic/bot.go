package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kitbuilder587/ad-critic/internal/config"
	"github.com/kitbuilder587/ad-critic/internal/telegram"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram review bot",
	Args:  cobra.NoArgs,
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Telegram.Token == "" {
		return config.ErrMissingBotToken
	}

	bot, err := telegram.New(telegram.BotConfig{
		Token:             a.cfg.Telegram.Token,
		Debug:             a.cfg.Telegram.Debug,
		RequestsPerMinute: a.cfg.RateLimit.RequestsPerMinute,
		DownloadDir:       a.cfg.Upload.Dir,
		MaxDownloadBytes:  a.cfg.Upload.MaxBytes,
	}, telegram.Services{
		Critic:       a.critic,
		Orchestrator: a.orchestrator,
		Brands:       a.brands,
		Approvals:    a.approvals,
	}, a.logger, a.metrics)
	if err != nil {
		return err
	}

	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
