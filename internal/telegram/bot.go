// Package telegram - бот для команды креативов: оценка присланных
// картинок, запуск доработки промпта и решения ревьюеров.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/ad-critic/internal/metrics"
	"github.com/kitbuilder587/ad-critic/internal/ratelimit"
	"github.com/kitbuilder587/ad-critic/internal/service"
)

const defaultMaxDownloadBytes = 20 << 20

type BotConfig struct {
	Token             string
	Debug             bool
	RequestsPerMinute int
	DownloadDir       string
	MaxDownloadBytes  int64
}

// transport - часть Telegram API, которой пользуется бот
type transport interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Services struct {
	Critic       service.CriticService
	Orchestrator service.Orchestrator
	Brands       service.BrandService
	Approvals    service.ApprovalService
}

type Bot struct {
	api      *tgbotapi.BotAPI
	tg       transport
	services Services
	logger   *zap.Logger
	metrics  *metrics.Metrics
	handler  *Handler

	rateLimiter *ratelimit.Limiter
	httpClient  *http.Client
	downloadDir string
	maxDownload int64

	wg sync.WaitGroup
}

func New(cfg BotConfig, services Services, logger *zap.Logger, m *metrics.Metrics) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	api.Debug = cfg.Debug

	bot := newBot(api, cfg, services, logger, m)
	bot.api = api

	logger.Info("telegram bot authorized", zap.String("username", api.Self.UserName))
	return bot, nil
}

func newBot(tg transport, cfg BotConfig, services Services, logger *zap.Logger, m *metrics.Metrics) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = "uploads"
	}
	if cfg.MaxDownloadBytes <= 0 {
		cfg.MaxDownloadBytes = defaultMaxDownloadBytes
	}

	bot := &Bot{
		tg:          tg,
		services:    services,
		logger:      logger,
		metrics:     m,
		rateLimiter: ratelimit.New(ratelimit.Config{RequestsPerMinute: cfg.RequestsPerMinute}),
		httpClient:  &http.Client{Timeout: time.Minute},
		downloadDir: cfg.DownloadDir,
		maxDownload: cfg.MaxDownloadBytes,
	}
	bot.handler = NewHandler(bot)
	return bot
}

func (b *Bot) Run(ctx context.Context) error {
	defer b.rateLimiter.Stop()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot started, waiting for updates")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot stopping, waiting for handlers to finish")
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			b.logger.Info("all handlers finished")
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.wg.Add(1)
			go func(upd tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	kind := updateKind(update.Message)

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic in update handler",
				zap.Any("panic", r),
				zap.Int64("chat_id", update.Message.Chat.ID),
			)
			b.recordUpdate(kind, "panic")
		}
	}()

	b.handler.HandleMessage(ctx, update.Message)
	b.recordUpdate(kind, "processed")
}

func (b *Bot) recordUpdate(kind, status string) {
	if b.metrics != nil {
		b.metrics.RecordBotUpdate(kind, status)
	}
}

func (b *Bot) Send(chatID int64, text string) error {
	if b.tg == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := b.tg.Send(msg)
	return err
}

func (b *Bot) SendPhoto(chatID int64, path, caption string) error {
	if b.tg == nil {
		return nil
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeHTML
	_, err := b.tg.Send(photo)
	return err
}

func (b *Bot) SendTyping(chatID int64, action string) {
	if b.tg == nil {
		return
	}
	b.tg.Send(tgbotapi.NewChatAction(chatID, action))
}

func updateKind(msg *tgbotapi.Message) string {
	switch {
	case len(msg.Photo) > 0 || msg.Document != nil:
		return "photo"
	case isCommandText(msg.Text):
		return "command"
	default:
		return "text"
	}
}
