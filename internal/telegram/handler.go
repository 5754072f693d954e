package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/service"
)

const helpText = `<b>Доступные команды:</b>

Пришлите картинку с рекламой - бот оценит ее по четырем измерениям.
В подписи можно указать брендбук тегом и описание: <code>#acme летняя распродажа</code>

/refine [#бренд] промпт - Сгенерировать и доработать рекламу
/brands - Список брендбуков
/approve ID [заметки] - Одобрить критику
/reject ID [заметки] - Отклонить
/revise ID [заметки] - Отправить на доработку
/status ID - Решение по критике
/help - Показать эту справку`

type Handler struct {
	bot *Bot
}

func NewHandler(bot *Bot) *Handler {
	return &Handler{bot: bot}
}

func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	h.bot.logger.Info("received message",
		zap.Int64("user_id", msg.From.ID),
		zap.String("username", msg.From.UserName),
		zap.Bool("has_image", len(msg.Photo) > 0 || msg.Document != nil),
	)

	if len(msg.Photo) > 0 || msg.Document != nil {
		h.handleImage(ctx, msg)
		return
	}

	command, args := ParseCommand(msg.Text)
	switch command {
	case "start", "help":
		h.bot.Send(msg.Chat.ID, helpText)
	case "refine":
		h.handleRefine(ctx, msg, args)
	case "brands":
		h.handleBrands(ctx, msg)
	case "approve":
		h.handleDecision(ctx, msg, domain.DecisionApprove, args)
	case "reject":
		h.handleDecision(ctx, msg, domain.DecisionReject, args)
	case "revise":
		h.handleDecision(ctx, msg, domain.DecisionRequestRevision, args)
	case "status":
		h.handleStatus(ctx, msg, args)
	case "":
		h.bot.Send(msg.Chat.ID, "Пришлите картинку с рекламой или используйте /help.")
	default:
		h.bot.Send(msg.Chat.ID, "Неизвестная команда. Используйте /help для справки.")
	}
}

// allow проверяет лимит на дорогие вызовы оракула
func (h *Handler) allow(msg *tgbotapi.Message) bool {
	key := strconv.FormatInt(msg.From.ID, 10)
	if h.bot.rateLimiter.Allow(key) {
		return true
	}
	h.bot.logger.Warn("rate limit exceeded",
		zap.Int64("user_id", msg.From.ID),
		zap.Time("reset_at", h.bot.rateLimiter.ResetTime(key)),
	)
	h.bot.recordUpdate("rate_limit", "rejected")
	h.bot.Send(msg.Chat.ID, "Слишком много запросов. Пожалуйста, подождите минуту.")
	return false
}

func (h *Handler) brand(ctx context.Context, brandID string) (*domain.BrandKit, error) {
	if brandID == "" || h.bot.services.Brands == nil {
		return nil, nil
	}
	return h.bot.services.Brands.Get(ctx, brandID)
}

func (h *Handler) handleImage(ctx context.Context, msg *tgbotapi.Message) {
	if !h.allow(msg) {
		return
	}

	fileID, ext, err := imageFile(msg)
	if err != nil {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	brandID, description := ParseBrandTag(msg.Caption)
	brand, err := h.brand(ctx, brandID)
	if err != nil {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	h.bot.SendTyping(msg.Chat.ID, tgbotapi.ChatTyping)

	path, err := h.bot.download(ctx, fileID, ext)
	if err != nil {
		h.bot.logger.Error("failed to download image", zap.Error(err), zap.Int64("user_id", msg.From.ID))
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	critique, err := h.bot.services.Critic.CritiqueImage(ctx, service.CritiqueRequest{
		ImagePath:   path,
		Brand:       brand,
		Description: description,
	})
	if err != nil {
		h.bot.logger.Error("critique failed", zap.Error(err), zap.String("path", path))
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	h.sendLong(msg.Chat.ID, FormatCritique(critique))
}

func (h *Handler) handleRefine(ctx context.Context, msg *tgbotapi.Message, args string) {
	brandID, prompt := ParseBrandTag(args)
	if prompt == "" {
		h.bot.Send(msg.Chat.ID, "Укажите промпт: /refine #acme кроссовки на пляже")
		return
	}
	if !h.allow(msg) {
		return
	}

	brand, err := h.brand(ctx, brandID)
	if err != nil {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	h.bot.SendTyping(msg.Chat.ID, tgbotapi.ChatUploadPhoto)

	result, err := h.bot.services.Orchestrator.Run(ctx, domain.WorkflowRequest{
		Prompt: prompt,
		Brand:  brand,
	})
	if err != nil {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	h.bot.logger.Info("refinement finished via bot",
		zap.String("run_id", result.RunID),
		zap.Int("iterations", result.IterationsCount),
		zap.Float64("final_score", result.FinalScore),
	)

	if result.BestAd != nil {
		caption := fmt.Sprintf("Лучший вариант: итерация %d, оценка %.2f", result.BestAd.Iteration, result.BestAd.Score)
		if err := h.bot.SendPhoto(msg.Chat.ID, result.BestAd.ImagePath, caption); err != nil {
			h.bot.logger.Warn("failed to send best ad", zap.Error(err))
		}
	}
	h.sendLong(msg.Chat.ID, FormatWorkflow(result))
}

func (h *Handler) handleBrands(ctx context.Context, msg *tgbotapi.Message) {
	brands, err := h.bot.services.Brands.List(ctx)
	if err != nil {
		h.bot.logger.Error("failed to list brands", zap.Error(err))
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}
	h.sendLong(msg.Chat.ID, FormatBrandList(brands))
}

func (h *Handler) handleDecision(ctx context.Context, msg *tgbotapi.Message, decision domain.Decision, args string) {
	critiqueID, notes := ParseDecisionArgs(args)
	if critiqueID == "" {
		h.bot.Send(msg.Chat.ID, "Укажите ID критики: /approve ID [заметки]")
		return
	}

	approval, err := h.bot.services.Approvals.Decide(ctx, service.DecideRequest{
		CritiqueID: critiqueID,
		Decision:   decision,
		Reviewer:   reviewerName(msg.From),
		Notes:      notes,
	})
	if err != nil {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}
	h.bot.Send(msg.Chat.ID, FormatApproval(approval))
}

func (h *Handler) handleStatus(ctx context.Context, msg *tgbotapi.Message, args string) {
	critiqueID, _ := ParseDecisionArgs(args)
	if critiqueID == "" {
		h.bot.Send(msg.Chat.ID, "Укажите ID критики: /status ID")
		return
	}

	approval, err := h.bot.services.Approvals.Get(ctx, critiqueID)
	if err != nil {
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}
	h.bot.Send(msg.Chat.ID, FormatApproval(approval))
}

func (h *Handler) sendLong(chatID int64, text string) {
	for _, m := range SplitMessage(text, maxMessageLen) {
		if err := h.bot.Send(chatID, m); err != nil {
			h.bot.logger.Error("failed to send message", zap.Error(err))
		}
	}
}

func reviewerName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return "@" + u.UserName
	}
	return strconv.FormatInt(u.ID, 10)
}

func mapErrorToMessage(err error) string {
	switch {
	case errors.Is(err, errNoImage), errors.Is(err, errUnsupportedImage):
		return "Поддерживаются картинки png, jpg, webp, gif и bmp."
	case errors.Is(err, errImageTooLarge):
		return "Картинка слишком большая."
	case errors.Is(err, domain.ErrImageLoad):
		return "Не удалось прочитать картинку."
	case errors.Is(err, domain.ErrBrandNotFound):
		return "Брендбук не найден. Список: /brands"
	case errors.Is(err, domain.ErrApprovalNotFound):
		return "Решения по этой критике еще нет."
	case errors.Is(err, domain.ErrEmptyCritiqueID):
		return "Укажите ID критики."
	case errors.Is(err, domain.ErrInvalidDecision):
		return "Некорректное решение."
	case errors.Is(err, domain.ErrEmptyPrompt):
		return "Пустой промпт."
	case errors.Is(err, domain.ErrInvalidMaxIterations), errors.Is(err, domain.ErrInvalidThreshold):
		return "Некорректные параметры запуска."
	default:
		return "Произошла ошибка. Попробуйте позже."
	}
}
