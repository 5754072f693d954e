package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/ad-critic/internal/domain"
)

const defaultBatchConcurrency = 4

type BatchItem struct {
	Filename string
	Path     string
}

type BatchService interface {
	Critique(ctx context.Context, items []BatchItem, brand *domain.BrandKit) *domain.BatchResult
}

type BatchServiceDeps struct {
	Critic      CriticService
	Concurrency int
	Logger      *zap.Logger
}

type batchService struct {
	critic      CriticService
	concurrency int
	logger      *zap.Logger
}

func NewBatchService(deps BatchServiceDeps) BatchService {
	if deps.Concurrency <= 0 {
		deps.Concurrency = defaultBatchConcurrency
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &batchService{
		critic:      deps.Critic,
		concurrency: deps.Concurrency,
		logger:      deps.Logger,
	}
}

// Critique оценивает файлы параллельно, порядок результатов совпадает с входом.
// Ошибка одного файла не останавливает остальные.
func (s *batchService) Critique(ctx context.Context, items []BatchItem, brand *domain.BrandKit) *domain.BatchResult {
	results := make([]domain.BatchItemResult, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, item := range items {
		g.Go(func() error {
			results[i].Filename = item.Filename
			critique, err := s.critic.CritiqueImage(gctx, CritiqueRequest{ImagePath: item.Path, Brand: brand})
			if err != nil {
				s.logger.Warn("batch item failed", zap.String("filename", item.Filename), zap.Error(err))
				results[i].Error = err.Error()
				return nil
			}
			results[i].Critique = critique
			return nil
		})
	}
	g.Wait()

	successful := 0
	for _, r := range results {
		if r.Critique != nil {
			successful++
		}
	}

	s.logger.Info("batch critique completed",
		zap.Int("total", len(items)),
		zap.Int("successful", successful),
	)

	return &domain.BatchResult{
		Results:    results,
		Total:      len(items),
		Successful: successful,
	}
}
