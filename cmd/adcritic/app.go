package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kitbuilder587/ad-critic/internal/cache/memory"
	"github.com/kitbuilder587/ad-critic/internal/config"
	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/generation"
	"github.com/kitbuilder587/ad-critic/internal/generation/imagen"
	"github.com/kitbuilder587/ad-critic/internal/generation/synthetic"
	"github.com/kitbuilder587/ad-critic/internal/llm"
	"github.com/kitbuilder587/ad-critic/internal/llm/gemini"
	"github.com/kitbuilder587/ad-critic/internal/llm/offline"
	"github.com/kitbuilder587/ad-critic/internal/llm/openrouter"
	"github.com/kitbuilder587/ad-critic/internal/metrics"
	"github.com/kitbuilder587/ad-critic/internal/repository"
	"github.com/kitbuilder587/ad-critic/internal/repository/file"
	"github.com/kitbuilder587/ad-critic/internal/repository/postgres"
	"github.com/kitbuilder587/ad-critic/internal/rubric"
	"github.com/kitbuilder587/ad-critic/internal/service"
)

// app - собранные зависимости процесса
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics

	critic       service.CriticService
	batch        service.BatchService
	orchestrator service.Orchestrator
	brands       service.BrandService
	approvals    service.ApprovalService

	closers []func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.New(),
	}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	if err := a.wire(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context) error {
	cfg := a.cfg

	var genaiClient *genai.Client
	if cfg.Oracle.Provider == config.OracleGemini || cfg.Generation.Provider == config.GenerationImagen {
		c, err := gemini.NewGenAI(ctx, gemini.Config{APIKey: cfg.Oracle.Gemini.APIKey})
		if err != nil {
			return fmt.Errorf("create genai client: %w", err)
		}
		genaiClient = c
	}

	var oracle llm.Client
	switch cfg.Oracle.Provider {
	case config.OracleGemini:
		oracle = gemini.New(genaiClient, gemini.Config{
			Model:   cfg.Oracle.Gemini.Model,
			Timeout: cfg.Timeouts.Oracle,
		}, a.logger)
	case config.OracleOpenRouter:
		oracle = openrouter.New(openrouter.Config{
			APIKey:  cfg.Oracle.OpenRouter.APIKey,
			Model:   cfg.Oracle.OpenRouter.Model,
			BaseURL: cfg.Oracle.OpenRouter.BaseURL,
			Timeout: cfg.Timeouts.Oracle,
		}, a.logger)
	default:
		oracle = offline.New()
	}

	var renderer generation.Renderer = synthetic.New()
	if cfg.Generation.Provider == config.GenerationImagen {
		renderer = imagen.New(genaiClient, imagen.Config{Model: cfg.Generation.ImagenModel}, a.logger)
	}

	brandRepo, approvalRepo, err := a.storage(ctx)
	if err != nil {
		return err
	}

	rubrics, err := rubric.Load(cfg.RubricFile)
	if err != nil {
		return fmt.Errorf("load rubrics: %w", err)
	}

	critiqueCache := memory.NewWithContext[*domain.Critique](ctx, 0)
	a.closers = append(a.closers, critiqueCache.Stop)

	a.critic = service.NewCriticService(service.CriticServiceDeps{
		Oracle:  oracle,
		Rubrics: rubrics,
		Cache:   critiqueCache,
		Logger:  a.logger,
		Metrics: a.metrics,
		Config: service.CriticConfig{
			Thresholds:    cfg.Critique,
			OracleTimeout: cfg.Timeouts.Oracle,
			CacheTTL:      cfg.Cache.TTL,
		},
	})
	a.batch = service.NewBatchService(service.BatchServiceDeps{
		Critic:      a.critic,
		Concurrency: cfg.Batch.Concurrency,
		Logger:      a.logger,
	})
	a.orchestrator = service.NewOrchestrator(service.OrchestratorDeps{
		Generator: generation.NewService(generation.ServiceDeps{
			Renderer:  renderer,
			OutputDir: cfg.Generation.OutputDir,
			Timeout:   cfg.Timeouts.Generation,
			Logger:    a.logger,
			Metrics:   a.metrics,
		}),
		Describer: service.NewDescriberService(service.DescriberServiceDeps{
			Oracle:        oracle,
			OracleTimeout: cfg.Timeouts.Oracle,
			Logger:        a.logger,
			Metrics:       a.metrics,
		}),
		Critic: a.critic,
		Refiner: service.NewRefinerService(service.RefinerServiceDeps{
			Oracle:        oracle,
			OracleTimeout: cfg.Timeouts.Oracle,
			Logger:        a.logger,
			Metrics:       a.metrics,
		}),
		Logger:  a.logger,
		Metrics: a.metrics,
		Config: service.OrchestratorConfig{
			MaxIterations:  cfg.Workflow.MaxIterations,
			ScoreThreshold: cfg.Workflow.ScoreThreshold,
		},
	})
	a.brands = service.NewBrandService(brandRepo, a.logger)
	a.approvals = service.NewApprovalService(approvalRepo, a.logger)

	a.logger.Info("application wired",
		zap.String("oracle", cfg.Oracle.Provider),
		zap.String("generation", renderer.Name()),
		zap.String("storage", cfg.Storage.Type),
	)
	return nil
}

func (a *app) storage(ctx context.Context) (repository.BrandRepository, repository.ApprovalRepository, error) {
	if a.cfg.Storage.Type == config.StoragePostgres {
		db, err := postgres.New(ctx, a.cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		if err := db.Migrate(ctx); err != nil {
			return nil, nil, err
		}
		return postgres.NewBrandRepo(db), postgres.NewApprovalRepo(db), nil
	}

	brands, err := file.NewBrandRepo(a.cfg.Storage.BrandDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open brand store: %w", err)
	}
	approvals, err := file.NewApprovalRepo(a.cfg.Storage.ApprovalDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open approval store: %w", err)
	}
	return brands, approvals, nil
}

// Close освобождает ресурсы в обратном порядке
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
