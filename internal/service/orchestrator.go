package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/generation"
	"github.com/kitbuilder587/ad-critic/internal/metrics"
)

// итоги запуска для метрик
const (
	outcomeThresholdMet     = "threshold_met"
	outcomeMaxIterations    = "max_iterations"
	outcomeGenerationFailed = "generation_failed"
	outcomeCancelled        = "cancelled"
)

type Orchestrator interface {
	Run(ctx context.Context, req domain.WorkflowRequest) (*domain.WorkflowResult, error)
}

type OrchestratorConfig struct {
	MaxIterations  int
	ScoreThreshold float64
}

type OrchestratorDeps struct {
	Generator generation.Generator
	Describer DescriberService
	Critic    CriticService
	Refiner   RefinerService
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Config    OrchestratorConfig
}

type orchestrator struct {
	generator generation.Generator
	describer DescriberService
	critic    CriticService
	refiner   RefinerService
	logger    *zap.Logger
	metrics   *metrics.Metrics
	config    OrchestratorConfig
}

func NewOrchestrator(deps OrchestratorDeps) Orchestrator {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Config.MaxIterations == 0 {
		deps.Config.MaxIterations = domain.DefaultMaxIterations
	}
	if deps.Config.ScoreThreshold == 0 {
		deps.Config.ScoreThreshold = domain.DefaultScoreThreshold
	}

	return &orchestrator{
		generator: deps.Generator,
		describer: deps.Describer,
		critic:    deps.Critic,
		refiner:   deps.Refiner,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		config:    deps.Config,
	}
}

// Run возвращает ошибку только для невалидного запроса. Сбой генерации
// и отмена контекста отражаются в результате вместе с лучшим кандидатом.
func (o *orchestrator) Run(ctx context.Context, req domain.WorkflowRequest) (*domain.WorkflowResult, error) {
	if req.MaxIterations == 0 {
		req.MaxIterations = o.config.MaxIterations
	}
	if req.ScoreThreshold == 0 {
		req.ScoreThreshold = o.config.ScoreThreshold
	}
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if o.metrics != nil {
		o.metrics.IncActiveWorkflows()
		defer o.metrics.DecActiveWorkflows()
	}

	id := uuid.NewString()
	r := &workflowRun{
		orchestrator: o,
		id:           id,
		req:          req,
		logger:       o.logger.With(zap.String("run_id", id)),
	}
	result := r.execute(ctx)

	if o.metrics != nil {
		o.metrics.RecordWorkflow(r.outcome, result.IterationsCount)
	}
	return result, nil
}

// workflowRun - состояние одного запуска, между запусками ничего не делится
type workflowRun struct {
	*orchestrator
	id     string
	req    domain.WorkflowRequest
	logger *zap.Logger

	prompt    string
	best      *domain.BestAd
	bestScore float64
	records   []domain.IterationRecord
	outcome   string
	cancelled bool
}

func (r *workflowRun) execute(ctx context.Context) *domain.WorkflowResult {
	start := time.Now()
	r.prompt = r.req.Prompt
	r.outcome = outcomeMaxIterations

	r.logger.Info("starting refinement workflow",
		zap.String("prompt", truncateBytes(r.prompt, 50)),
		zap.Int("max_iterations", r.req.MaxIterations),
		zap.Float64("score_threshold", r.req.ScoreThreshold),
	)

	for i := 1; i <= r.req.MaxIterations; i++ {
		if ctx.Err() != nil {
			r.markCancelled()
			break
		}
		if done := r.iterate(ctx, i); done {
			break
		}
	}

	result := &domain.WorkflowResult{
		RunID:           r.id,
		Success:         r.best != nil,
		IterationsCount: len(r.records),
		Iterations:      r.records,
		BestAd:          r.best,
		FinalScore:      r.bestScore,
		ThresholdMet:    r.bestScore >= r.req.ScoreThreshold,
		Cancelled:       r.cancelled,
		Config: domain.WorkflowConfig{
			MaxIterations:  r.req.MaxIterations,
			ScoreThreshold: r.req.ScoreThreshold,
			InitialPrompt:  r.req.Prompt,
		},
		StartedAt: start.UTC(),
		Duration:  time.Since(start).Seconds(),
	}
	if result.Iterations == nil {
		result.Iterations = []domain.IterationRecord{}
	}

	r.logger.Info("refinement workflow complete",
		zap.Int("iterations", result.IterationsCount),
		zap.Float64("best_score", result.FinalScore),
		zap.Bool("threshold_met", result.ThresholdMet),
		zap.String("outcome", r.outcome),
	)
	return result
}

// iterate выполняет одну итерацию и говорит, закончен ли запуск
func (r *workflowRun) iterate(ctx context.Context, i int) bool {
	started := time.Now()
	rec := domain.IterationRecord{
		Index:     i,
		Prompt:    r.prompt,
		StartedAt: started.UTC(),
	}
	log := r.logger.With(zap.Int("iteration", i))

	finish := func(status domain.IterationStatus) {
		rec.Status = status
		rec.Duration = time.Since(started).Seconds()
		r.records = append(r.records, rec)
	}

	gen, err := r.generator.Generate(ctx, domain.GenerationRequest{
		Prompt:      r.prompt,
		MediaType:   r.req.MediaType,
		AspectRatio: r.req.AspectRatio,
		Style:       r.req.Style,
		Brand:       r.req.Brand,
	})
	if err != nil {
		log.Error("generation error", zap.Error(err))
		rec.Generation = &domain.GenerationResult{Success: false, Error: err.Error()}
		if ctx.Err() != nil {
			r.markCancelled()
			finish(domain.StatusCancelled)
			return true
		}
		r.outcome = outcomeGenerationFailed
		finish(domain.StatusGenerationError)
		return true
	}
	rec.Generation = gen
	if !gen.Success {
		log.Error("generation failed", zap.String("error", gen.Error))
		r.outcome = outcomeGenerationFailed
		finish(domain.StatusGenerationFailed)
		return true
	}

	if ctx.Err() != nil {
		r.markCancelled()
		finish(domain.StatusCancelled)
		return true
	}

	desc, err := r.describer.Describe(ctx, gen.ImagePath)
	if err != nil {
		log.Warn("description failed", zap.Error(err))
		rec.Errors = append(rec.Errors, fmt.Sprintf("description: %v", err))
		desc = nil
	}
	rec.Description = desc

	if ctx.Err() != nil {
		r.markCancelled()
		finish(domain.StatusCancelled)
		return true
	}

	score := 0.0
	critique, err := r.critic.CritiqueImage(ctx, CritiqueRequest{
		ImagePath:   gen.ImagePath,
		Brand:       r.req.Brand,
		Description: desc.Summary(),
		Category:    r.req.Category,
	})
	if err != nil {
		log.Warn("critique failed", zap.Error(err))
		rec.Errors = append(rec.Errors, fmt.Sprintf("critique: %v", err))
		critique = nil
	} else {
		score = critique.OverallScore
	}
	rec.Critique = critique
	rec.OverallScore = score

	log.Info("iteration scored",
		zap.Float64("score", score),
		zap.Float64("threshold", r.req.ScoreThreshold),
	)

	// ничьи не заменяют лучшего: выигрывает более ранняя итерация
	if score > r.bestScore {
		r.bestScore = score
		r.best = &domain.BestAd{
			Iteration:   i,
			ImagePath:   gen.ImagePath,
			Score:       score,
			Critique:    critique,
			Description: desc,
			Prompt:      r.prompt,
		}
	}

	if ctx.Err() != nil {
		r.markCancelled()
		finish(domain.StatusCancelled)
		return true
	}

	if score >= r.req.ScoreThreshold {
		rec.Reason = "threshold_met"
		r.outcome = outcomeThresholdMet
		finish(domain.StatusSuccess)
		return true
	}

	if i >= r.req.MaxIterations {
		r.outcome = outcomeMaxIterations
		finish(domain.StatusMaxIterations)
		return true
	}

	refinement, err := r.refiner.Refine(ctx, RefineRequest{
		Prompt:      r.prompt,
		Critique:    critique,
		Description: desc,
		Brand:       r.req.Brand,
		Iteration:   i,
	})
	if err != nil {
		log.Warn("refinement failed", zap.Error(err))
		rec.Errors = append(rec.Errors, fmt.Sprintf("refinement: %v", err))
	} else {
		rec.Refinement = refinement
		if refinement.ImprovedPrompt != "" {
			r.prompt = refinement.ImprovedPrompt
		}
		log.Debug("prompt refined", zap.String("prompt", truncateBytes(r.prompt, 50)))
	}

	finish(domain.StatusRefined)
	return false
}

func (r *workflowRun) markCancelled() {
	r.cancelled = true
	r.outcome = outcomeCancelled
	r.logger.Warn("refinement workflow cancelled", zap.Int("completed_iterations", len(r.records)))
}
