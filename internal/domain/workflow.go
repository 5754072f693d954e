package domain

import (
	"fmt"
	"strings"
	"time"
)

type IterationStatus string

const (
	StatusRefined          IterationStatus = "refined"
	StatusSuccess          IterationStatus = "success"
	StatusGenerationFailed IterationStatus = "generation_failed"
	StatusGenerationError  IterationStatus = "generation_error"
	StatusMaxIterations    IterationStatus = "max_iterations"
	StatusCancelled        IterationStatus = "cancelled"
)

// лимиты запуска
const (
	DefaultMaxIterations  = 3
	MaxAllowedIterations  = 10
	DefaultScoreThreshold = 0.75
)

// WorkflowRequest - параметры одного запуска. Нулевые MaxIterations и
// ScoreThreshold означают значения по умолчанию (SCORE_THRESHOLD или 0.75),
// поэтому порог 0 задать нельзя: минимальный осмысленный порог - 0.001.
type WorkflowRequest struct {
	Prompt         string    `json:"prompt"`
	BrandID        string    `json:"brand_id,omitempty"`
	Brand          *BrandKit `json:"-"`
	MaxIterations  int       `json:"max_iterations"`
	ScoreThreshold float64   `json:"score_threshold"`
	AspectRatio    string    `json:"aspect_ratio"`
	MediaType      MediaType `json:"media_type"`
	Style          string    `json:"style,omitempty"`
	Category       string    `json:"category,omitempty"`
}

// ApplyDefaults заполняет пустые поля значениями по умолчанию
func (r *WorkflowRequest) ApplyDefaults() {
	if r.MaxIterations == 0 {
		r.MaxIterations = DefaultMaxIterations
	}
	if r.ScoreThreshold == 0 {
		r.ScoreThreshold = DefaultScoreThreshold
	}
	if r.MediaType == "" {
		r.MediaType = MediaImage
	}
	if r.Style == "" {
		r.Style = "modern"
	}
	r.AspectRatio = NormalizeAspectRatio(r.AspectRatio)
}

func (r *WorkflowRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return ErrEmptyPrompt
	}
	if r.MaxIterations < 1 || r.MaxIterations > MaxAllowedIterations {
		return ErrInvalidMaxIterations
	}
	if r.ScoreThreshold < 0 || r.ScoreThreshold > 1 {
		return ErrInvalidThreshold
	}
	if !r.MediaType.IsValid() {
		return ErrInvalidMediaType
	}
	return nil
}

type IterationRecord struct {
	Index        int               `json:"iteration"`
	Prompt       string            `json:"prompt"`
	Generation   *GenerationResult `json:"generation_result"`
	Description  *AdDescription    `json:"description"`
	Critique     *Critique         `json:"critique"`
	Refinement   *Refinement       `json:"refinement,omitempty"`
	OverallScore float64           `json:"overall_score"`
	Status       IterationStatus   `json:"status"`
	Reason       string            `json:"reason,omitempty"`
	Errors       []string          `json:"errors,omitempty"`
	StartedAt    time.Time         `json:"started_at"`
	Duration     float64           `json:"duration"` // секунды
}

type BestAd struct {
	Iteration   int            `json:"iteration"`
	ImagePath   string         `json:"image_path"`
	Score       float64        `json:"score"`
	Critique    *Critique      `json:"critique"`
	Description *AdDescription `json:"description"`
	Prompt      string         `json:"prompt"`
}

type WorkflowConfig struct {
	MaxIterations  int     `json:"max_iterations"`
	ScoreThreshold float64 `json:"score_threshold"`
	InitialPrompt  string  `json:"initial_prompt"`
}

type WorkflowResult struct {
	RunID           string            `json:"run_id"`
	Success         bool              `json:"success"`
	IterationsCount int               `json:"iterations_count"`
	Iterations      []IterationRecord `json:"iterations"`
	BestAd          *BestAd           `json:"best_ad"`
	FinalScore      float64           `json:"final_score"`
	ThresholdMet    bool              `json:"threshold_met"`
	Cancelled       bool              `json:"cancelled,omitempty"`
	Config          WorkflowConfig    `json:"config"`
	StartedAt       time.Time         `json:"started_at"`
	Duration        float64           `json:"duration"` // секунды
}

// Summary - человекочитаемая сводка по итерациям
func (r *WorkflowResult) Summary() string {
	var sb strings.Builder

	sb.WriteString("=== Multi-Agent Workflow Summary ===\n")
	fmt.Fprintf(&sb, "Total Iterations: %d\n", len(r.Iterations))
	fmt.Fprintf(&sb, "Best Score: %.2f\n", r.FinalScore)
	if r.ThresholdMet {
		sb.WriteString("Threshold Met: Yes\n")
	} else {
		sb.WriteString("Threshold Met: No\n")
	}
	fmt.Fprintf(&sb, "Duration: %.1fs\n", r.Duration)
	sb.WriteString("\nIteration Breakdown:\n")

	for _, it := range r.Iterations {
		fmt.Fprintf(&sb, "  [%d] Score: %.2f - Status: %s\n", it.Index, it.OverallScore, it.Status)
		if it.Refinement != nil && len(it.Refinement.ChangesMade) > 0 {
			changes := it.Refinement.ChangesMade
			if len(changes) > 3 {
				changes = changes[:3]
			}
			fmt.Fprintf(&sb, "      Changes: %s\n", strings.Join(changes, ", "))
		}
	}

	if r.BestAd != nil {
		fmt.Fprintf(&sb, "\nBest Ad: Iteration %d (%.2f)\n", r.BestAd.Iteration, r.BestAd.Score)
		fmt.Fprintf(&sb, "Path: %s\n", r.BestAd.ImagePath)
	}

	return strings.TrimRight(sb.String(), "\n")
}
