package domain

import (
	"errors"
	"testing"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		score float64
		want  ScoreLevel
	}{
		{1.0, LevelExcellent},
		{0.85, LevelExcellent},
		{0.849, LevelGood},
		{0.70, LevelGood},
		{0.699, LevelFair},
		{0.50, LevelFair},
		{0.499, LevelPoor},
		{0, LevelPoor},
	}

	for _, tt := range tests {
		if got := LevelFor(tt.score); got != tt.want {
			t.Errorf("LevelFor(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestWeightsSumToOne(t *testing.T) {
	sum := WeightBrand + WeightVisual + WeightClarity + WeightSafety
	if sum < 0.9999 || sum > 1.0001 {
		t.Errorf("weights sum = %v, want 1", sum)
	}
}

func TestCritiqueThresholds_Validate(t *testing.T) {
	valid := DefaultCritiqueThresholds()
	if err := valid.Validate(); err != nil {
		t.Fatalf("default thresholds invalid: %v", err)
	}

	bad := DefaultCritiqueThresholds()
	bad.MinSafety = 1.2
	if err := bad.Validate(); !errors.Is(err, ErrInvalidThreshold) {
		t.Errorf("Validate() error = %v, want ErrInvalidThreshold", err)
	}

	neg := DefaultCritiqueThresholds()
	neg.FallbackBrand = -0.1
	if err := neg.Validate(); !errors.Is(err, ErrInvalidThreshold) {
		t.Errorf("Validate() error = %v, want ErrInvalidThreshold", err)
	}
}

func TestCritique_Accessors(t *testing.T) {
	c := Critique{
		BrandAlignment: DimensionScore{Score: 0.1, Issues: []string{"a"}},
		VisualQuality:  DimensionScore{Score: 0.2, Issues: []string{"b", "c"}},
		MessageClarity: DimensionScore{Score: 0.3},
		SafetyEthics:   DimensionScore{Score: 0.4, Issues: []string{"d"}},
	}

	for i, d := range Dimensions {
		want := float64(i+1) / 10
		if got := c.Dimension(d).Score; got != want {
			t.Errorf("Dimension(%s).Score = %v, want %v", d, got, want)
		}
	}

	issues := c.CollectIssues()
	if len(issues) != 4 || issues[0] != "a" || issues[3] != "d" {
		t.Errorf("CollectIssues() = %v", issues)
	}

	c.ReviewWarning = "low confidence"
	if issues := c.CollectIssues(); len(issues) != 5 || issues[0] != "low confidence" {
		t.Errorf("CollectIssues() with warning = %v", issues)
	}

	if c.AIAnalysisAvailable() {
		t.Error("AIAnalysisAvailable() = true without detected elements")
	}
	c.DetectedElements = map[string]any{"ai_analysis_available": true}
	if !c.AIAnalysisAvailable() {
		t.Error("AIAnalysisAvailable() = false, want true")
	}
}
