package domain

import (
	"time"
)

type ScoreLevel string

const (
	LevelExcellent ScoreLevel = "excellent"
	LevelGood      ScoreLevel = "good"
	LevelFair      ScoreLevel = "fair"
	LevelPoor      ScoreLevel = "poor"
)

// LevelFor переводит численную оценку в категорию
func LevelFor(score float64) ScoreLevel {
	switch {
	case score >= 0.85:
		return LevelExcellent
	case score >= 0.70:
		return LevelGood
	case score >= 0.50:
		return LevelFair
	default:
		return LevelPoor
	}
}

type Dimension string

const (
	DimensionBrand   Dimension = "brand_alignment"
	DimensionVisual  Dimension = "visual_quality"
	DimensionClarity Dimension = "message_clarity"
	DimensionSafety  Dimension = "safety_ethics"
)

// Dimensions в порядке, в котором они идут в отчете
var Dimensions = []Dimension{DimensionBrand, DimensionVisual, DimensionClarity, DimensionSafety}

// веса итоговой оценки
const (
	WeightBrand   = 0.30
	WeightVisual  = 0.25
	WeightClarity = 0.25
	WeightSafety  = 0.20
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
)

type DimensionScore struct {
	Score       float64    `json:"score"`
	Level       ScoreLevel `json:"level"`
	Confidence  float64    `json:"confidence"`
	Feedback    string     `json:"feedback"`
	Issues      []string   `json:"issues"`
	Suggestions []string   `json:"suggestions"`
}

// Critique - результат одной оценки изображения. После создания не меняется.
type Critique struct {
	CritiqueID string `json:"critique_id"`
	AdURL      string `json:"ad_url"`
	BrandID    string `json:"brand_id,omitempty"`

	BrandAlignment DimensionScore `json:"brand_alignment"`
	VisualQuality  DimensionScore `json:"visual_quality"`
	MessageClarity DimensionScore `json:"message_clarity"`
	SafetyEthics   DimensionScore `json:"safety_ethics"`

	OverallScore       float64        `json:"overall_score"`
	OverallLevel       ScoreLevel     `json:"overall_level"`
	OverallConfidence  float64        `json:"overall_confidence"`
	ReadyToDeploy      bool           `json:"ready_to_deploy"`
	NeedsManualReview  bool           `json:"needs_manual_review"`
	LowConfidenceAreas []string       `json:"low_confidence_areas"`
	ReviewWarning      string         `json:"review_warning,omitempty"`
	// Issues - проблемы всех измерений, предупреждение о ручной проверке первым
	Issues             []string       `json:"issues"`
	ApprovalStatus     ApprovalStatus `json:"approval_status"`

	DetectedElements   map[string]any `json:"detected_elements"`
	ImprovementsNeeded []string       `json:"improvements_needed"`
	OverallAssessment  string         `json:"overall_assessment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Dimension возвращает оценку по имени измерения
func (c *Critique) Dimension(d Dimension) DimensionScore {
	switch d {
	case DimensionBrand:
		return c.BrandAlignment
	case DimensionVisual:
		return c.VisualQuality
	case DimensionClarity:
		return c.MessageClarity
	case DimensionSafety:
		return c.SafetyEthics
	}
	return DimensionScore{}
}

// AIAnalysisAvailable - false, если критика собрана по fallback
func (c *Critique) AIAnalysisAvailable() bool {
	v, ok := c.DetectedElements["ai_analysis_available"].(bool)
	return ok && v
}

// CollectIssues собирает проблемы по всем измерениям, предупреждение о ручной проверке первым
func (c *Critique) CollectIssues() []string {
	out := []string{}
	if c.ReviewWarning != "" {
		out = append(out, c.ReviewWarning)
	}
	for _, d := range Dimensions {
		out = append(out, c.Dimension(d).Issues...)
	}
	return out
}

// CritiqueThresholds - минимальные оценки для выкатки и пороги уверенности.
type CritiqueThresholds struct {
	MinBrand   float64
	MinQuality float64
	MinSafety  float64
	MinClarity float64

	ReviewConfidence float64 // ниже - ручная проверка (строго <)
	LowConfidence    float64 // ниже - измерение попадает в low_confidence_areas

	FallbackBrand  float64
	FallbackSafety float64
}

func DefaultCritiqueThresholds() CritiqueThresholds {
	return CritiqueThresholds{
		MinBrand:         0.70,
		MinQuality:       0.60,
		MinSafety:        0.90,
		MinClarity:       0.70,
		ReviewConfidence: 0.65,
		LowConfidence:    0.70,
		FallbackBrand:    0.5,
		FallbackSafety:   0.7,
	}
}

func (t *CritiqueThresholds) Validate() error {
	for _, v := range []float64{
		t.MinBrand, t.MinQuality, t.MinSafety, t.MinClarity,
		t.ReviewConfidence, t.LowConfidence, t.FallbackBrand, t.FallbackSafety,
	} {
		if v < 0 || v > 1 {
			return ErrInvalidThreshold
		}
	}
	return nil
}
