package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kitbuilder587/ad-critic/internal/domain"
)

// неизвестная оценка или уверенность оракула - нейтральная, а не провальная
const neutralScore = 0.5

// DimensionPayload - ответ оракула по одному измерению. Отсутствующие
// score и confidence остаются nil и заменяются нейтральным значением.
type DimensionPayload struct {
	Score       *float64 `json:"score"`
	Confidence  *float64 `json:"confidence"`
	Feedback    string   `json:"feedback"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

// OraclePayload - разобранный JSON критики от оракула
type OraclePayload struct {
	BrandAlignment    *DimensionPayload `json:"brand_alignment"`
	VisualQuality     *DimensionPayload `json:"visual_quality"`
	MessageClarity    *DimensionPayload `json:"message_clarity"`
	SafetyEthics      *DimensionPayload `json:"safety_ethics"`
	OverallConfidence *float64          `json:"overall_confidence"`
	DetectedElements  map[string]any    `json:"detected_elements"`
	OverallAssessment string            `json:"overall_assessment"`
}

func (p *OraclePayload) dimension(d domain.Dimension) *DimensionPayload {
	var dp *DimensionPayload
	switch d {
	case domain.DimensionBrand:
		dp = p.BrandAlignment
	case domain.DimensionVisual:
		dp = p.VisualQuality
	case domain.DimensionClarity:
		dp = p.MessageClarity
	case domain.DimensionSafety:
		dp = p.SafetyEthics
	}
	if dp == nil {
		return &DimensionPayload{}
	}
	return dp
}

// CompileInput - все, что нужно для сборки одной критики
type CompileInput struct {
	ImagePath   string
	Brand       *domain.BrandKit
	Visual      domain.VisualMetrics
	Color       domain.ColorProfile
	Payload     OraclePayload
	AIAvailable bool
}

// Compiler сводит метрики и ответ оракула в итоговую критику
type Compiler struct {
	thresholds domain.CritiqueThresholds
	now        func() time.Time
}

func NewCompiler(thresholds domain.CritiqueThresholds) *Compiler {
	return &Compiler{thresholds: thresholds, now: time.Now}
}

func (c *Compiler) Thresholds() domain.CritiqueThresholds {
	return c.thresholds
}

func (c *Compiler) Compile(in CompileInput) *domain.Critique {
	p := &in.Payload

	brand := dimensionScore(p.dimension(domain.DimensionBrand))
	if in.Brand != nil {
		brand.Score = (brand.Score + in.Color.BrandMatch) / 2
	}

	visual := dimensionScore(p.dimension(domain.DimensionVisual))
	visual.Score = (visual.Score + in.Visual.Sharpness + in.Visual.Composition) / 3
	if in.Visual.HasWatermark {
		visual.Issues = append(visual.Issues, "Watermark detected")
	}

	clarity := dimensionScore(p.dimension(domain.DimensionClarity))
	safety := dimensionScore(p.dimension(domain.DimensionSafety))

	for _, ds := range []*domain.DimensionScore{&brand, &visual, &clarity, &safety} {
		ds.Score = clamp01(ds.Score)
		ds.Level = domain.LevelFor(ds.Score)
	}

	overall := OverallScore(brand.Score, visual.Score, clarity.Score, safety.Score)

	confidence := (brand.Confidence + visual.Confidence + clarity.Confidence + safety.Confidence) / 4
	if p.OverallConfidence != nil {
		confidence = *p.OverallConfidence
	}
	// среднее 0.6, 0.7, 0.6, 0.7 дает 0.6499999..., граница строгая
	confidence = round3(clamp01(confidence))

	critique := &domain.Critique{
		CritiqueID:         uuid.NewString(),
		AdURL:              in.ImagePath,
		BrandAlignment:     brand,
		VisualQuality:      visual,
		MessageClarity:     clarity,
		SafetyEthics:       safety,
		OverallScore:       overall,
		OverallLevel:       domain.LevelFor(overall),
		OverallConfidence:  confidence,
		NeedsManualReview:  confidence < c.thresholds.ReviewConfidence,
		LowConfidenceAreas: []string{},
		OverallAssessment:  p.OverallAssessment,
		CreatedAt:          c.now().UTC(),
	}
	if in.Brand != nil {
		critique.BrandID = in.Brand.BrandID
	}

	for _, d := range domain.Dimensions {
		if critique.Dimension(d).Confidence < c.thresholds.LowConfidence {
			critique.LowConfidenceAreas = append(critique.LowConfidenceAreas, string(d))
		}
	}

	critique.ReadyToDeploy = brand.Score >= c.thresholds.MinBrand &&
		visual.Score >= c.thresholds.MinQuality &&
		safety.Score >= c.thresholds.MinSafety &&
		clarity.Score >= c.thresholds.MinClarity

	critique.ApprovalStatus = domain.ApprovalPending
	if critique.ReadyToDeploy {
		critique.ApprovalStatus = domain.ApprovalApproved
	}

	if critique.NeedsManualReview {
		critique.ReviewWarning = reviewWarning(confidence, critique.LowConfidenceAreas)
	}

	critique.Issues = critique.CollectIssues()

	critique.ImprovementsNeeded = []string{}
	for _, d := range domain.Dimensions {
		critique.ImprovementsNeeded = append(critique.ImprovementsNeeded, critique.Dimension(d).Suggestions...)
	}

	critique.DetectedElements = make(map[string]any, len(p.DetectedElements)+3)
	for k, v := range p.DetectedElements {
		critique.DetectedElements[k] = v
	}
	critique.DetectedElements["ai_analysis_available"] = in.AIAvailable
	critique.DetectedElements["color_analysis"] = in.Color
	critique.DetectedElements["visual_analysis"] = in.Visual

	return critique
}

// FallbackPayload - детерминированная критика без оракула. Бренд и
// безопасность нейтральны, визуал и ясность берутся из метрик изображения.
func (c *Compiler) FallbackPayload(visual domain.VisualMetrics) OraclePayload {
	brand := c.thresholds.FallbackBrand
	safety := c.thresholds.FallbackSafety
	quality := (visual.Sharpness + visual.Composition) / 2
	clarity := clamp01(visual.Contrast)

	return OraclePayload{
		BrandAlignment: &DimensionPayload{
			Score:       &brand,
			Feedback:    "AI analysis unavailable - manual review recommended",
			Issues:      []string{"Could not perform AI analysis"},
			Suggestions: []string{"Review manually"},
		},
		VisualQuality: &DimensionPayload{
			Score:    &quality,
			Feedback: "AI analysis unavailable - score derived from sharpness and composition",
		},
		MessageClarity: &DimensionPayload{
			Score:    &clarity,
			Feedback: "AI analysis unavailable - score derived from image contrast",
		},
		SafetyEthics: &DimensionPayload{
			Score:       &safety,
			Feedback:    "AI analysis unavailable - manual safety review required",
			Issues:      []string{"Manual review needed"},
			Suggestions: []string{"Conduct manual safety review"},
		},
		DetectedElements:  map[string]any{},
		OverallAssessment: "AI analysis failed - manual review required",
	}
}

// OverallScore - фиксированная взвешенная сумма измерений
func OverallScore(brand, visual, clarity, safety float64) float64 {
	return domain.WeightBrand*brand +
		domain.WeightVisual*visual +
		domain.WeightClarity*clarity +
		domain.WeightSafety*safety
}

func dimensionScore(p *DimensionPayload) domain.DimensionScore {
	ds := domain.DimensionScore{
		Score:       neutralScore,
		Confidence:  neutralScore,
		Feedback:    p.Feedback,
		Issues:      append([]string{}, p.Issues...),
		Suggestions: append([]string{}, p.Suggestions...),
	}
	if p.Score != nil {
		ds.Score = *p.Score
	}
	if p.Confidence != nil {
		ds.Confidence = clamp01(*p.Confidence)
	}
	return ds
}

func reviewWarning(confidence float64, areas []string) string {
	msg := fmt.Sprintf("Manual review recommended: overall confidence %.0f%%", confidence*100)
	if len(areas) > 0 {
		msg += " (low confidence in: " + strings.Join(areas, ", ") + ")"
	}
	return msg
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
