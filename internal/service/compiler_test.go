package service

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/kitbuilder587/ad-critic/internal/domain"
)

func f(v float64) *float64 { return &v }

func dim(score, confidence float64) *DimensionPayload {
	return &DimensionPayload{Score: f(score), Confidence: f(confidence)}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCompiler_WeightedOverall(t *testing.T) {
	c := NewCompiler(domain.DefaultCritiqueThresholds())

	critique := c.Compile(CompileInput{
		Visual: domain.VisualMetrics{Sharpness: 0.6, Composition: 0.9},
		Payload: OraclePayload{
			BrandAlignment: dim(0.8, 0.9),
			VisualQuality:  dim(0.6, 0.9),
			MessageClarity: dim(0.7, 0.9),
			SafetyEthics:   dim(0.9, 0.9),
		},
		AIAvailable: true,
	})

	if !almostEqual(critique.VisualQuality.Score, 0.7) {
		t.Errorf("visual = %v, want 0.7", critique.VisualQuality.Score)
	}
	want := 0.30*0.8 + 0.25*0.7 + 0.25*0.7 + 0.20*0.9
	if !almostEqual(critique.OverallScore, want) {
		t.Errorf("OverallScore = %v, want %v", critique.OverallScore, want)
	}
	got := OverallScore(critique.BrandAlignment.Score, critique.VisualQuality.Score,
		critique.MessageClarity.Score, critique.SafetyEthics.Score)
	if !almostEqual(critique.OverallScore, got) {
		t.Errorf("OverallScore = %v, recomputed %v", critique.OverallScore, got)
	}
	if critique.OverallLevel != domain.LevelGood {
		t.Errorf("OverallLevel = %v, want good", critique.OverallLevel)
	}
	if critique.CritiqueID == "" || critique.CreatedAt.IsZero() {
		t.Error("critique id and created_at should be set")
	}
}

func TestCompiler_DeploymentGate(t *testing.T) {
	c := NewCompiler(domain.DefaultCritiqueThresholds())
	visual := domain.VisualMetrics{Sharpness: 0.95, Composition: 0.95}

	tests := []struct {
		name   string
		safety float64
		ready  bool
	}{
		{"unsafe blocks deploy", 0.50, false},
		{"all high", 0.95, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			critique := c.Compile(CompileInput{
				Visual: visual,
				Payload: OraclePayload{
					BrandAlignment: dim(0.95, 0.9),
					VisualQuality:  dim(0.95, 0.9),
					MessageClarity: dim(0.95, 0.9),
					SafetyEthics:   dim(tt.safety, 0.9),
				},
			})
			if critique.ReadyToDeploy != tt.ready {
				t.Errorf("ReadyToDeploy = %v, want %v", critique.ReadyToDeploy, tt.ready)
			}
			wantStatus := domain.ApprovalPending
			if tt.ready {
				wantStatus = domain.ApprovalApproved
			}
			if critique.ApprovalStatus != wantStatus {
				t.Errorf("ApprovalStatus = %v, want %v", critique.ApprovalStatus, wantStatus)
			}
		})
	}
}

func TestCompiler_ConfidenceGating(t *testing.T) {
	c := NewCompiler(domain.DefaultCritiqueThresholds())

	tests := []struct {
		confidence float64
		review     bool
	}{
		{0.65, false},
		{0.649, true},
		{0.9, false},
	}

	for _, tt := range tests {
		critique := c.Compile(CompileInput{
			Payload: OraclePayload{
				BrandAlignment:    dim(0.8, 0.9),
				VisualQuality:     dim(0.8, 0.6),
				MessageClarity:    dim(0.8, 0.9),
				SafetyEthics:      dim(0.95, 0.9),
				OverallConfidence: f(tt.confidence),
			},
		})
		if critique.NeedsManualReview != tt.review {
			t.Errorf("confidence %v: NeedsManualReview = %v, want %v", tt.confidence, critique.NeedsManualReview, tt.review)
		}
		if !reflect.DeepEqual(critique.LowConfidenceAreas, []string{"visual_quality"}) {
			t.Errorf("LowConfidenceAreas = %v", critique.LowConfidenceAreas)
		}

		issues := critique.Issues
		if tt.review {
			if len(issues) == 0 || !strings.Contains(issues[0], "65%") || !strings.Contains(issues[0], "visual_quality") {
				t.Errorf("first issue should be the review warning, got %v", issues)
			}
		} else if critique.ReviewWarning != "" {
			t.Errorf("unexpected review warning %q", critique.ReviewWarning)
		}
	}

	// без overall_confidence от оракула уверенность - среднее по измерениям
	means := []struct {
		name       string
		confidence [4]float64
		want       float64
		review     bool
	}{
		{"mean exactly at cutoff", [4]float64{0.6, 0.7, 0.6, 0.7}, 0.65, false},
		{"uneven mean at cutoff", [4]float64{0.55, 0.75, 0.6, 0.7}, 0.65, false},
		{"mean below cutoff", [4]float64{0.6, 0.6, 0.6, 0.7}, 0.625, true},
	}

	for _, tt := range means {
		t.Run(tt.name, func(t *testing.T) {
			critique := c.Compile(CompileInput{
				Payload: OraclePayload{
					BrandAlignment: dim(0.8, tt.confidence[0]),
					VisualQuality:  dim(0.8, tt.confidence[1]),
					MessageClarity: dim(0.8, tt.confidence[2]),
					SafetyEthics:   dim(0.95, tt.confidence[3]),
				},
			})
			if critique.OverallConfidence != tt.want {
				t.Errorf("OverallConfidence = %v, want %v", critique.OverallConfidence, tt.want)
			}
			if critique.NeedsManualReview != tt.review {
				t.Errorf("NeedsManualReview = %v, want %v", critique.NeedsManualReview, tt.review)
			}
		})
	}
}

func TestCompiler_ReviewWarningInSerializedIssues(t *testing.T) {
	c := NewCompiler(domain.DefaultCritiqueThresholds())

	critique := c.Compile(CompileInput{
		Visual: domain.VisualMetrics{HasWatermark: true},
		Payload: OraclePayload{
			BrandAlignment: &DimensionPayload{Score: f(0.8), Confidence: f(0.3), Issues: []string{"logo too small"}},
			VisualQuality:  dim(0.8, 0.3),
			MessageClarity: dim(0.8, 0.3),
			SafetyEthics:   dim(0.95, 0.3),
		},
	})

	raw, err := json.Marshal(critique)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Issues []string `json:"issues"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}

	if len(decoded.Issues) != 3 {
		t.Fatalf("issues = %v, want warning + 2 dimension issues", decoded.Issues)
	}
	if !strings.HasPrefix(decoded.Issues[0], "Manual review recommended") || !strings.Contains(decoded.Issues[0], "30%") {
		t.Errorf("first issue = %q, want review warning", decoded.Issues[0])
	}
	if decoded.Issues[1] != "logo too small" || decoded.Issues[2] != "Watermark detected" {
		t.Errorf("dimension issues = %v", decoded.Issues[1:])
	}

	confident := c.Compile(CompileInput{Payload: OraclePayload{OverallConfidence: f(0.9)}})
	raw, err = json.Marshal(confident)
	if err != nil {
		t.Fatal(err)
	}
	decoded.Issues = nil
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Issues == nil || len(decoded.Issues) != 0 {
		t.Errorf("confident critique issues = %#v, want empty list", decoded.Issues)
	}
}

func TestCompiler_MissingValuesAreNeutral(t *testing.T) {
	c := NewCompiler(domain.DefaultCritiqueThresholds())

	critique := c.Compile(CompileInput{
		Visual: domain.VisualMetrics{Sharpness: 0.5, Composition: 0.5},
	})

	for _, d := range domain.Dimensions {
		ds := critique.Dimension(d)
		if !almostEqual(ds.Score, 0.5) || ds.Confidence != 0.5 {
			t.Errorf("%s = %+v, want neutral 0.5", d, ds)
		}
	}
	if critique.OverallConfidence != 0.5 {
		t.Errorf("OverallConfidence = %v, want 0.5", critique.OverallConfidence)
	}
	if !critique.NeedsManualReview {
		t.Error("neutral confidence should require manual review")
	}
	if len(critique.LowConfidenceAreas) != 4 {
		t.Errorf("LowConfidenceAreas = %v, want all four", critique.LowConfidenceAreas)
	}
}

func TestCompiler_BrandBlendAndWatermark(t *testing.T) {
	c := NewCompiler(domain.DefaultCritiqueThresholds())
	brand := &domain.BrandKit{BrandID: "acme", BrandName: "Acme"}

	critique := c.Compile(CompileInput{
		Brand:  brand,
		Visual: domain.VisualMetrics{Sharpness: 1, Composition: 1, HasWatermark: true},
		Color:  domain.ColorProfile{BrandMatch: 0.2},
		Payload: OraclePayload{
			BrandAlignment: dim(0.8, 0.9),
			VisualQuality:  dim(1.7, 0.9),
		},
	})

	if !almostEqual(critique.BrandAlignment.Score, 0.5) {
		t.Errorf("brand = %v, want 0.5", critique.BrandAlignment.Score)
	}
	if critique.VisualQuality.Score != 1 {
		t.Errorf("visual = %v, want clamped 1", critique.VisualQuality.Score)
	}
	if critique.BrandID != "acme" {
		t.Errorf("BrandID = %q", critique.BrandID)
	}

	found := false
	for _, issue := range critique.VisualQuality.Issues {
		if issue == "Watermark detected" {
			found = true
		}
	}
	if !found {
		t.Errorf("visual issues = %v, want watermark issue", critique.VisualQuality.Issues)
	}
}

func TestCompiler_NoBrandKeepsOracleScore(t *testing.T) {
	c := NewCompiler(domain.DefaultCritiqueThresholds())

	critique := c.Compile(CompileInput{
		Color:   domain.ColorProfile{BrandMatch: 0},
		Payload: OraclePayload{BrandAlignment: dim(0.8, 0.9)},
	})
	if !almostEqual(critique.BrandAlignment.Score, 0.8) {
		t.Errorf("brand = %v, want oracle score 0.8", critique.BrandAlignment.Score)
	}
}

func TestCompiler_ImprovementsAndElements(t *testing.T) {
	c := NewCompiler(domain.DefaultCritiqueThresholds())

	critique := c.Compile(CompileInput{
		Payload: OraclePayload{
			BrandAlignment:   &DimensionPayload{Suggestions: []string{"bigger logo"}},
			MessageClarity:   &DimensionPayload{Suggestions: []string{"add cta"}},
			SafetyEthics:     &DimensionPayload{Suggestions: []string{"remove smoke"}},
			DetectedElements: map[string]any{"has_logo": true},
		},
		AIAvailable: true,
	})

	want := []string{"bigger logo", "add cta", "remove smoke"}
	if !reflect.DeepEqual(critique.ImprovementsNeeded, want) {
		t.Errorf("ImprovementsNeeded = %v, want %v", critique.ImprovementsNeeded, want)
	}
	if critique.DetectedElements["has_logo"] != true {
		t.Error("oracle elements should be kept")
	}
	if !critique.AIAnalysisAvailable() {
		t.Error("AIAnalysisAvailable() = false")
	}
	if _, ok := critique.DetectedElements["color_analysis"].(domain.ColorProfile); !ok {
		t.Error("color_analysis missing")
	}
	if _, ok := critique.DetectedElements["visual_analysis"].(domain.VisualMetrics); !ok {
		t.Error("visual_analysis missing")
	}
}

func TestCompiler_Fallback(t *testing.T) {
	c := NewCompiler(domain.DefaultCritiqueThresholds())
	visual := domain.VisualMetrics{Sharpness: 0.4, Composition: 0.8, Contrast: 0.3}

	critique := c.Compile(CompileInput{
		Visual:  visual,
		Payload: c.FallbackPayload(visual),
	})

	if critique.AIAnalysisAvailable() {
		t.Error("fallback critique must report ai_analysis_available = false")
	}
	if !almostEqual(critique.BrandAlignment.Score, 0.5) {
		t.Errorf("brand = %v, want 0.5", critique.BrandAlignment.Score)
	}
	if !almostEqual(critique.SafetyEthics.Score, 0.7) {
		t.Errorf("safety = %v, want 0.7", critique.SafetyEthics.Score)
	}
	if !almostEqual(critique.VisualQuality.Score, 0.6) {
		t.Errorf("visual = %v, want 0.6", critique.VisualQuality.Score)
	}
	if !almostEqual(critique.MessageClarity.Score, 0.3) {
		t.Errorf("clarity = %v, want contrast 0.3", critique.MessageClarity.Score)
	}
	if !critique.NeedsManualReview || critique.ReadyToDeploy {
		t.Errorf("fallback: review=%v ready=%v", critique.NeedsManualReview, critique.ReadyToDeploy)
	}
	if critique.OverallAssessment != "AI analysis failed - manual review required" {
		t.Errorf("OverallAssessment = %q", critique.OverallAssessment)
	}
}

func TestCompiler_FallbackUsesConfiguredConstants(t *testing.T) {
	th := domain.DefaultCritiqueThresholds()
	th.FallbackBrand = 0.4
	th.FallbackSafety = 0.8
	c := NewCompiler(th)

	critique := c.Compile(CompileInput{Payload: c.FallbackPayload(domain.VisualMetrics{})})
	if !almostEqual(critique.BrandAlignment.Score, 0.4) || !almostEqual(critique.SafetyEthics.Score, 0.8) {
		t.Errorf("brand=%v safety=%v", critique.BrandAlignment.Score, critique.SafetyEthics.Score)
	}
}
