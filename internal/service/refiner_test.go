package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/llm"
	llmMock "github.com/kitbuilder587/ad-critic/internal/llm/mock"
	"github.com/kitbuilder587/ad-critic/internal/llm/offline"
)

func critiqueWithScores(brand, visual, clarity, safety float64) *domain.Critique {
	return &domain.Critique{
		BrandAlignment: domain.DimensionScore{Score: brand, Feedback: "logo is tiny"},
		VisualQuality:  domain.DimensionScore{Score: visual},
		MessageClarity: domain.DimensionScore{Score: clarity, Issues: []string{"no cta"}},
		SafetyEthics:   domain.DimensionScore{Score: safety},
		OverallScore:   OverallScore(brand, visual, clarity, safety),
	}
}

func TestFallbackRefinement(t *testing.T) {
	tests := []struct {
		name     string
		critique *domain.Critique
		suffixes []string
		changes  []string
		focus    []string
	}{
		{
			name:     "everything weak",
			critique: critiqueWithScores(0.5, 0.5, 0.5, 0.5),
			suffixes: []string{
				", with clear brand colors and logo placement",
				", sharp focus, professional photography, rule of thirds composition",
				", with bold clear text and obvious call-to-action",
				", safe for all audiences, no controversial elements",
			},
			changes: []string{"professional branding", "high visual quality", "clear messaging", "safe content"},
			focus:   []string{"brand_alignment", "visual_quality", "message_clarity", "safety_ethics"},
		},
		{
			name:     "only safety below its own cutoff",
			critique: critiqueWithScores(0.9, 0.9, 0.9, 0.85),
			suffixes: []string{", safe for all audiences, no controversial elements"},
			changes:  []string{"safe content"},
			focus:    []string{},
		},
		{
			name:     "boundary 0.70 is not weak",
			critique: critiqueWithScores(0.7, 0.69, 0.7, 0.9),
			suffixes: []string{", sharp focus, professional photography, rule of thirds composition"},
			changes:  []string{"high visual quality"},
			focus:    []string{"visual_quality"},
		},
		{
			name:    "no critique",
			changes: []string{},
			focus:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FallbackRefinement("sneaker ad", tt.critique, nil)

			want := "sneaker ad" + strings.Join(tt.suffixes, "")
			if r.ImprovedPrompt != want {
				t.Errorf("ImprovedPrompt = %q, want %q", r.ImprovedPrompt, want)
			}
			if !reflect.DeepEqual(r.ChangesMade, tt.changes) {
				t.Errorf("ChangesMade = %v, want %v", r.ChangesMade, tt.changes)
			}
			if !reflect.DeepEqual(r.FocusAreas, tt.focus) {
				t.Errorf("FocusAreas = %v, want %v", r.FocusAreas, tt.focus)
			}
			if r.Source != domain.RefinementSourceFallback || r.OriginalPrompt != "sneaker ad" {
				t.Errorf("Source=%v OriginalPrompt=%q", r.Source, r.OriginalPrompt)
			}
		})
	}
}

func TestFallbackRefinement_Deterministic(t *testing.T) {
	c := critiqueWithScores(0.4, 0.8, 0.6, 0.95)
	a := FallbackRefinement("p", c, nil)
	b := FallbackRefinement("p", c, nil)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("fallback refinement is not reproducible: %+v vs %+v", a, b)
	}
}

func TestFallbackRefinement_BrandKit(t *testing.T) {
	weakBrand := critiqueWithScores(0.4, 0.9, 0.9, 0.95)

	tests := []struct {
		name  string
		brand *domain.BrandKit
		want  string
	}{
		{
			name:  "colors and tone",
			brand: &domain.BrandKit{BrandID: "acme", PrimaryColors: []string{"#ff0000", "#ffffff"}, ToneOfVoice: []string{"bold", "playful"}},
			want:  "p, with clear logo placement, using brand colors #ff0000, #ffffff, in a bold, playful tone",
		},
		{
			name:  "colors only",
			brand: &domain.BrandKit{BrandID: "acme", PrimaryColors: []string{"#141414"}},
			want:  "p, with clear logo placement, using brand colors #141414",
		},
		{
			name:  "empty kit keeps generic phrase",
			brand: &domain.BrandKit{BrandID: "acme"},
			want:  "p, with clear brand colors and logo placement",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FallbackRefinement("p", weakBrand, tt.brand)
			if r.ImprovedPrompt != tt.want {
				t.Errorf("ImprovedPrompt = %q, want %q", r.ImprovedPrompt, tt.want)
			}
			again := FallbackRefinement("p", weakBrand, tt.brand)
			if !reflect.DeepEqual(r, again) {
				t.Error("brand-aware fallback is not reproducible")
			}
		})
	}

	// бренд в порядке - брендбук не трогает промпт
	if r := FallbackRefinement("p", critiqueWithScores(0.9, 0.9, 0.9, 0.95), tests[0].brand); r.ImprovedPrompt != "p" {
		t.Errorf("ImprovedPrompt = %q, want unchanged", r.ImprovedPrompt)
	}
}

func TestRefinerService_Oracle(t *testing.T) {
	oracle := llmMock.New().WithResponse("```json\n" + `{
  "improved_prompt": "  Red sneaker hero shot, logo top right, bold CTA  ",
  "changes_made": ["added logo placement"],
  "focus_areas": ["brand_alignment"],
  "expected_improvements": {"brand_alignment": "logo visible"},
  "iteration_strategy": "fix branding"
}` + "\n```")
	svc := NewRefinerService(RefinerServiceDeps{Oracle: oracle, Logger: zap.NewNop()})

	r, err := svc.Refine(context.Background(), RefineRequest{
		Prompt:    "sneaker ad",
		Critique:  critiqueWithScores(0.4, 0.8, 0.6, 0.95),
		Brand:     &domain.BrandKit{BrandName: "Acme", PrimaryColors: []string{"#ff0000"}},
		Iteration: 2,
	})
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}

	if r.Source != domain.RefinementSourceOracle {
		t.Errorf("Source = %v", r.Source)
	}
	if r.ImprovedPrompt != "Red sneaker hero shot, logo top right, bold CTA" {
		t.Errorf("ImprovedPrompt = %q", r.ImprovedPrompt)
	}
	if r.ExpectedImprovements["brand_alignment"] != "logo visible" {
		t.Errorf("ExpectedImprovements = %v", r.ExpectedImprovements)
	}

	for _, want := range []string{"Current Iteration: 2", "Brand Alignment: 0.40/1.0", "- no cta", "brand_alignment: logo is tiny", "Brand Name: Acme", "No detailed description available"} {
		if !strings.Contains(oracle.LastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestRefinerService_RawAndFallback(t *testing.T) {
	critique := critiqueWithScores(0.5, 0.9, 0.9, 0.95)

	tests := []struct {
		name       string
		oracle     llm.Client
		wantSource domain.RefinementSource
		wantPrompt string
	}{
		{
			name:       "plain text becomes the prompt",
			oracle:     llmMock.New().WithResponse("  A crisp sneaker ad with the Acme logo  "),
			wantSource: domain.RefinementSourceRaw,
			wantPrompt: "A crisp sneaker ad with the Acme logo",
		},
		{
			name:       "empty improved prompt",
			oracle:     llmMock.New().WithResponse(`{"improved_prompt": ""}`),
			wantSource: domain.RefinementSourceFallback,
			wantPrompt: "ad, with clear brand colors and logo placement",
		},
		{
			name:       "oracle error",
			oracle:     llmMock.New().WithError(llm.ErrRateLimit),
			wantSource: domain.RefinementSourceFallback,
			wantPrompt: "ad, with clear brand colors and logo placement",
		},
		{
			name:       "offline",
			oracle:     offline.New(),
			wantSource: domain.RefinementSourceFallback,
			wantPrompt: "ad, with clear brand colors and logo placement",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewRefinerService(RefinerServiceDeps{Oracle: tt.oracle})
			r, err := svc.Refine(context.Background(), RefineRequest{Prompt: "ad", Critique: critique, Iteration: 1})
			if err != nil {
				t.Fatalf("Refine() error = %v", err)
			}
			if r.Source != tt.wantSource {
				t.Errorf("Source = %v, want %v", r.Source, tt.wantSource)
			}
			if r.ImprovedPrompt != tt.wantPrompt {
				t.Errorf("ImprovedPrompt = %q, want %q", r.ImprovedPrompt, tt.wantPrompt)
			}
		})
	}
}

func TestRefinerService_EmptyPrompt(t *testing.T) {
	svc := NewRefinerService(RefinerServiceDeps{Oracle: offline.New()})
	if _, err := svc.Refine(context.Background(), RefineRequest{Prompt: "  "}); !errors.Is(err, domain.ErrEmptyPrompt) {
		t.Errorf("error = %v, want ErrEmptyPrompt", err)
	}
}
