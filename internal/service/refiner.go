package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/jsonutil"
	"github.com/kitbuilder587/ad-critic/internal/llm"
	"github.com/kitbuilder587/ad-critic/internal/metrics"
)

const RefinementSystemPrompt = `You are an expert Ad Refinement Specialist. Your job is to improve ad generation prompts based on critique feedback.
Return ONLY the JSON object.`

// ниже этих оценок измерение попадает в focus_areas
const (
	refineFocusCutoff  = 0.70
	refineSafetyCutoff = 0.90
)

// directive - правка промпта для слабого измерения
type directive struct {
	dimension domain.Dimension
	change    string
	suffix    string
}

var directives = []directive{
	{domain.DimensionBrand, "professional branding", ", with clear brand colors and logo placement"},
	{domain.DimensionVisual, "high visual quality", ", sharp focus, professional photography, rule of thirds composition"},
	{domain.DimensionClarity, "clear messaging", ", with bold clear text and obvious call-to-action"},
	{domain.DimensionSafety, "safe content", ", safe for all audiences, no controversial elements"},
}

type RefineRequest struct {
	Prompt      string
	Critique    *domain.Critique
	Description *domain.AdDescription
	Brand       *domain.BrandKit
	Iteration   int
}

type RefinerService interface {
	Refine(ctx context.Context, req RefineRequest) (*domain.Refinement, error)
}

type RefinerServiceDeps struct {
	Oracle        llm.Client
	OracleTimeout time.Duration
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
}

type refinerService struct {
	oracle *oracle
	logger *zap.Logger
}

func NewRefinerService(deps RefinerServiceDeps) RefinerService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &refinerService{
		oracle: newOracle(deps.Oracle, deps.OracleTimeout, deps.Logger, deps.Metrics),
		logger: deps.Logger,
	}
}

type refinementPayload struct {
	ImprovedPrompt       string            `json:"improved_prompt"`
	ChangesMade          []string          `json:"changes_made"`
	FocusAreas           []string          `json:"focus_areas"`
	ExpectedImprovements map[string]string `json:"expected_improvements"`
	IterationStrategy    string            `json:"iteration_strategy"`
}

func (s *refinerService) Refine(ctx context.Context, req RefineRequest) (*domain.Refinement, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, domain.ErrEmptyPrompt
	}

	text, err := s.oracle.ask(ctx, "refine", llm.Request{
		System: RefinementSystemPrompt,
		Prompt: buildRefinementPrompt(req),
		JSON:   true,
	})
	if err != nil {
		return FallbackRefinement(req.Prompt, req.Critique, req.Brand), nil
	}

	payload, err := jsonutil.ParseObject[refinementPayload](text)
	if err != nil {
		raw := strings.TrimSpace(text)
		s.oracle.parseFailed("refine", text, err)
		return &domain.Refinement{
			ImprovedPrompt:    raw,
			ChangesMade:       []string{"Unable to parse structured changes"},
			FocusAreas:        []string{"general_improvement"},
			IterationStrategy: "Raw oracle rewrite",
			OriginalPrompt:    req.Prompt,
			Source:            domain.RefinementSourceRaw,
			ParsingError:      err.Error(),
		}, nil
	}

	if strings.TrimSpace(payload.ImprovedPrompt) == "" {
		s.oracle.parseFailed("refine", text, fmt.Errorf("%w: empty improved_prompt", domain.ErrOracleParse))
		return FallbackRefinement(req.Prompt, req.Critique, req.Brand), nil
	}

	refinement := &domain.Refinement{
		ImprovedPrompt:       strings.TrimSpace(payload.ImprovedPrompt),
		ChangesMade:          orEmpty(payload.ChangesMade),
		FocusAreas:           orEmpty(payload.FocusAreas),
		ExpectedImprovements: payload.ExpectedImprovements,
		IterationStrategy:    payload.IterationStrategy,
		OriginalPrompt:       req.Prompt,
		Source:               domain.RefinementSourceOracle,
	}

	s.logger.Info("prompt refined",
		zap.Int("iteration", req.Iteration),
		zap.Int("changes", len(refinement.ChangesMade)),
		zap.Strings("focus_areas", refinement.FocusAreas),
	)
	return refinement, nil
}

// FallbackRefinement дописывает к промпту фразы для слабых измерений.
// Результат зависит только от промпта, оценок и брендбука.
func FallbackRefinement(prompt string, critique *domain.Critique, brand *domain.BrandKit) *domain.Refinement {
	improved := prompt
	changes := []string{}
	focus := []string{}

	if critique != nil {
		for _, d := range directives {
			score := critique.Dimension(d.dimension).Score
			cutoff := refineFocusCutoff
			if d.dimension == domain.DimensionSafety {
				cutoff = refineSafetyCutoff
			}
			if score < cutoff {
				if d.dimension == domain.DimensionBrand {
					improved += brandSuffix(brand)
				} else {
					improved += d.suffix
				}
				changes = append(changes, d.change)
			}
			if score < refineFocusCutoff {
				focus = append(focus, string(d.dimension))
			}
		}
	}

	return &domain.Refinement{
		ImprovedPrompt: improved,
		ChangesMade:    changes,
		FocusAreas:     focus,
		ExpectedImprovements: map[string]string{
			"note": "Rule-based refinement - oracle required for AI-powered improvements",
		},
		IterationStrategy: "Adding safety and quality keywords to original prompt",
		OriginalPrompt:    prompt,
		Source:            domain.RefinementSourceFallback,
	}
}

// brandSuffix - цвета и тон из брендбука, без него общая фраза
func brandSuffix(brand *domain.BrandKit) string {
	if brand == nil || (len(brand.PrimaryColors) == 0 && len(brand.ToneOfVoice) == 0) {
		return directives[0].suffix
	}

	suffix := ", with clear logo placement"
	if len(brand.PrimaryColors) > 0 {
		suffix += ", using brand colors " + strings.Join(brand.PrimaryColors, ", ")
	}
	if len(brand.ToneOfVoice) > 0 {
		suffix += ", in a " + strings.Join(brand.ToneOfVoice, ", ") + " tone"
	}
	return suffix
}

func buildRefinementPrompt(req RefineRequest) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Current Iteration: %d\n\n", req.Iteration)
	fmt.Fprintf(&sb, "Original Prompt:\n%s\n\n", req.Prompt)

	sb.WriteString("Critique Scores:\n")
	if c := req.Critique; c != nil {
		fmt.Fprintf(&sb, "- Brand Alignment: %.2f/1.0\n", c.BrandAlignment.Score)
		fmt.Fprintf(&sb, "- Visual Quality: %.2f/1.0\n", c.VisualQuality.Score)
		fmt.Fprintf(&sb, "- Message Clarity: %.2f/1.0\n", c.MessageClarity.Score)
		fmt.Fprintf(&sb, "- Safety Score: %.2f/1.0\n", c.SafetyEthics.Score)
		fmt.Fprintf(&sb, "- Overall Score: %.2f/1.0\n\n", c.OverallScore)

		sb.WriteString("Identified Issues:\n")
		writeBullets(&sb, c.CollectIssues())

		sb.WriteString("\nDetailed Feedback:\n")
		var feedback []string
		for _, d := range domain.Dimensions {
			if fb := c.Dimension(d).Feedback; fb != "" {
				feedback = append(feedback, fmt.Sprintf("%s: %s", d, fb))
			}
		}
		writeBullets(&sb, feedback)
	} else {
		sb.WriteString("Not available\n")
	}

	sb.WriteString("\nCurrent Ad Description:\n")
	if summary := req.Description.Summary(); summary != "" {
		sb.WriteString(summary)
	} else {
		sb.WriteString("No detailed description available")
	}
	sb.WriteString("\n")

	if b := req.Brand; b != nil {
		sb.WriteString("\nBrand Guidelines:\n")
		fmt.Fprintf(&sb, "- Brand Name: %s\n", b.BrandName)
		fmt.Fprintf(&sb, "- Primary Colors: %s\n", strings.Join(b.PrimaryColors, ", "))
		fmt.Fprintf(&sb, "- Brand Voice: %s\n", strings.Join(b.ToneOfVoice, ", "))
	}

	sb.WriteString(`
Your Task:
Based on the critique, generate an IMPROVED prompt that will create a better ad. Focus on addressing the lowest-scoring areas.

Refinement Strategy:
1. If brand_alignment is low: add specific brand colors, logo placement, brand voice keywords
2. If visual_quality is low: add composition keywords (rule of thirds, sharp focus, professional lighting)
3. If message_clarity is low: make product/CTA more explicit, simplify messaging
4. If safety is low: remove potentially problematic elements, add safety keywords

Output Format (JSON only):
{
  "improved_prompt": "Your improved detailed prompt here",
  "changes_made": ["change 1", "change 2"],
  "focus_areas": ["area 1", "area 2"],
  "expected_improvements": {
    "brand_alignment": "what should improve",
    "visual_quality": "what should improve",
    "message_clarity": "what should improve"
  },
  "iteration_strategy": "brief explanation of this iteration's focus"
}`)

	return sb.String()
}

func writeBullets(sb *strings.Builder, items []string) {
	if len(items) == 0 {
		sb.WriteString("None\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
