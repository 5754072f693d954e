package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/imaging"
	"github.com/kitbuilder587/ad-critic/internal/jsonutil"
	"github.com/kitbuilder587/ad-critic/internal/llm"
	"github.com/kitbuilder587/ad-critic/internal/metrics"
)

const DescriptorSystemPrompt = `You are an expert Ad Analyzer. Analyze advertisement images in extreme detail.
Return ONLY the JSON object, no additional text.`

const descriptorPrompt = `Extract and describe the following components of this advertisement:

1. Visual Elements: dominant colors (HEX codes if possible), objects and subjects, composition and layout, visual style, image quality.
2. Text Content: headline, tagline or slogan, call-to-action text, any other visible text, font style.
3. Brand Elements: logo presence and placement, brand name visibility, brand colors usage, typography.
4. Mood and Tone: emotional tone, target audience impression, messaging tone.
5. Technical Aspects: aspect ratio impression, watermarks or artifacts, visual hierarchy, text readability.
6. Product/Service: what is being advertised, how clearly it is shown, its prominence.

Output your analysis as a JSON object with the following structure:
{
  "visual_elements": {
    "colors": ["color1", "color2"],
    "objects": ["object1", "object2"],
    "composition": "description",
    "style": "description",
    "quality": "sharp/blurry/professional/amateur"
  },
  "text_content": {
    "headline": "text or null",
    "tagline": "text or null",
    "cta": "text or null",
    "other_text": ["text1", "text2"],
    "font_style": "description"
  },
  "brand_elements": {
    "logo_present": true,
    "logo_placement": "description or null",
    "brand_name_visible": true,
    "brand_colors_used": ["color1", "color2"],
    "typography_style": "description"
  },
  "mood_and_tone": {
    "emotional_tone": "description",
    "target_audience": "description",
    "messaging_tone": "formal/casual/humorous/serious/etc"
  },
  "technical_aspects": {
    "aspect_ratio": "landscape/portrait/square",
    "has_watermarks": false,
    "visual_hierarchy": "description",
    "text_readability": "excellent/good/poor"
  },
  "product_info": {
    "product_description": "what is being advertised",
    "product_visibility": "clear/moderate/unclear",
    "product_prominence": "high/medium/low"
  }
}`

const rawResponseLimit = 500

type DescriberService interface {
	Describe(ctx context.Context, imagePath string) (*domain.AdDescription, error)
}

type DescriberServiceDeps struct {
	Oracle        llm.Client
	OracleTimeout time.Duration
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
}

type describerService struct {
	oracle *oracle
	logger *zap.Logger
}

func NewDescriberService(deps DescriberServiceDeps) DescriberService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &describerService{
		oracle: newOracle(deps.Oracle, deps.OracleTimeout, deps.Logger, deps.Metrics),
		logger: deps.Logger,
	}
}

// Describe возвращает ошибку только если картинку не удалось прочитать.
// Отказ оракула дает fallback-описание по размерам и среднему цвету.
func (s *describerService) Describe(ctx context.Context, imagePath string) (*domain.AdDescription, error) {
	img, err := imaging.Load(imagePath)
	if err != nil {
		return nil, err
	}

	text, err := s.oracle.ask(ctx, "describe", llm.Request{
		System: DescriptorSystemPrompt,
		Prompt: descriptorPrompt,
		Image:  &llm.Image{MIMEType: img.MIMEType(), Data: img.Raw},
		JSON:   true,
	})
	if err != nil {
		return FallbackDescription(img), nil
	}

	desc, err := jsonutil.ParseObject[domain.AdDescription](text)
	if err != nil {
		s.oracle.parseFailed("describe", text, err)
		return &domain.AdDescription{
			Source:       domain.DescriptionSourceRaw,
			RawResponse:  truncateBytes(strings.TrimSpace(text), rawResponseLimit),
			ParsingError: err.Error(),
		}, nil
	}

	desc.Source = domain.DescriptionSourceOracle
	desc.RawResponse = truncateBytes(text, rawResponseLimit)

	s.logger.Info("ad described",
		zap.String("path", imagePath),
		zap.Int("objects", len(desc.VisualElements.Objects)),
		zap.Bool("logo_present", desc.BrandElements.LogoPresent),
	)
	return &desc, nil
}

// FallbackDescription - описание без оракула: размеры, ориентация, средний цвет
func FallbackDescription(img *imaging.Image) *domain.AdDescription {
	w, h := img.Width(), img.Height()
	orientation := Orientation(w, h)

	return &domain.AdDescription{
		Source: domain.DescriptionSourceFallback,
		VisualElements: domain.VisualElements{
			Dimensions:      fmt.Sprintf("%dx%d", w, h),
			AspectRatio:     orientation,
			AverageColorRGB: averageColor(img),
			Quality:         "unknown - oracle required for detailed analysis",
		},
		TechnicalAspects: domain.TechnicalAspects{
			AspectRatio: orientation,
		},
	}
}

func Orientation(w, h int) string {
	switch {
	case w > h:
		return "landscape"
	case h > w:
		return "portrait"
	default:
		return "square"
	}
}

func averageColor(img *imaging.Image) []int {
	b := img.Img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return []int{0, 0, 0}
	}

	var sr, sg, sb int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl := imaging.RGB8(img.Img, x, y)
			sr += int(r)
			sg += int(g)
			sb += int(bl)
		}
	}
	return []int{sr / n, sg / n, sb / n}
}

func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
