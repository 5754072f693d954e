package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/ad-critic/internal/cache"
	"github.com/kitbuilder587/ad-critic/internal/color"
	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/imaging"
	"github.com/kitbuilder587/ad-critic/internal/jsonutil"
	"github.com/kitbuilder587/ad-critic/internal/llm"
	"github.com/kitbuilder587/ad-critic/internal/metrics"
	"github.com/kitbuilder587/ad-critic/internal/rubric"
	"github.com/kitbuilder587/ad-critic/internal/vision"
)

const CritiqueSystemPrompt = `You are an expert Creative Director and Brand Compliance Officer evaluating an advertisement.
Be strict and specific. Scores are between 0 and 1.
For every dimension also report how confident you are in your judgement (0-1).
Respond ONLY with valid JSON. No markdown, no explanations outside the JSON.`

const critiqueSchema = `{
  "brand_alignment": {
    "score": 0.85,
    "confidence": 0.8,
    "feedback": "Colors match well but logo placement could be improved",
    "issues": ["Logo slightly off-center"],
    "suggestions": ["Center the logo", "Increase logo size by 20%"]
  },
  "visual_quality": {
    "score": 0.90,
    "confidence": 0.9,
    "feedback": "High quality image with good composition",
    "issues": [],
    "suggestions": ["Consider adding more contrast"]
  },
  "message_clarity": {
    "score": 0.75,
    "confidence": 0.7,
    "feedback": "Product visible but tagline is small",
    "issues": ["Text too small", "CTA not prominent"],
    "suggestions": ["Increase tagline font size", "Make CTA button larger"]
  },
  "safety_ethics": {
    "score": 1.0,
    "confidence": 0.95,
    "feedback": "No safety or ethical concerns detected",
    "issues": [],
    "suggestions": []
  },
  "overall_confidence": 0.85,
  "detected_elements": {
    "has_logo": true,
    "has_product": true,
    "has_tagline": true,
    "has_cta": false,
    "text_content": ["visible text in the ad"]
  },
  "overall_assessment": "Good ad but needs minor improvements to text visibility"
}`

const defaultCacheTTL = time.Hour

type CritiqueRequest struct {
	ImagePath   string
	Brand       *domain.BrandKit
	Description string
	Category    string
}

type CriticService interface {
	CritiqueImage(ctx context.Context, req CritiqueRequest) (*domain.Critique, error)
}

type CriticConfig struct {
	Thresholds    domain.CritiqueThresholds
	OracleTimeout time.Duration
	CacheTTL      time.Duration
}

type CriticServiceDeps struct {
	Oracle  llm.Client
	Vision  *vision.Analyzer
	Color   *color.Analyzer
	Rubrics *rubric.Set
	Cache   cache.Cache[*domain.Critique]
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Config  CriticConfig
}

type criticService struct {
	oracle   *oracle
	vision   *vision.Analyzer
	color    *color.Analyzer
	rubrics  *rubric.Set
	cache    cache.Cache[*domain.Critique]
	compiler *Compiler
	logger   *zap.Logger
	metrics  *metrics.Metrics
	cacheTTL time.Duration
}

func NewCriticService(deps CriticServiceDeps) CriticService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Vision == nil {
		deps.Vision = vision.NewAnalyzer(vision.DefaultConfig())
	}
	if deps.Color == nil {
		deps.Color = color.NewAnalyzer(color.DefaultConfig())
	}
	if deps.Rubrics == nil {
		deps.Rubrics = rubric.Default()
	}
	if deps.Config.Thresholds == (domain.CritiqueThresholds{}) {
		deps.Config.Thresholds = domain.DefaultCritiqueThresholds()
	}
	if deps.Config.CacheTTL == 0 {
		deps.Config.CacheTTL = defaultCacheTTL
	}

	return &criticService{
		oracle:   newOracle(deps.Oracle, deps.Config.OracleTimeout, deps.Logger, deps.Metrics),
		vision:   deps.Vision,
		color:    deps.Color,
		rubrics:  deps.Rubrics,
		cache:    deps.Cache,
		compiler: NewCompiler(deps.Config.Thresholds),
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		cacheTTL: deps.Config.CacheTTL,
	}
}

func (s *criticService) CritiqueImage(ctx context.Context, req CritiqueRequest) (*domain.Critique, error) {
	if strings.TrimSpace(req.ImagePath) == "" {
		return nil, domain.ErrEmptyImagePath
	}

	img, err := imaging.Load(req.ImagePath)
	if err != nil {
		s.logger.Warn("failed to load image", zap.String("path", req.ImagePath), zap.Error(err))
		return nil, err
	}

	key := s.cacheKey(img.Hash, req)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if s.metrics != nil {
				s.metrics.RecordCacheHit()
			}
			s.logger.Debug("critique cache hit", zap.String("cached_id", cached.CritiqueID))
			return reissue(cached, req.ImagePath), nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss()
		}
	}

	var brandColors []string
	if req.Brand != nil {
		brandColors = req.Brand.PrimaryColors
	}

	var (
		visual  domain.VisualMetrics
		profile domain.ColorProfile
		payload OraclePayload
		aiOK    bool
	)

	// метрики изображения и оракул независимы, компилятору нужны все три
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		visual = s.vision.Analyze(img)
		return nil
	})
	g.Go(func() error {
		profile = s.color.Analyze(img, brandColors)
		return nil
	})
	g.Go(func() error {
		payload, aiOK = s.askOracle(gctx, img, req)
		return nil
	})
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !aiOK {
		payload = s.compiler.FallbackPayload(visual)
	}

	critique := s.compiler.Compile(CompileInput{
		ImagePath:   req.ImagePath,
		Brand:       req.Brand,
		Visual:      visual,
		Color:       profile,
		Payload:     payload,
		AIAvailable: aiOK,
	})

	// fallback не кешируем, следующий вызов снова спросит оракула
	if s.cache != nil && aiOK {
		s.cache.Set(key, critique, s.cacheTTL)
	}
	if s.metrics != nil {
		s.metrics.RecordCritique(critique.OverallScore, critique.ReadyToDeploy, critique.NeedsManualReview)
	}

	s.logger.Info("critique completed",
		zap.String("critique_id", critique.CritiqueID),
		zap.String("path", req.ImagePath),
		zap.Float64("overall_score", critique.OverallScore),
		zap.Float64("confidence", critique.OverallConfidence),
		zap.Bool("ready_to_deploy", critique.ReadyToDeploy),
		zap.Bool("needs_manual_review", critique.NeedsManualReview),
		zap.Bool("ai_analysis", aiOK),
	)

	return critique, nil
}

func (s *criticService) askOracle(ctx context.Context, img *imaging.Image, req CritiqueRequest) (OraclePayload, bool) {
	text, err := s.oracle.ask(ctx, "critique", llm.Request{
		System: CritiqueSystemPrompt,
		Prompt: s.buildPrompt(req),
		Image:  &llm.Image{MIMEType: img.MIMEType(), Data: img.Raw},
		JSON:   true,
	})
	if err != nil {
		return OraclePayload{}, false
	}

	payload, err := jsonutil.ParseObject[OraclePayload](text)
	if err != nil {
		s.oracle.parseFailed("critique", text, err)
		return OraclePayload{}, false
	}
	return payload, true
}

func (s *criticService) buildPrompt(req CritiqueRequest) string {
	var sb strings.Builder

	if b := req.Brand; b != nil {
		fmt.Fprintf(&sb, "Brand: %s\n", b.BrandName)
		fmt.Fprintf(&sb, "Primary Colors: %s\n", strings.Join(b.PrimaryColors, ", "))
		fmt.Fprintf(&sb, "Tone of Voice: %s\n", strings.Join(b.ToneOfVoice, ", "))
		values := "Not specified"
		if len(b.BrandValues) > 0 {
			values = strings.Join(b.BrandValues, ", ")
		}
		fmt.Fprintf(&sb, "Brand Values: %s\n", values)
		if b.Guidelines != "" {
			fmt.Fprintf(&sb, "Guidelines: %s\n", b.Guidelines)
		}
		sb.WriteString("\n")
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "Not provided"
	}
	fmt.Fprintf(&sb, "Ad Description: %s\n\n", description)

	sb.WriteString("Analyze this advertisement and provide a structured critique across these dimensions:\n\n")
	sb.WriteString("1. Brand Alignment (0-1 score): does it match the brand colors, tone and visual identity? Are logo and typography used correctly?\n")
	sb.WriteString("2. Visual Quality (0-1 score): is the image sharp and well-composed, free of artifacts, with a professional balanced layout?\n")
	sb.WriteString("3. Message Clarity (0-1 score): is the product clearly visible, the message readable, the call-to-action obvious?\n")
	sb.WriteString("4. Safety & Ethics (0-1 score): any harmful, offensive or misleading content, stereotypes or bias?\n\n")

	category := req.Category
	if category == "" && req.Brand != nil {
		category = req.Brand.Category
	}
	sb.WriteString("Evaluation rubric:\n")
	sb.WriteString(s.rubrics.For(rubric.General))
	sb.WriteString("\n")
	if text := s.rubrics.For(category); text != s.rubrics.For(rubric.General) {
		fmt.Fprintf(&sb, "Category-specific rules (%s):\n%s\n", strings.ToLower(strings.TrimSpace(category)), text)
	}

	sb.WriteString("\nReturn ONLY a valid JSON object with this structure:\n")
	sb.WriteString(critiqueSchema)

	return sb.String()
}

// reissue - новая оценка из кеша: свои id, время и путь к файлу
func reissue(cached *domain.Critique, imagePath string) *domain.Critique {
	c := *cached
	c.CritiqueID = uuid.NewString()
	c.AdURL = imagePath
	c.CreatedAt = time.Now().UTC()
	return &c
}

// cacheKey: одинаковые байты картинки, бренд и описание дают ту же критику
func (s *criticService) cacheKey(imageHash string, req CritiqueRequest) string {
	brandID := ""
	if req.Brand != nil {
		brandID = req.Brand.BrandID
	}
	h := sha256.Sum256([]byte(imageHash + "|" + brandID + "|" + req.Category + "|" + req.Description))
	return "critique:" + hex.EncodeToString(h[:16])
}
