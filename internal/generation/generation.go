// Package generation - сервис генерации рекламных креативов.
// Service строит промпт, рендерит картинку через Renderer и сохраняет PNG на диск.
package generation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/metrics"
)

var ErrVideoUnsupported = errors.New("video generation not supported")

// Renderer - бэкенд, который превращает промпт в байты изображения
type Renderer interface {
	Render(ctx context.Context, prompt, aspectRatio string) ([]byte, error)
	Name() string
}

// Generator - контракт, который потребляет оркестратор.
// Success=false в результате - штатный отказ, error - сбой провайдера.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
}

type ServiceDeps struct {
	Renderer  Renderer
	OutputDir string
	Timeout   time.Duration
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

type Service struct {
	renderer  Renderer
	outputDir string
	timeout   time.Duration
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewService(deps ServiceDeps) *Service {
	if deps.OutputDir == "" {
		deps.OutputDir = "generated_ads"
	}
	if deps.Timeout == 0 {
		deps.Timeout = 120 * time.Second
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Service{
		renderer:  deps.Renderer,
		outputDir: deps.OutputDir,
		timeout:   deps.Timeout,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
	}
}

func (s *Service) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, domain.ErrEmptyPrompt
	}
	if req.MediaType == "" {
		req.MediaType = domain.MediaImage
	}
	if !req.MediaType.IsValid() {
		return nil, domain.ErrInvalidMediaType
	}

	provider := s.renderer.Name()
	if req.MediaType == domain.MediaVideo {
		s.record(provider, "unsupported")
		return &domain.GenerationResult{
			Success:  false,
			Error:    ErrVideoUnsupported.Error(),
			Provider: provider,
		}, nil
	}

	prompt := BuildPrompt(req)
	aspect := domain.NormalizeAspectRatio(req.AspectRatio)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	data, err := s.renderer.Render(ctx, prompt, aspect)
	if err != nil {
		s.record(provider, "error")
		s.logger.Error("image generation failed",
			zap.String("provider", provider),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	if len(data) == 0 {
		s.record(provider, "empty")
		return &domain.GenerationResult{
			Success:  false,
			Error:    "generator returned no image",
			Provider: provider,
		}, nil
	}

	path, err := s.save(data)
	if err != nil {
		s.record(provider, "error")
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	s.record(provider, "success")
	s.logger.Info("ad generated",
		zap.String("provider", provider),
		zap.String("path", path),
		zap.String("aspect_ratio", aspect),
		zap.Duration("duration", time.Since(start)),
	)

	return &domain.GenerationResult{
		Success:   true,
		ImagePath: path,
		Provider:  provider,
	}, nil
}

func (s *Service) save(data []byte) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(s.outputDir, uuid.NewString()+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return path, nil
}

func (s *Service) record(provider, status string) {
	if s.metrics != nil {
		s.metrics.RecordGeneration(provider, status)
	}
}

// BuildPrompt - шаблон "Create a {style} advertisement. {prompt}" плюс контекст бренда
func BuildPrompt(req domain.GenerationRequest) string {
	style := strings.TrimSpace(req.Style)
	if style == "" {
		style = "modern"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s advertisement. %s", style, strings.TrimSpace(req.Prompt))

	if req.Brand != nil {
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "Brand: %s\n", req.Brand.BrandName)
		if len(req.Brand.PrimaryColors) > 0 {
			fmt.Fprintf(&b, "Colors: %s\n", strings.Join(req.Brand.PrimaryColors, ", "))
		}
		if len(req.Brand.ToneOfVoice) > 0 {
			fmt.Fprintf(&b, "Tone: %s\n", strings.Join(req.Brand.ToneOfVoice, ", "))
		}
	}

	fmt.Fprintf(&b, "\nStyle: %s, professional, high-quality. Clean composition, no watermarks or artifacts.", style)
	return b.String()
}

var _ Generator = (*Service)(nil)
