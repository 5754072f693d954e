// Package imagen - генерация картинок через Imagen (Google GenAI SDK)
package imagen

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kitbuilder587/ad-critic/internal/generation"
)

var ErrNoImages = errors.New("imagen returned no images")

type Config struct {
	Model string
}

type Renderer struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func New(client *genai.Client, cfg Config, logger *zap.Logger) *Renderer {
	if cfg.Model == "" {
		cfg.Model = "imagen-3.0-generate-002"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		client: client,
		model:  cfg.Model,
		logger: logger,
	}
}

func (r *Renderer) Name() string {
	return "imagen"
}

func (r *Renderer) Render(ctx context.Context, prompt, aspectRatio string) ([]byte, error) {
	resp, err := r.client.Models.GenerateImages(ctx, r.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    aspectRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("imagen generate: %w", err)
	}

	for _, img := range resp.GeneratedImages {
		if img == nil || img.Image == nil || len(img.Image.ImageBytes) == 0 {
			continue
		}
		r.logger.Debug("imagen image received",
			zap.String("model", r.model),
			zap.Int("bytes", len(img.Image.ImageBytes)),
		)
		return img.Image.ImageBytes, nil
	}
	return nil, ErrNoImages
}

var _ generation.Renderer = (*Renderer)(nil)
