package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/repository"
)

type BrandService interface {
	Create(ctx context.Context, brand *domain.BrandKit) error
	Save(ctx context.Context, brand *domain.BrandKit) error
	Get(ctx context.Context, brandID string) (*domain.BrandKit, error)
	List(ctx context.Context) ([]domain.BrandKit, error)
	Delete(ctx context.Context, brandID string) error
	// Import принимает JSON-объект или массив брендбуков, существующие заменяются
	Import(ctx context.Context, data []byte) (int, error)
}

type brandService struct {
	repo   repository.BrandRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewBrandService(repo repository.BrandRepository, logger *zap.Logger) BrandService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &brandService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *brandService) prepare(brand *domain.BrandKit) error {
	brand.Normalize()
	if err := brand.Validate(); err != nil {
		return err
	}
	if brand.CreatedAt.IsZero() {
		brand.CreatedAt = s.now().UTC()
	}
	return nil
}

func (s *brandService) Create(ctx context.Context, brand *domain.BrandKit) error {
	if err := s.prepare(brand); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, brand); err != nil {
		return err
	}

	s.logger.Info("brand kit created",
		zap.String("brand_id", brand.BrandID),
		zap.String("brand_name", brand.BrandName),
	)
	return nil
}

func (s *brandService) Save(ctx context.Context, brand *domain.BrandKit) error {
	if err := s.prepare(brand); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, brand); err != nil {
		return err
	}

	s.logger.Info("brand kit saved", zap.String("brand_id", brand.BrandID))
	return nil
}

func (s *brandService) Get(ctx context.Context, brandID string) (*domain.BrandKit, error) {
	return s.repo.Get(ctx, brandID)
}

func (s *brandService) List(ctx context.Context) ([]domain.BrandKit, error) {
	brands, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if brands == nil {
		brands = []domain.BrandKit{}
	}
	return brands, nil
}

func (s *brandService) Delete(ctx context.Context, brandID string) error {
	if err := s.repo.Delete(ctx, brandID); err != nil {
		return err
	}
	s.logger.Info("brand kit deleted", zap.String("brand_id", brandID))
	return nil
}

func (s *brandService) Import(ctx context.Context, data []byte) (int, error) {
	var brands []domain.BrandKit

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &brands); err != nil {
			return 0, fmt.Errorf("parse brand kits: %w", err)
		}
	} else {
		var one domain.BrandKit
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return 0, fmt.Errorf("parse brand kit: %w", err)
		}
		brands = append(brands, one)
	}

	imported := 0
	for i := range brands {
		if err := s.Save(ctx, &brands[i]); err != nil {
			return imported, fmt.Errorf("brand kit %q: %w", brands[i].BrandID, err)
		}
		imported++
	}

	s.logger.Info("brand kits imported", zap.Int("count", imported))
	return imported, nil
}
