package repository

import (
	"context"

	"github.com/kitbuilder587/ad-critic/internal/domain"
)

// BrandRepository - хранилище брендбуков.
// Get и Delete возвращают domain.ErrBrandNotFound для неизвестного id.
type BrandRepository interface {
	Create(ctx context.Context, brand *domain.BrandKit) error // ErrDuplicateBrand если id занят
	Save(ctx context.Context, brand *domain.BrandKit) error   // создает или заменяет
	Get(ctx context.Context, brandID string) (*domain.BrandKit, error)
	List(ctx context.Context) ([]domain.BrandKit, error) // по brand_id
	Delete(ctx context.Context, brandID string) error
}

// ApprovalRepository - решения ревьюеров, одно актуальное на критику
type ApprovalRepository interface {
	Save(ctx context.Context, approval *domain.Approval) error
	GetByCritique(ctx context.Context, critiqueID string) (*domain.Approval, error)
	// List с пустым статусом возвращает все, свежие первыми
	List(ctx context.Context, status domain.ReviewStatus) ([]domain.Approval, error)
}
