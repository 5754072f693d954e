package file

import (
	"context"
	"errors"
	"sort"

	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/repository"
)

type BrandRepo struct {
	dir *jsonDir
}

func NewBrandRepo(base string) (*BrandRepo, error) {
	dir, err := newJSONDir(base)
	if err != nil {
		return nil, err
	}
	return &BrandRepo{dir: dir}, nil
}

func (r *BrandRepo) Create(ctx context.Context, brand *domain.BrandKit) error {
	r.dir.mu.Lock()
	defer r.dir.mu.Unlock()

	exists, err := r.dir.exists(brand.BrandID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrDuplicateBrand
	}
	return r.dir.write(ctx, brand.BrandID, brand)
}

func (r *BrandRepo) Save(ctx context.Context, brand *domain.BrandKit) error {
	r.dir.mu.Lock()
	defer r.dir.mu.Unlock()

	return r.dir.write(ctx, brand.BrandID, brand)
}

func (r *BrandRepo) Get(ctx context.Context, brandID string) (*domain.BrandKit, error) {
	r.dir.mu.RLock()
	defer r.dir.mu.RUnlock()

	var b domain.BrandKit
	if err := r.dir.read(ctx, brandID, &b); err != nil {
		if errors.Is(err, errNotExist) {
			return nil, domain.ErrBrandNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BrandRepo) List(ctx context.Context) ([]domain.BrandKit, error) {
	r.dir.mu.RLock()
	defer r.dir.mu.RUnlock()

	keys, err := r.dir.keys()
	if err != nil {
		return nil, err
	}

	brands := make([]domain.BrandKit, 0, len(keys))
	for _, key := range keys {
		var b domain.BrandKit
		if err := r.dir.read(ctx, key, &b); err != nil {
			if errors.Is(err, errNotExist) {
				continue
			}
			return nil, err
		}
		brands = append(brands, b)
	}
	sort.Slice(brands, func(i, j int) bool { return brands[i].BrandID < brands[j].BrandID })
	return brands, nil
}

func (r *BrandRepo) Delete(ctx context.Context, brandID string) error {
	r.dir.mu.Lock()
	defer r.dir.mu.Unlock()

	if err := r.dir.remove(ctx, brandID); err != nil {
		if errors.Is(err, errNotExist) {
			return domain.ErrBrandNotFound
		}
		return err
	}
	return nil
}

var _ repository.BrandRepository = (*BrandRepo)(nil)
