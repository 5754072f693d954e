package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/repository"
)

const brandColumns = `brand_id, brand_name, primary_colors, secondary_colors, logo_url,
        typography, tone_of_voice, brand_values, guidelines, category, created_at`

type BrandRepo struct {
	db *DB
}

func NewBrandRepo(db *DB) *BrandRepo {
	return &BrandRepo{db: db}
}

func (r *BrandRepo) Create(ctx context.Context, brand *domain.BrandKit) error {
	query := `
        INSERT INTO brand_kits (` + brandColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, COALESCE($11, NOW()))
        RETURNING created_at
    `

	err := r.db.Pool.QueryRow(ctx, query, brandArgs(brand)...).Scan(&brand.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateBrand
		}
		return fmt.Errorf("create brand: %w", err)
	}
	return nil
}

func (r *BrandRepo) Save(ctx context.Context, brand *domain.BrandKit) error {
	query := `
        INSERT INTO brand_kits (` + brandColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, COALESCE($11, NOW()))
        ON CONFLICT (brand_id) DO UPDATE SET
            brand_name       = EXCLUDED.brand_name,
            primary_colors   = EXCLUDED.primary_colors,
            secondary_colors = EXCLUDED.secondary_colors,
            logo_url         = EXCLUDED.logo_url,
            typography       = EXCLUDED.typography,
            tone_of_voice    = EXCLUDED.tone_of_voice,
            brand_values     = EXCLUDED.brand_values,
            guidelines       = EXCLUDED.guidelines,
            category         = EXCLUDED.category
        RETURNING created_at
    `

	if err := r.db.Pool.QueryRow(ctx, query, brandArgs(brand)...).Scan(&brand.CreatedAt); err != nil {
		return fmt.Errorf("save brand: %w", err)
	}
	return nil
}

func (r *BrandRepo) Get(ctx context.Context, brandID string) (*domain.BrandKit, error) {
	query := `SELECT ` + brandColumns + ` FROM brand_kits WHERE brand_id = $1`

	b, err := scanBrand(r.db.Pool.QueryRow(ctx, query, brandID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBrandNotFound
		}
		return nil, fmt.Errorf("get brand: %w", err)
	}
	return b, nil
}

func (r *BrandRepo) List(ctx context.Context) ([]domain.BrandKit, error) {
	query := `SELECT ` + brandColumns + ` FROM brand_kits ORDER BY brand_id`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	var brands []domain.BrandKit
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		brands = append(brands, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return brands, nil
}

func (r *BrandRepo) Delete(ctx context.Context, brandID string) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM brand_kits WHERE brand_id = $1`, brandID)
	if err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrBrandNotFound
	}
	return nil
}

func brandArgs(b *domain.BrandKit) []any {
	typography := b.Typography
	if typography == nil {
		typography = map[string]string{}
	}
	var createdAt any
	if !b.CreatedAt.IsZero() {
		createdAt = b.CreatedAt
	}
	return []any{
		b.BrandID,
		b.BrandName,
		orEmpty(b.PrimaryColors),
		orEmpty(b.SecondaryColors),
		b.LogoURL,
		typography,
		orEmpty(b.ToneOfVoice),
		orEmpty(b.BrandValues),
		b.Guidelines,
		b.Category,
		createdAt,
	}
}

func scanBrand(row pgx.Row) (*domain.BrandKit, error) {
	var b domain.BrandKit
	err := row.Scan(
		&b.BrandID,
		&b.BrandName,
		&b.PrimaryColors,
		&b.SecondaryColors,
		&b.LogoURL,
		&b.Typography,
		&b.ToneOfVoice,
		&b.BrandValues,
		&b.Guidelines,
		&b.Category,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var _ repository.BrandRepository = (*BrandRepo)(nil)
