package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/repository"
)

type ApprovalRepo struct {
	db *DB
}

func NewApprovalRepo(db *DB) *ApprovalRepo {
	return &ApprovalRepo{db: db}
}

// Save - новое решение по той же критике заменяет старое
func (r *ApprovalRepo) Save(ctx context.Context, a *domain.Approval) error {
	query := `
        INSERT INTO approvals (id, critique_id, decision, status, reviewer, notes, decided_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (critique_id) DO UPDATE SET
            id         = EXCLUDED.id,
            decision   = EXCLUDED.decision,
            status     = EXCLUDED.status,
            reviewer   = EXCLUDED.reviewer,
            notes      = EXCLUDED.notes,
            decided_at = EXCLUDED.decided_at
    `

	_, err := r.db.Pool.Exec(ctx, query,
		a.ID,
		a.CritiqueID,
		string(a.Decision),
		string(a.Status),
		a.Reviewer,
		a.Notes,
		a.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("save approval: %w", err)
	}
	return nil
}

func (r *ApprovalRepo) GetByCritique(ctx context.Context, critiqueID string) (*domain.Approval, error) {
	query := `
        SELECT id, critique_id, decision, status, reviewer, notes, decided_at
        FROM approvals
        WHERE critique_id = $1
    `

	a, err := scanApproval(r.db.Pool.QueryRow(ctx, query, critiqueID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrApprovalNotFound
		}
		return nil, fmt.Errorf("get approval: %w", err)
	}
	return a, nil
}

func (r *ApprovalRepo) List(ctx context.Context, status domain.ReviewStatus) ([]domain.Approval, error) {
	query := `
        SELECT id, critique_id, decision, status, reviewer, notes, decided_at
        FROM approvals
        WHERE $1 = '' OR status = $1
        ORDER BY decided_at DESC, critique_id
    `

	rows, err := r.db.Pool.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	defer rows.Close()

	var approvals []domain.Approval
	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("scan approval: %w", err)
		}
		approvals = append(approvals, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return approvals, nil
}

func scanApproval(row pgx.Row) (*domain.Approval, error) {
	var a domain.Approval
	var decision, status string
	err := row.Scan(
		&a.ID,
		&a.CritiqueID,
		&decision,
		&status,
		&a.Reviewer,
		&a.Notes,
		&a.DecidedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Decision = domain.Decision(decision)
	a.Status = domain.ReviewStatus(status)
	return &a, nil
}

var _ repository.ApprovalRepository = (*ApprovalRepo)(nil)
