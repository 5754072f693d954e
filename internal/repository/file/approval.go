package file

import (
	"context"
	"errors"

	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/repository"
)

// ApprovalRepo хранит одно решение на critique_id
type ApprovalRepo struct {
	dir *jsonDir
}

func NewApprovalRepo(base string) (*ApprovalRepo, error) {
	dir, err := newJSONDir(base)
	if err != nil {
		return nil, err
	}
	return &ApprovalRepo{dir: dir}, nil
}

func (r *ApprovalRepo) Save(ctx context.Context, approval *domain.Approval) error {
	r.dir.mu.Lock()
	defer r.dir.mu.Unlock()

	return r.dir.write(ctx, approval.CritiqueID, approval)
}

func (r *ApprovalRepo) GetByCritique(ctx context.Context, critiqueID string) (*domain.Approval, error) {
	r.dir.mu.RLock()
	defer r.dir.mu.RUnlock()

	var a domain.Approval
	if err := r.dir.read(ctx, critiqueID, &a); err != nil {
		if errors.Is(err, errNotExist) {
			return nil, domain.ErrApprovalNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *ApprovalRepo) List(ctx context.Context, status domain.ReviewStatus) ([]domain.Approval, error) {
	r.dir.mu.RLock()
	defer r.dir.mu.RUnlock()

	keys, err := r.dir.keys()
	if err != nil {
		return nil, err
	}

	var out []domain.Approval
	for _, key := range keys {
		var a domain.Approval
		if err := r.dir.read(ctx, key, &a); err != nil {
			if errors.Is(err, errNotExist) {
				continue
			}
			return nil, err
		}
		if status == "" || a.Status == status {
			out = append(out, a)
		}
	}
	repository.SortApprovals(out)
	return out, nil
}

var _ repository.ApprovalRepository = (*ApprovalRepo)(nil)
