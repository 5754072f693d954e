package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/kitbuilder587/ad-critic/internal/domain"
)

type MockBrandRepository struct {
	mu     sync.RWMutex
	brands map[string]domain.BrandKit
}

func NewMockBrandRepository(brands ...domain.BrandKit) *MockBrandRepository {
	m := &MockBrandRepository{brands: make(map[string]domain.BrandKit)}
	for _, b := range brands {
		m.brands[b.BrandID] = b
	}
	return m
}

func (m *MockBrandRepository) Create(ctx context.Context, brand *domain.BrandKit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.brands[brand.BrandID]; exists {
		return domain.ErrDuplicateBrand
	}
	m.brands[brand.BrandID] = *brand
	return nil
}

func (m *MockBrandRepository) Save(ctx context.Context, brand *domain.BrandKit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.brands[brand.BrandID] = *brand
	return nil
}

func (m *MockBrandRepository) Get(ctx context.Context, brandID string) (*domain.BrandKit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.brands[brandID]
	if !ok {
		return nil, domain.ErrBrandNotFound
	}
	return &b, nil
}

func (m *MockBrandRepository) List(ctx context.Context) ([]domain.BrandKit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.BrandKit, 0, len(m.brands))
	for _, b := range m.brands {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BrandID < out[j].BrandID })
	return out, nil
}

func (m *MockBrandRepository) Delete(ctx context.Context, brandID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.brands[brandID]; !ok {
		return domain.ErrBrandNotFound
	}
	delete(m.brands, brandID)
	return nil
}

type MockApprovalRepository struct {
	mu        sync.RWMutex
	approvals map[string]domain.Approval // key: CritiqueID
}

func NewMockApprovalRepository() *MockApprovalRepository {
	return &MockApprovalRepository{approvals: make(map[string]domain.Approval)}
}

func (m *MockApprovalRepository) Save(ctx context.Context, approval *domain.Approval) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.approvals[approval.CritiqueID] = *approval
	return nil
}

func (m *MockApprovalRepository) GetByCritique(ctx context.Context, critiqueID string) (*domain.Approval, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.approvals[critiqueID]
	if !ok {
		return nil, domain.ErrApprovalNotFound
	}
	return &a, nil
}

func (m *MockApprovalRepository) List(ctx context.Context, status domain.ReviewStatus) ([]domain.Approval, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.Approval
	for _, a := range m.approvals {
		if status == "" || a.Status == status {
			out = append(out, a)
		}
	}
	SortApprovals(out)
	return out, nil
}

// SortApprovals - свежие решения первыми, при равенстве по critique_id
func SortApprovals(approvals []domain.Approval) {
	sort.Slice(approvals, func(i, j int) bool {
		if !approvals[i].DecidedAt.Equal(approvals[j].DecidedAt) {
			return approvals[i].DecidedAt.After(approvals[j].DecidedAt)
		}
		return approvals[i].CritiqueID < approvals[j].CritiqueID
	})
}

var (
	_ BrandRepository    = (*MockBrandRepository)(nil)
	_ ApprovalRepository = (*MockApprovalRepository)(nil)
)
