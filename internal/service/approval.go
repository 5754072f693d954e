package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/repository"
)

type DecideRequest struct {
	CritiqueID string          `json:"-"`
	Decision   domain.Decision `json:"decision"`
	Reviewer   string          `json:"reviewer,omitempty"`
	Notes      string          `json:"notes,omitempty"`
}

type ApprovalService interface {
	Decide(ctx context.Context, req DecideRequest) (*domain.Approval, error)
	Get(ctx context.Context, critiqueID string) (*domain.Approval, error)
	List(ctx context.Context, status domain.ReviewStatus) ([]domain.Approval, error)
}

type approvalService struct {
	repo   repository.ApprovalRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewApprovalService(repo repository.ApprovalRepository, logger *zap.Logger) ApprovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &approvalService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Decide записывает решение ревьюера. Повторное решение по той же
// критике заменяет предыдущее.
func (s *approvalService) Decide(ctx context.Context, req DecideRequest) (*domain.Approval, error) {
	approval := &domain.Approval{
		ID:         uuid.NewString(),
		CritiqueID: strings.TrimSpace(req.CritiqueID),
		Decision:   domain.Decision(strings.ToLower(strings.TrimSpace(string(req.Decision)))),
		Reviewer:   strings.TrimSpace(req.Reviewer),
		Notes:      strings.TrimSpace(req.Notes),
		DecidedAt:  s.now().UTC(),
	}
	if err := approval.Validate(); err != nil {
		return nil, err
	}
	approval.Status, _ = approval.Decision.Status()

	if err := s.repo.Save(ctx, approval); err != nil {
		return nil, err
	}

	s.logger.Info("approval decision recorded",
		zap.String("critique_id", approval.CritiqueID),
		zap.String("decision", string(approval.Decision)),
		zap.String("status", string(approval.Status)),
		zap.String("reviewer", approval.Reviewer),
	)
	return approval, nil
}

func (s *approvalService) Get(ctx context.Context, critiqueID string) (*domain.Approval, error) {
	return s.repo.GetByCritique(ctx, critiqueID)
}

func (s *approvalService) List(ctx context.Context, status domain.ReviewStatus) ([]domain.Approval, error) {
	approvals, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	if approvals == nil {
		approvals = []domain.Approval{}
	}
	return approvals, nil
}
