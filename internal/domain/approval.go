package domain

import (
	"strings"
	"time"
)

type Decision string

const (
	DecisionApprove         Decision = "approve"
	DecisionReject          Decision = "reject"
	DecisionRequestRevision Decision = "request_revision"
)

type ReviewStatus string

const (
	ReviewApproved      ReviewStatus = "approved_for_deployment"
	ReviewRejected      ReviewStatus = "rejected"
	ReviewNeedsRevision ReviewStatus = "needs_revision"
)

// Status возвращает статус, в который переводит решение ревьюера
func (d Decision) Status() (ReviewStatus, bool) {
	switch d {
	case DecisionApprove:
		return ReviewApproved, true
	case DecisionReject:
		return ReviewRejected, true
	case DecisionRequestRevision:
		return ReviewNeedsRevision, true
	}
	return "", false
}

// Approval - решение человека по конкретной критике.
type Approval struct {
	ID         string       `json:"id"`
	CritiqueID string       `json:"critique_id"`
	Decision   Decision     `json:"decision"`
	Status     ReviewStatus `json:"status"`
	Reviewer   string       `json:"reviewer,omitempty"`
	Notes      string       `json:"notes,omitempty"`
	DecidedAt  time.Time    `json:"decided_at"`
}

func (a *Approval) Validate() error {
	if strings.TrimSpace(a.CritiqueID) == "" {
		return ErrEmptyCritiqueID
	}
	status, ok := a.Decision.Status()
	if !ok {
		return ErrInvalidDecision
	}
	if a.Status != "" && a.Status != status {
		return ErrInvalidDecision
	}
	return nil
}
