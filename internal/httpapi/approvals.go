package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/service"
)

func (s *Server) decide(w http.ResponseWriter, r *http.Request) {
	var req service.DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.CritiqueID = chi.URLParam(r, "critiqueID")

	approval, err := s.approvals.Decide(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.json(w, http.StatusOK, approval)
}

func (s *Server) getApproval(w http.ResponseWriter, r *http.Request) {
	approval, err := s.approvals.Get(r.Context(), chi.URLParam(r, "critiqueID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.json(w, http.StatusOK, approval)
}

func (s *Server) listApprovals(w http.ResponseWriter, r *http.Request) {
	approvals, err := s.approvals.List(r.Context(), domain.ReviewStatus(r.URL.Query().Get("status")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.json(w, http.StatusOK, map[string]any{"items": approvals})
}
