package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/kitbuilder587/ad-critic/internal/domain"
)

type refineResponse struct {
	*domain.WorkflowResult
	Summary string `json:"summary,omitempty"`
}

func (s *Server) refine(w http.ResponseWriter, r *http.Request) {
	var req domain.WorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	brand, err := s.lookupBrand(r, req.BrandID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	req.Brand = brand

	result, err := s.orchestrator.Run(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := refineResponse{WorkflowResult: result}
	if v := r.URL.Query().Get("summary"); v == "1" || v == "true" {
		resp.Summary = result.Summary()
	}
	s.json(w, http.StatusOK, resp)
}
