package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kitbuilder587/ad-critic/internal/domain"
)

func (s *Server) listBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := s.brands.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.json(w, http.StatusOK, map[string]any{"items": brands})
}

func (s *Server) createBrand(w http.ResponseWriter, r *http.Request) {
	var brand domain.BrandKit
	if err := json.NewDecoder(r.Body).Decode(&brand); err != nil {
		s.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := s.brands.Create(r.Context(), &brand); err != nil {
		s.fail(w, r, err)
		return
	}
	s.json(w, http.StatusCreated, brand)
}

func (s *Server) getBrand(w http.ResponseWriter, r *http.Request) {
	brand, err := s.brands.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.json(w, http.StatusOK, brand)
}

// saveBrand создает или заменяет брендбук, id берется из пути
func (s *Server) saveBrand(w http.ResponseWriter, r *http.Request) {
	var brand domain.BrandKit
	if err := json.NewDecoder(r.Body).Decode(&brand); err != nil {
		s.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	brand.BrandID = chi.URLParam(r, "id")
	if err := s.brands.Save(r.Context(), &brand); err != nil {
		s.fail(w, r, err)
		return
	}
	s.json(w, http.StatusOK, brand)
}

func (s *Server) deleteBrand(w http.ResponseWriter, r *http.Request) {
	if err := s.brands.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
