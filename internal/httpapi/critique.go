package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/service"
)

func (s *Server) critique(w http.ResponseWriter, r *http.Request) {
	if err := s.parseMultipart(w, r); err != nil {
		s.fail(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		s.error(w, http.StatusBadRequest, "bad_request", "file is required")
		return
	}

	brand, err := s.lookupBrand(r, r.FormValue("brand_id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	path, err := s.saveUpload(files[0])
	if err != nil {
		s.fail(w, r, err)
		return
	}

	critique, err := s.critic.CritiqueImage(r.Context(), service.CritiqueRequest{
		ImagePath:   path,
		Brand:       brand,
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info("critique served",
		zap.String("filename", files[0].Filename),
		zap.Float64("overall_score", critique.OverallScore),
		zap.Bool("ready_to_deploy", critique.ReadyToDeploy),
	)
	s.json(w, http.StatusOK, critique)
}

func (s *Server) critiqueBatch(w http.ResponseWriter, r *http.Request) {
	if err := s.parseMultipart(w, r); err != nil {
		s.fail(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.error(w, http.StatusBadRequest, "bad_request", "files are required")
		return
	}

	brand, err := s.lookupBrand(r, r.FormValue("brand_id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	items := make([]service.BatchItem, 0, len(files))
	for _, fh := range files {
		path, err := s.saveUpload(fh)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		items = append(items, service.BatchItem{Filename: fh.Filename, Path: path})
	}

	s.json(w, http.StatusOK, s.batch.Critique(r.Context(), items, brand))
}

// lookupBrand - пустой id означает оценку без брендбука
func (s *Server) lookupBrand(r *http.Request, brandID string) (*domain.BrandKit, error) {
	brandID = strings.TrimSpace(brandID)
	if brandID == "" || s.brands == nil {
		return nil, nil
	}
	return s.brands.Get(r.Context(), brandID)
}
