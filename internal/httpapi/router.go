package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kitbuilder587/ad-critic/internal/metrics"
	"github.com/kitbuilder587/ad-critic/internal/ratelimit"
	"github.com/kitbuilder587/ad-critic/internal/service"
)

const defaultMaxUploadBytes = 50_000_000

type Deps struct {
	Critic       service.CriticService
	Batch        service.BatchService
	Orchestrator service.Orchestrator
	Brands       service.BrandService
	Approvals    service.ApprovalService
	Limiter      *ratelimit.Limiter // nil - без ограничения
	Logger       *zap.Logger
	Metrics      *metrics.Metrics

	UploadDir      string
	MaxUploadBytes int64
}

type Server struct {
	critic       service.CriticService
	batch        service.BatchService
	orchestrator service.Orchestrator
	brands       service.BrandService
	approvals    service.ApprovalService
	limiter      *ratelimit.Limiter
	logger       *zap.Logger
	metrics      *metrics.Metrics

	uploadDir      string
	maxUploadBytes int64
}

func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxBytes := deps.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	uploadDir := deps.UploadDir
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	return &Server{
		critic:         deps.Critic,
		batch:          deps.Batch,
		orchestrator:   deps.Orchestrator,
		brands:         deps.Brands,
		approvals:      deps.Approvals,
		limiter:        deps.Limiter,
		logger:         logger,
		metrics:        deps.Metrics,
		uploadDir:      uploadDir,
		maxUploadBytes: maxBytes,
	}
}

func NewRouter(deps Deps) http.Handler {
	return NewServer(deps).Routes()
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		s.requestLogger,
	)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/critique", s.critique)
			r.Post("/critique/batch", s.critiqueBatch)
			r.Post("/refine", s.refine)
		})

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", s.listBrands)
			r.Post("/", s.createBrand)
			r.Get("/{id}", s.getBrand)
			r.Put("/{id}", s.saveBrand)
			r.Delete("/{id}", s.deleteBrand)
		})

		r.Route("/approvals", func(r chi.Router) {
			r.Get("/", s.listApprovals)
			r.Get("/{critiqueID}", s.getApproval)
			r.Post("/{critiqueID}", s.decide)
		})
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) error(w http.ResponseWriter, code int, errCode, message string) {
	s.json(w, code, map[string]string{"error": errCode, "message": message})
}
