package httpapi

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kitbuilder587/ad-critic/internal/domain"
)

var (
	errMissingFile       = errors.New("missing file")
	errUnsupportedUpload = errors.New("unsupported file type")
	errUploadTooLarge    = errors.New("upload too large")
)

// statusFor сопоставляет доменную ошибку с HTTP статусом и кодом ответа
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrBrandNotFound),
		errors.Is(err, domain.ErrApprovalNotFound),
		errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrDuplicateBrand):
		return http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrImageLoad):
		return http.StatusUnprocessableEntity, "image_load_failed"
	case errors.Is(err, errUploadTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, domain.ErrEmptyBrandID),
		errors.Is(err, domain.ErrEmptyBrandName),
		errors.Is(err, domain.ErrInvalidColor),
		errors.Is(err, domain.ErrEmptyPrompt),
		errors.Is(err, domain.ErrInvalidThreshold),
		errors.Is(err, domain.ErrInvalidMaxIterations),
		errors.Is(err, domain.ErrInvalidMediaType),
		errors.Is(err, domain.ErrEmptyImagePath),
		errors.Is(err, domain.ErrInvalidDecision),
		errors.Is(err, domain.ErrEmptyCritiqueID),
		errors.Is(err, errMissingFile),
		errors.Is(err, errUnsupportedUpload):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "cancelled"
	}
	return http.StatusInternalServerError, "internal"
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code, errCode := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		s.error(w, code, errCode, "internal error")
		return
	}
	s.error(w, code, errCode, err.Error())
}
