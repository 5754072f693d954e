package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kitbuilder587/ad-critic/internal/imaging"
)

// multipart части больше этого размера уходят во временные файлы
const multipartMemory = 32 << 20

func (s *Server) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit %d bytes", errUploadTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("%w: %v", errMissingFile, err)
	}
	return nil
}

// saveUpload сохраняет файл в каталог загрузок под случайным именем
func (s *Server) saveUpload(fh *multipart.FileHeader) (string, error) {
	if !imaging.SupportedExtension(fh.Filename) {
		return "", fmt.Errorf("%w: %q", errUnsupportedUpload, fh.Filename)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	path := filepath.Join(s.uploadDir, uuid.NewString()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	return path, nil
}
