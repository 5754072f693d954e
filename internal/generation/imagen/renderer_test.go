package imagen

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kitbuilder587/ad-critic/internal/llm/gemini"
)

func newTestRenderer(t *testing.T, handler http.HandlerFunc) *Renderer {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := gemini.NewGenAI(context.Background(), gemini.Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewGenAI() error = %v", err)
	}
	return New(client, Config{}, zap.NewNop())
}

func TestRenderer_Render(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake-png"))
	r := newTestRenderer(t, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"predictions":[{"bytesBase64Encoded":"`+payload+`","mimeType":"image/png"}]}`)
	})

	data, err := r.Render(context.Background(), "ad", "16:9")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(data) != "fake-png" {
		t.Errorf("Render() = %q", data)
	}
}

func TestRenderer_RenderErrors(t *testing.T) {
	t.Run("no images", func(t *testing.T) {
		r := newTestRenderer(t, func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"predictions":[]}`)
		})
		if _, err := r.Render(context.Background(), "ad", "1:1"); !errors.Is(err, ErrNoImages) {
			t.Errorf("Render() error = %v, want ErrNoImages", err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		r := newTestRenderer(t, func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, `{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`)
		})
		if _, err := r.Render(context.Background(), "ad", "1:1"); err == nil {
			t.Error("Render() error = nil")
		}
	})
}
