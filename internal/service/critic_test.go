package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kitbuilder587/ad-critic/internal/cache/memory"
	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/llm"
	llmMock "github.com/kitbuilder587/ad-critic/internal/llm/mock"
	"github.com/kitbuilder587/ad-critic/internal/llm/offline"
	"github.com/kitbuilder587/ad-critic/internal/metrics"
	"github.com/kitbuilder587/ad-critic/internal/vision"
)

func newTestCritic(oracle llm.Client, m *metrics.Metrics) CriticService {
	return NewCriticService(CriticServiceDeps{
		Oracle:  oracle,
		Logger:  zap.NewNop(),
		Metrics: m,
	})
}

func TestCriticService_OracleCritique(t *testing.T) {
	path := writeTestImage(t, "ad.png", 120, 90)
	oracle := llmMock.New().WithResponse(goodCritiqueJSON)
	svc := newTestCritic(oracle, nil)

	brand := &domain.BrandKit{
		BrandID:       "acme",
		BrandName:     "Acme",
		PrimaryColors: []string{"#141414"},
		ToneOfVoice:   []string{"bold"},
	}

	critique, err := svc.CritiqueImage(context.Background(), CritiqueRequest{
		ImagePath:   path,
		Brand:       brand,
		Description: "Sneakers on a dark square",
		Category:    "retail",
	})
	if err != nil {
		t.Fatalf("CritiqueImage() error = %v", err)
	}

	if !critique.AIAnalysisAvailable() {
		t.Error("expected ai_analysis_available = true")
	}
	if critique.OverallConfidence != 0.88 {
		t.Errorf("OverallConfidence = %v, want 0.88", critique.OverallConfidence)
	}
	if critique.SafetyEthics.Score != 1.0 {
		t.Errorf("safety = %v, want 1.0", critique.SafetyEthics.Score)
	}
	if critique.AdURL != path || critique.BrandID != "acme" {
		t.Errorf("AdURL=%q BrandID=%q", critique.AdURL, critique.BrandID)
	}
	if critique.DetectedElements["has_logo"] != true {
		t.Error("oracle detected elements should be kept")
	}

	if len(oracle.AllCalls) != 1 || !oracle.AllCalls[0].HasImage {
		t.Fatalf("oracle calls = %+v, want one call with image", oracle.AllCalls)
	}
	for _, want := range []string{"Brand: Acme", "#141414", "Sneakers on a dark square", "Category-specific rules (retail)"} {
		if !strings.Contains(oracle.LastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestCriticService_FallbackOnUnparsableResponse(t *testing.T) {
	path := writeTestImage(t, "ad.png", 120, 90)
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	oracle := llmMock.New().WithResponse("I think the ad scores 0.99 everywhere!")
	svc := newTestCritic(oracle, m)

	critique, err := svc.CritiqueImage(context.Background(), CritiqueRequest{ImagePath: path})
	if err != nil {
		t.Fatalf("CritiqueImage() error = %v", err)
	}

	if critique.AIAnalysisAvailable() {
		t.Error("fallback critique must report ai_analysis_available = false")
	}

	visual, err := vision.NewAnalyzer(vision.DefaultConfig()).AnalyzeFile(path)
	if err != nil {
		t.Fatalf("AnalyzeFile() error = %v", err)
	}
	wantVisual := (visual.Sharpness + visual.Composition) / 2
	if !almostEqual(critique.VisualQuality.Score, wantVisual) {
		t.Errorf("visual = %v, want %v", critique.VisualQuality.Score, wantVisual)
	}
	if !almostEqual(critique.MessageClarity.Score, visual.Contrast) {
		t.Errorf("clarity = %v, want contrast %v", critique.MessageClarity.Score, visual.Contrast)
	}
	if critique.SafetyEthics.Score == 0.99 || critique.BrandAlignment.Score == 0.99 {
		t.Error("scores must not come from the discarded text")
	}
	if !critique.NeedsManualReview {
		t.Error("fallback critique should need manual review")
	}

	if got := testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("critique", "parse")); got != 1 {
		t.Errorf("fallbacks{parse} = %v, want 1", got)
	}
}

func TestCriticService_FallbackOnOracleFailure(t *testing.T) {
	path := writeTestImage(t, "ad.png", 64, 64)

	tests := []struct {
		name   string
		oracle llm.Client
		reason string
	}{
		{"request error", llmMock.New().WithError(llm.ErrRequestFailed), "error"},
		{"offline", offline.New(), "unavailable"},
		{"nil oracle", nil, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.NewWithRegistry(prometheus.NewRegistry())
			svc := newTestCritic(tt.oracle, m)

			critique, err := svc.CritiqueImage(context.Background(), CritiqueRequest{ImagePath: path})
			if err != nil {
				t.Fatalf("oracle failure must not propagate: %v", err)
			}
			if critique.AIAnalysisAvailable() {
				t.Error("expected fallback critique")
			}
			if got := testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("critique", tt.reason)); got != 1 {
				t.Errorf("fallbacks{%s} = %v, want 1", tt.reason, got)
			}
		})
	}
}

func TestCriticService_OracleTimeout(t *testing.T) {
	path := writeTestImage(t, "ad.png", 64, 64)
	oracle := llmMock.New().WithResponse(goodCritiqueJSON).WithDelay(time.Second)

	svc := NewCriticService(CriticServiceDeps{
		Oracle: oracle,
		Logger: zap.NewNop(),
		Config: CriticConfig{OracleTimeout: 20 * time.Millisecond},
	})

	start := time.Now()
	critique, err := svc.CritiqueImage(context.Background(), CritiqueRequest{ImagePath: path})
	if err != nil {
		t.Fatalf("CritiqueImage() error = %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("oracle timeout was not applied")
	}
	if critique.AIAnalysisAvailable() {
		t.Error("timed out oracle should produce a fallback critique")
	}
}

func TestCriticService_ImageLoadErrors(t *testing.T) {
	svc := newTestCritic(llmMock.New(), nil)

	corrupt := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(corrupt, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want error
	}{
		{"empty path", "", domain.ErrEmptyImagePath},
		{"missing file", filepath.Join(t.TempDir(), "nope.png"), domain.ErrImageLoad},
		{"corrupt file", corrupt, domain.ErrImageLoad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CritiqueImage(context.Background(), CritiqueRequest{ImagePath: tt.path})
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCriticService_Cache(t *testing.T) {
	path := writeTestImage(t, "ad.png", 64, 64)
	oracle := llmMock.New().WithResponse(goodCritiqueJSON)
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	svc := NewCriticService(CriticServiceDeps{
		Oracle:  oracle,
		Cache:   memory.New[*domain.Critique](),
		Logger:  zap.NewNop(),
		Metrics: m,
	})

	ctx := context.Background()
	first, err := svc.CritiqueImage(ctx, CritiqueRequest{ImagePath: path})
	if err != nil {
		t.Fatalf("first call error = %v", err)
	}
	second, err := svc.CritiqueImage(ctx, CritiqueRequest{ImagePath: path})
	if err != nil {
		t.Fatalf("second call error = %v", err)
	}
	if first.CritiqueID == second.CritiqueID {
		t.Error("cache hit should be issued as a new critique")
	}
	if second.OverallScore != first.OverallScore || second.AdURL != path {
		t.Errorf("cached critique = score %v, ad_url %q", second.OverallScore, second.AdURL)
	}

	// те же байты под другим путем - из кеша, но с новым ad_url
	copyPath := filepath.Join(t.TempDir(), "copy.png")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(copyPath, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	fromCopy, err := svc.CritiqueImage(ctx, CritiqueRequest{ImagePath: copyPath})
	if err != nil {
		t.Fatalf("copy call error = %v", err)
	}
	if fromCopy.AdURL != copyPath {
		t.Errorf("AdURL = %q, want %q", fromCopy.AdURL, copyPath)
	}

	// другой бренд - другой ключ
	_, err = svc.CritiqueImage(ctx, CritiqueRequest{ImagePath: path, Brand: &domain.BrandKit{BrandID: "acme", BrandName: "Acme"}})
	if err != nil {
		t.Fatalf("third call error = %v", err)
	}

	if oracle.Calls() != 2 {
		t.Errorf("oracle calls = %d, want 2", oracle.Calls())
	}
	if got := testutil.ToFloat64(m.CacheHitsTotal); got != 2 {
		t.Errorf("cache hits = %v, want 2", got)
	}
}

func TestCriticService_FallbackNotCached(t *testing.T) {
	path := writeTestImage(t, "ad.png", 64, 64)

	calls := 0
	oracle := llmMock.New().WithHandler(func(req llm.Request) (string, error) {
		calls++
		if calls == 1 {
			return "", llm.ErrRequestFailed
		}
		return goodCritiqueJSON, nil
	})

	svc := NewCriticService(CriticServiceDeps{
		Oracle: oracle,
		Cache:  memory.New[*domain.Critique](),
		Logger: zap.NewNop(),
	})

	ctx := context.Background()
	first, err := svc.CritiqueImage(ctx, CritiqueRequest{ImagePath: path})
	if err != nil {
		t.Fatalf("first call error = %v", err)
	}
	if first.AIAnalysisAvailable() {
		t.Fatal("first call should fall back")
	}

	second, err := svc.CritiqueImage(ctx, CritiqueRequest{ImagePath: path})
	if err != nil {
		t.Fatalf("second call error = %v", err)
	}
	if !second.AIAnalysisAvailable() {
		t.Error("second call should reach the oracle instead of the cached fallback")
	}
	if first.CritiqueID == second.CritiqueID {
		t.Error("second call returned the fallback critique")
	}
	if oracle.Calls() != 2 {
		t.Errorf("oracle calls = %d, want 2", oracle.Calls())
	}

	if _, err := svc.CritiqueImage(ctx, CritiqueRequest{ImagePath: path}); err != nil {
		t.Fatal(err)
	}
	if oracle.Calls() != 2 {
		t.Errorf("successful critique should be cached, oracle calls = %d", oracle.Calls())
	}
}

func TestCriticService_Cancelled(t *testing.T) {
	path := writeTestImage(t, "ad.png", 64, 64)
	svc := newTestCritic(llmMock.New().WithDelay(time.Second), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.CritiqueImage(ctx, CritiqueRequest{ImagePath: path}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
