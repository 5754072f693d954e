package telegram

import (
	"strings"
	"testing"

	"github.com/kitbuilder587/ad-critic/internal/domain"
)

func TestFormatCritique(t *testing.T) {
	c := &domain.Critique{
		CritiqueID:         "c-42",
		OverallScore:       0.66,
		OverallLevel:       domain.LevelFair,
		ReviewWarning:      "Manual review recommended: <low>",
		BrandAlignment:     domain.DimensionScore{Score: 0.5, Confidence: 0.5},
		SafetyEthics:       domain.DimensionScore{Score: 0.9, Confidence: 0.8},
		ImprovementsNeeded: []string{"Brand: use brand colors & logo"},
		DetectedElements:   map[string]any{"ai_analysis_available": false},
	}

	got := FormatCritique(c)
	for _, want := range []string{
		"Оценка: 0.66 (fair)",
		"Готово к размещению: нет",
		"оценка по эвристикам",
		"&lt;low&gt;",
		"Бренд: 0.50 (уверенность 50%)",
		"Безопасность: 0.90 (уверенность 80%)",
		"colors &amp; logo",
		"<code>c-42</code>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatCritique() missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatWorkflow(t *testing.T) {
	r := &domain.WorkflowResult{
		Iterations: []domain.IterationRecord{{Index: 1, OverallScore: 0.5, Status: domain.StatusCancelled}},
		Cancelled:  true,
	}
	got := FormatWorkflow(r)
	if !strings.HasPrefix(got, "<pre>") || !strings.Contains(got, "прерван") || !strings.Contains(got, "Ни одна итерация") {
		t.Errorf("FormatWorkflow() = %s", got)
	}
}

func TestFormatBrandList(t *testing.T) {
	if got := FormatBrandList(nil); got != "Брендбуков пока нет." {
		t.Errorf("empty list = %q", got)
	}

	got := FormatBrandList([]domain.BrandKit{
		{BrandID: "acme", BrandName: "Acme & Co", PrimaryColors: []string{"#ff0000"}},
		{BrandID: "zeta", BrandName: "Zeta"},
	})
	if !strings.Contains(got, "#acme - Acme &amp; Co [#ff0000]") || !strings.Contains(got, "Всего: 2") {
		t.Errorf("FormatBrandList() = %s", got)
	}
}

func TestSplitMessage(t *testing.T) {
	if parts := SplitMessage("short", 100); len(parts) != 1 {
		t.Errorf("short text split into %d parts", len(parts))
	}

	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("строка с текстом\n")
	}
	text := sb.String()

	parts := SplitMessage(text, 100)
	if len(parts) < 2 {
		t.Fatalf("expected several parts, got %d", len(parts))
	}
	for i, p := range parts {
		if len(p) > 100 {
			t.Errorf("part %d has %d bytes", i, len(p))
		}
	}
	if strings.Join(parts, "") != text {
		t.Error("parts do not add up to the original text")
	}

	long := strings.Repeat("x", 250)
	parts = SplitMessage(long, 100)
	if len(parts) != 3 || strings.Join(parts, "") != long {
		t.Errorf("long line split = %d parts", len(parts))
	}
}
