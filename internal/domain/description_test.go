package domain

import (
	"strings"
	"testing"
)

func TestAdDescription_Summary(t *testing.T) {
	t.Run("nil description", func(t *testing.T) {
		var d *AdDescription
		if got := d.Summary(); got != "" {
			t.Errorf("Summary() = %q, want empty", got)
		}
	})

	t.Run("fallback", func(t *testing.T) {
		d := &AdDescription{
			Source:           DescriptionSourceFallback,
			VisualElements:   VisualElements{Dimensions: "800x600"},
			TechnicalAspects: TechnicalAspects{AspectRatio: "landscape"},
		}
		got := d.Summary()
		if !strings.Contains(got, "landscape") || !strings.Contains(got, "800x600") {
			t.Errorf("Summary() = %q", got)
		}
	})

	t.Run("raw is truncated", func(t *testing.T) {
		d := &AdDescription{Source: DescriptionSourceRaw, RawResponse: strings.Repeat("x", 900)}
		if got := d.Summary(); len(got) != 500 {
			t.Errorf("len(Summary()) = %d, want 500", len(got))
		}
	})

	t.Run("structured", func(t *testing.T) {
		d := &AdDescription{
			Source:         DescriptionSourceOracle,
			VisualElements: VisualElements{Colors: []string{"red", "white"}, Style: "bold"},
			TextContent:    TextContent{Headline: "Run faster", CTA: "Shop now"},
			BrandElements:  BrandElements{LogoPresent: true, LogoPlacement: "top-left"},
			ProductInfo:    ProductInfo{ProductDescription: "running shoes"},
		}
		got := d.Summary()
		for _, want := range []string{"Product: running shoes", "Colors: red, white", "Headline: Run faster", "CTA: Shop now", "Logo: present top-left"} {
			if !strings.Contains(got, want) {
				t.Errorf("Summary() missing %q in %q", want, got)
			}
		}
	})
}
