package domain

import (
	"fmt"
	"strings"
)

type DescriptionSource string

const (
	DescriptionSourceOracle   DescriptionSource = "gemini_vision"
	DescriptionSourceRaw      DescriptionSource = "gemini_vision_raw"
	DescriptionSourceFallback DescriptionSource = "fallback"
)

type VisualElements struct {
	Colors      []string `json:"colors,omitempty"`
	Objects     []string `json:"objects,omitempty"`
	Composition string   `json:"composition,omitempty"`
	Style       string   `json:"style,omitempty"`
	Quality     string   `json:"quality,omitempty"`

	// заполняются только fallback-описанием
	Dimensions      string `json:"dimensions,omitempty"`
	AspectRatio     string `json:"aspect_ratio,omitempty"`
	AverageColorRGB []int  `json:"average_color_rgb,omitempty"`
}

type TextContent struct {
	Headline  string   `json:"headline,omitempty"`
	Tagline   string   `json:"tagline,omitempty"`
	CTA       string   `json:"cta,omitempty"`
	OtherText []string `json:"other_text,omitempty"`
	FontStyle string   `json:"font_style,omitempty"`
}

type BrandElements struct {
	LogoPresent      bool     `json:"logo_present"`
	LogoPlacement    string   `json:"logo_placement,omitempty"`
	BrandNameVisible bool     `json:"brand_name_visible"`
	BrandColorsUsed  []string `json:"brand_colors_used,omitempty"`
	TypographyStyle  string   `json:"typography_style,omitempty"`
}

type MoodAndTone struct {
	EmotionalTone  string `json:"emotional_tone,omitempty"`
	TargetAudience string `json:"target_audience,omitempty"`
	MessagingTone  string `json:"messaging_tone,omitempty"`
}

type TechnicalAspects struct {
	AspectRatio     string `json:"aspect_ratio,omitempty"`
	HasWatermarks   bool   `json:"has_watermarks"`
	VisualHierarchy string `json:"visual_hierarchy,omitempty"`
	TextReadability string `json:"text_readability,omitempty"`
}

type ProductInfo struct {
	ProductDescription string `json:"product_description,omitempty"`
	ProductVisibility  string `json:"product_visibility,omitempty"`
	ProductProminence  string `json:"product_prominence,omitempty"`
}

// AdDescription - инвентарь компонентов рекламы от описывающего агента.
type AdDescription struct {
	VisualElements   VisualElements    `json:"visual_elements"`
	TextContent      TextContent       `json:"text_content"`
	BrandElements    BrandElements     `json:"brand_elements"`
	MoodAndTone      MoodAndTone       `json:"mood_and_tone"`
	TechnicalAspects TechnicalAspects  `json:"technical_aspects"`
	ProductInfo      ProductInfo       `json:"product_info"`
	Source           DescriptionSource `json:"source"`
	RawResponse      string            `json:"raw_response,omitempty"`
	ParsingError     string            `json:"parsing_error,omitempty"`
}

func (d *AdDescription) IsFallback() bool {
	return d.Source == DescriptionSourceFallback
}

// Summary - короткий текст для промпта критики и рефайнмента
func (d *AdDescription) Summary() string {
	if d == nil {
		return ""
	}
	if d.IsFallback() {
		return fmt.Sprintf("Limited description available: %s image, %s",
			d.TechnicalAspects.AspectRatio, d.VisualElements.Dimensions)
	}
	if d.Source == DescriptionSourceRaw {
		return truncate(d.RawResponse, 500)
	}

	var lines []string
	if p := d.ProductInfo.ProductDescription; p != "" {
		lines = append(lines, "Product: "+p)
	}
	if len(d.VisualElements.Colors) > 0 {
		lines = append(lines, "Colors: "+strings.Join(d.VisualElements.Colors, ", "))
	}
	if len(d.VisualElements.Objects) > 0 {
		lines = append(lines, "Objects: "+strings.Join(d.VisualElements.Objects, ", "))
	}
	if s := d.VisualElements.Style; s != "" {
		lines = append(lines, "Style: "+s)
	}
	if q := d.VisualElements.Quality; q != "" {
		lines = append(lines, "Quality: "+q)
	}
	if h := d.TextContent.Headline; h != "" {
		lines = append(lines, "Headline: "+h)
	}
	if c := d.TextContent.CTA; c != "" {
		lines = append(lines, "CTA: "+c)
	}
	if d.BrandElements.LogoPresent {
		lines = append(lines, "Logo: present "+d.BrandElements.LogoPlacement)
	} else {
		lines = append(lines, "Logo: not detected")
	}
	if t := d.MoodAndTone.EmotionalTone; t != "" {
		lines = append(lines, "Mood: "+t)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
