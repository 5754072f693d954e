package domain

import (
	"strings"
	"time"
)

// BrandKit - гайдлайны бренда, с которыми сравнивается реклама.
type BrandKit struct {
	BrandID         string            `json:"brand_id"`
	BrandName       string            `json:"brand_name"`
	PrimaryColors   []string          `json:"primary_colors"`
	SecondaryColors []string          `json:"secondary_colors,omitempty"`
	LogoURL         string            `json:"logo_url,omitempty"`
	Typography      map[string]string `json:"typography,omitempty"`
	ToneOfVoice     []string          `json:"tone_of_voice"`
	BrandValues     []string          `json:"brand_values,omitempty"`
	Guidelines      string            `json:"guidelines,omitempty"`
	Category        string            `json:"category,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

func (b *BrandKit) Validate() error {
	if strings.TrimSpace(b.BrandID) == "" {
		return ErrEmptyBrandID
	}
	if strings.TrimSpace(b.BrandName) == "" {
		return ErrEmptyBrandName
	}
	for _, c := range b.PrimaryColors {
		if !IsHexColor(c) {
			return ErrInvalidColor
		}
	}
	for _, c := range b.SecondaryColors {
		if !IsHexColor(c) {
			return ErrInvalidColor
		}
	}
	return nil
}

// Normalize приводит цвета к нижнему регистру с ведущей #
func (b *BrandKit) Normalize() {
	b.BrandID = strings.TrimSpace(b.BrandID)
	b.BrandName = strings.TrimSpace(b.BrandName)
	for i, c := range b.PrimaryColors {
		b.PrimaryColors[i] = NormalizeHex(c)
	}
	for i, c := range b.SecondaryColors {
		b.SecondaryColors[i] = NormalizeHex(c)
	}
	b.Category = strings.ToLower(strings.TrimSpace(b.Category))
}

// IsHexColor принимает #rgb и #rrggbb (решетка опциональна)
func IsHexColor(s string) bool {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 3 && len(s) != 6 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// NormalizeHex: "#ABC" -> "#aabbcc". Невалидные строки возвращаются как есть.
func NormalizeHex(s string) string {
	if !IsHexColor(s) {
		return s
	}
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	return "#" + s
}
