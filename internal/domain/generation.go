package domain

import "strings"

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

func (m MediaType) IsValid() bool {
	return m == MediaImage || m == MediaVideo
}

const DefaultAspectRatio = "1:1"

var supportedAspectRatios = map[string]bool{
	"1:1":  true,
	"16:9": true,
	"9:16": true,
	"4:3":  true,
	"3:4":  true,
}

// NormalizeAspectRatio возвращает 1:1 для неизвестных соотношений
func NormalizeAspectRatio(ratio string) string {
	ratio = strings.TrimSpace(ratio)
	if supportedAspectRatios[ratio] {
		return ratio
	}
	return DefaultAspectRatio
}

type GenerationRequest struct {
	Prompt      string
	MediaType   MediaType
	AspectRatio string
	Style       string
	Brand       *BrandKit
}

type GenerationResult struct {
	Success   bool   `json:"success"`
	ImagePath string `json:"image_path,omitempty"`
	Error     string `json:"error,omitempty"`
	Provider  string `json:"provider,omitempty"`
}
