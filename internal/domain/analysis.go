package domain

// Resolution - размер изображения в пикселях
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// VisualMetrics - детерминированные метрики качества изображения.
type VisualMetrics struct {
	Sharpness    float64    `json:"sharpness"`   // 0.0-1.0
	Composition  float64    `json:"composition"` // 0.0-1.0
	HasWatermark bool       `json:"has_watermark"`
	HasArtifacts bool       `json:"has_artifacts"`
	Resolution   Resolution `json:"resolution"`
	AspectRatio  string     `json:"aspect_ratio"` // "width:height"

	// контраст не входит в запись, нужен только fallback-критике
	Contrast float64 `json:"-"`
}

// ColorProfile - цветовой профиль изображения.
type ColorProfile struct {
	DominantColors []string `json:"dominant_colors"` // по убыванию частоты, не больше 5
	Palette        []string `json:"palette"`
	BrandMatch     float64  `json:"brand_match"` // 0 если палитры бренда нет
	Harmony        float64  `json:"harmony"`
}
