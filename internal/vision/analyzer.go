// Package vision считает детерминированные метрики качества изображения.
package vision

import (
	"fmt"
	"math"

	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/imaging"
)

// Config - эмпирические константы метрик. Не подбираются под изображение.
type Config struct {
	SharpnessDivisor    float64
	CompositionDivisor  float64
	BrightnessLow       float64
	BrightnessHigh      float64
	BrightnessPenalty   float64
	WatermarkRatio      float64
	WatermarkNoiseFloor float64
	ArtifactThreshold   float64
	ContrastDivisor     float64
}

func DefaultConfig() Config {
	return Config{
		SharpnessDivisor:    500,
		CompositionDivisor:  50,
		BrightnessLow:       50,
		BrightnessHigh:      200,
		BrightnessPenalty:   0.2,
		WatermarkRatio:      0.5,
		WatermarkNoiseFloor: 5,
		ArtifactThreshold:   1000,
		ContrastDivisor:     100,
	}
}

type Analyzer struct {
	cfg Config
}

func NewAnalyzer(cfg Config) *Analyzer {
	def := DefaultConfig()
	if cfg.SharpnessDivisor == 0 {
		cfg.SharpnessDivisor = def.SharpnessDivisor
	}
	if cfg.CompositionDivisor == 0 {
		cfg.CompositionDivisor = def.CompositionDivisor
	}
	if cfg.BrightnessLow == 0 && cfg.BrightnessHigh == 0 {
		cfg.BrightnessLow = def.BrightnessLow
		cfg.BrightnessHigh = def.BrightnessHigh
	}
	if cfg.BrightnessPenalty == 0 {
		cfg.BrightnessPenalty = def.BrightnessPenalty
	}
	if cfg.WatermarkRatio == 0 {
		cfg.WatermarkRatio = def.WatermarkRatio
	}
	if cfg.WatermarkNoiseFloor == 0 {
		cfg.WatermarkNoiseFloor = def.WatermarkNoiseFloor
	}
	if cfg.ArtifactThreshold == 0 {
		cfg.ArtifactThreshold = def.ArtifactThreshold
	}
	if cfg.ContrastDivisor == 0 {
		cfg.ContrastDivisor = def.ContrastDivisor
	}
	return &Analyzer{cfg: cfg}
}

// AnalyzeFile загружает файл и считает метрики
func (a *Analyzer) AnalyzeFile(path string) (domain.VisualMetrics, error) {
	img, err := imaging.Load(path)
	if err != nil {
		return domain.VisualMetrics{}, err
	}
	return a.Analyze(img), nil
}

func (a *Analyzer) Analyze(img *imaging.Image) domain.VisualMetrics {
	gray := imaging.Grayscale(img.Img)
	w, h := gray.W, gray.H

	return domain.VisualMetrics{
		Sharpness:    a.SharpnessScore(LaplacianVariance(gray)),
		Composition:  a.composition(gray),
		HasWatermark: a.hasWatermark(img, gray),
		HasArtifacts: HighPassVariance(gray) > a.cfg.ArtifactThreshold,
		Resolution:   domain.Resolution{Width: w, Height: h},
		AspectRatio:  fmt.Sprintf("%d:%d", w, h),
		Contrast:     a.contrast(gray),
	}
}

// SharpnessScore - дисперсия лапласиана, отнормированная делителем
func (a *Analyzer) SharpnessScore(variance float64) float64 {
	return round3(clamp01(variance / a.cfg.SharpnessDivisor))
}

// CompositionScore по разбросу средних ячеек 3x3 и общей яркости
func (a *Analyzer) CompositionScore(cellStd, brightness float64) float64 {
	score := clamp01(cellStd / a.cfg.CompositionDivisor)
	if brightness < a.cfg.BrightnessLow || brightness > a.cfg.BrightnessHigh {
		score -= a.cfg.BrightnessPenalty
	}
	return round3(math.Max(0, score))
}

func (a *Analyzer) composition(gray *imaging.Plane) float64 {
	hThird, wThird := gray.H/3, gray.W/3
	if hThird == 0 || wThird == 0 {
		return 0
	}

	means := make([]float64, 0, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m, _ := gray.MeanStd(imaging.Region{
				X0: j * wThird, Y0: i * hThird,
				X1: (j + 1) * wThird, Y1: (i + 1) * hThird,
			})
			means = append(means, m)
		}
	}

	brightness, _ := gray.MeanStd(gray.Bounds())
	return a.CompositionScore(populationStd(means), brightness)
}

// hasWatermark: угол заметно однороднее центра, но не пустой
func (a *Analyzer) hasWatermark(img *imaging.Image, gray *imaging.Plane) bool {
	w, h := gray.W, gray.H
	size := min(w, h) / 8
	if size == 0 {
		return false
	}

	center := imaging.Region{X0: w / 3, Y0: h / 3, X1: 2 * w / 3, Y1: 2 * h / 3}
	centerStd := imaging.ColorStd(img.Img, center)

	corners := []imaging.Region{
		{X0: 0, Y0: 0, X1: size, Y1: size},
		{X0: w - size, Y0: 0, X1: w, Y1: size},
		{X0: 0, Y0: h - size, X1: size, Y1: h},
		{X0: w - size, Y0: h - size, X1: w, Y1: h},
	}
	for _, c := range corners {
		std := imaging.ColorStd(img.Img, c)
		if std < centerStd*a.cfg.WatermarkRatio && std > a.cfg.WatermarkNoiseFloor {
			return true
		}
	}
	return false
}

func (a *Analyzer) contrast(gray *imaging.Plane) float64 {
	_, std := gray.MeanStd(gray.Bounds())
	return round3(clamp01(std / a.cfg.ContrastDivisor))
}

func populationStd(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))
	var sq float64
	for _, v := range vals {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(vals)))
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
