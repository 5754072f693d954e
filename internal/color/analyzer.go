// Package color извлекает доминирующие цвета и сравнивает их с палитрой бренда.
package color

import (
	"image"
	"math"

	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/imaging"
)

// MaxRGBDistance - максимальное расстояние в RGB, округленное
const MaxRGBDistance = 441.0

type Config struct {
	KMeans       KMeansConfig
	PaletteSize  int
	SampleMaxDim int // крупные изображения уменьшаются до этой стороны перед кластеризацией
}

func DefaultConfig() Config {
	return Config{
		KMeans:       DefaultKMeansConfig(),
		PaletteSize:  6,
		SampleMaxDim: 200,
	}
}

type Analyzer struct {
	cfg Config
}

func NewAnalyzer(cfg Config) *Analyzer {
	def := DefaultConfig()
	if cfg.KMeans.K == 0 {
		cfg.KMeans = def.KMeans
	}
	if cfg.PaletteSize == 0 {
		cfg.PaletteSize = def.PaletteSize
	}
	if cfg.SampleMaxDim == 0 {
		cfg.SampleMaxDim = def.SampleMaxDim
	}
	return &Analyzer{cfg: cfg}
}

func (a *Analyzer) AnalyzeFile(path string, brandColors []string) (domain.ColorProfile, error) {
	img, err := imaging.Load(path)
	if err != nil {
		return domain.ColorProfile{}, err
	}
	return a.Analyze(img, brandColors), nil
}

func (a *Analyzer) Analyze(img *imaging.Image, brandColors []string) domain.ColorProfile {
	pts := pixels(imaging.Downscale(img.Img, a.cfg.SampleMaxDim))

	clusters := KMeans(pts, a.cfg.KMeans)
	dominant := make([]RGB, 0, len(clusters))
	for _, c := range clusters {
		dominant = append(dominant, c.Center)
	}

	return domain.ColorProfile{
		DominantColors: hexes(dominant),
		Palette:        hexes(MedianCut(pts, a.cfg.PaletteSize)),
		BrandMatch:     BrandMatch(dominant, brandColors),
		Harmony:        Harmony(dominant),
	}
}

// BrandMatch - средняя близость каждого цвета бренда к ближайшему доминирующему.
// Без цветов бренда возвращает 0.
func BrandMatch(dominant []RGB, brandColors []string) float64 {
	if len(dominant) == 0 {
		return 0
	}

	var total float64
	var n int
	for _, hex := range brandColors {
		bc, err := ParseHex(hex)
		if err != nil {
			continue
		}
		closest := math.Inf(1)
		for _, c := range dominant {
			closest = math.Min(closest, Distance(bc, c))
		}
		total += math.Max(0, 1-closest/MaxRGBDistance)
		n++
	}
	if n == 0 {
		return 0
	}
	return round3(total / float64(n))
}

// Harmony начисляет бонусы за пары комплементарных, аналоговых
// и триадных оттенков. Один цвет считается гармоничным.
func Harmony(colors []RGB) float64 {
	if len(colors) < 2 {
		return 1.0
	}

	hues := make([]float64, len(colors))
	for i, c := range colors {
		hues[i], _, _ = c.HSV()
	}

	var score float64
	for i := 0; i < len(hues); i++ {
		for j := i + 1; j < len(hues); j++ {
			diff := math.Abs(hues[i] - hues[j])
			switch {
			case diff >= 160 && diff <= 200:
				score += 0.3
			case diff <= 30:
				score += 0.2
			case (diff >= 110 && diff <= 130) || (diff >= 230 && diff <= 250):
				score += 0.25
			}
		}
	}

	pairs := float64(len(colors)*(len(colors)-1)) / 2
	return round3(math.Min(score/pairs, 1.0))
}

func pixels(img image.Image) []point {
	b := img.Bounds()
	pts := make([]point, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl := imaging.RGB8(img, x, y)
			pts = append(pts, point{float64(r), float64(g), float64(bl)})
		}
	}
	return pts
}

func hexes(colors []RGB) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = c.Hex()
	}
	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
