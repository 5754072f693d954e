// Package synthetic - офлайн-генератор. Рисует детерминированную картинку,
// зерно которой берется из sha256 промпта, поэтому прогоны воспроизводимы без сети.
package synthetic

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/kitbuilder587/ad-critic/internal/generation"
)

const baseSize = 512

type Renderer struct {
	base int
}

func New() *Renderer {
	return &Renderer{base: baseSize}
}

func (r *Renderer) Name() string {
	return "synthetic"
}

func (r *Renderer) Render(ctx context.Context, prompt, aspectRatio string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	width, height := Dimensions(aspectRatio, r.base)
	seed := sha256.Sum256([]byte(prompt))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	top := colorFromSeed(seed, 0)
	bottom := colorFromSeed(seed, 1)
	for y := 0; y < height; y++ {
		c := lerp(top, bottom, float64(y)/float64(max(height-1, 1)))
		draw.Draw(img, image.Rect(0, y, width, y+1), &image.Uniform{c}, image.Point{}, draw.Src)
	}

	accent := colorFromSeed(seed, 2)
	stripe := max(8, height/(8+int(seed[9]%8)))
	for y := stripe; y < height; y += stripe * 3 {
		rect := image.Rect(0, y, width, min(height, y+stripe/2))
		draw.Draw(img, rect, &image.Uniform{accent}, image.Point{}, draw.Src)
	}

	// "продукт" - прямоугольник, смещенный по зерну
	block := colorFromSeed(seed, 3)
	bw, bh := width/3, height/3
	x0 := int(seed[12]) % max(width-bw, 1)
	y0 := int(seed[13]) % max(height-bh, 1)
	draw.Draw(img, image.Rect(x0, y0, x0+bw, y0+bh), &image.Uniform{block}, image.Point{}, draw.Src)

	diagonal := colorFromSeed(seed, 4)
	step := max(16, width/(12+int(seed[14]%20)))
	for i := 0; i < width; i += step {
		for y := 0; y < height; y++ {
			x := i + y
			if x >= width {
				break
			}
			img.Set(x, y, diagonal)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Dimensions переводит соотношение сторон в размер кадра с короткой стороной base
func Dimensions(aspectRatio string, base int) (int, int) {
	switch aspectRatio {
	case "16:9":
		return base * 16 / 9, base
	case "9:16":
		return base, base * 16 / 9
	case "4:3":
		return base * 4 / 3, base
	case "3:4":
		return base, base * 4 / 3
	default:
		return base, base
	}
}

func colorFromSeed(seed [32]byte, shift int) color.RGBA {
	i := (shift * 3) % (len(seed) - 2)
	return color.RGBA{R: seed[i], G: seed[i+1], B: seed[i+2], A: 255}
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

var _ generation.Renderer = (*Renderer)(nil)
