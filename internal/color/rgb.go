package color

import (
	"fmt"
	"math"
	"strconv"

	"github.com/kitbuilder587/ad-critic/internal/domain"
)

// RGB - цвет в 8-битных компонентах
type RGB struct {
	R, G, B uint8
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex принимает #rgb и #rrggbb
func ParseHex(s string) (RGB, error) {
	if !domain.IsHexColor(s) {
		return RGB{}, fmt.Errorf("%w: %q", domain.ErrInvalidColor, s)
	}
	norm := domain.NormalizeHex(s)
	v, err := strconv.ParseUint(norm[1:], 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", domain.ErrInvalidColor, s)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Distance - евклидово расстояние в RGB
func Distance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// HSV: h в градусах [0,360), s и v в [0,1]
func (c RGB) HSV() (h, s, v float64) {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	maxV := math.Max(r, math.Max(g, b))
	minV := math.Min(r, math.Min(g, b))
	diff := maxV - minV

	switch {
	case diff == 0:
		h = 0
	case maxV == r:
		h = math.Mod(60*((g-b)/diff)+360, 360)
	case maxV == g:
		h = math.Mod(60*((b-r)/diff)+120, 360)
	default:
		h = math.Mod(60*((r-g)/diff)+240, 360)
	}

	if maxV != 0 {
		s = diff / maxV
	}
	return h, s, maxV
}
