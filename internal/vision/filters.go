package vision

import (
	"github.com/kitbuilder587/ad-critic/internal/imaging"
)

type kernel3 [3][3]float64

var (
	laplacianKernel = kernel3{
		{0, 1, 0},
		{1, -4, 1},
		{0, 1, 0},
	}
	highPassKernel = kernel3{
		{-1, -1, -1},
		{-1, 8, -1},
		{-1, -1, -1},
	}
)

// LaplacianVariance - дисперсия отклика лапласиана, без насыщения
func LaplacianVariance(p *imaging.Plane) float64 {
	return variance(convolve(p, laplacianKernel, false))
}

// HighPassVariance - дисперсия отклика high-pass фильтра.
// Отклик насыщается в 0-255, как у 8-битного выхода.
func HighPassVariance(p *imaging.Plane) float64 {
	return variance(convolve(p, highPassKernel, true))
}

// convolve с отражением границы без повтора крайнего пикселя (reflect-101)
func convolve(p *imaging.Plane, k kernel3, saturate bool) []float64 {
	out := make([]float64, len(p.Pix))
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			var acc float64
			for ky := -1; ky <= 1; ky++ {
				yy := reflect101(y+ky, p.H)
				for kx := -1; kx <= 1; kx++ {
					w := k[ky+1][kx+1]
					if w == 0 {
						continue
					}
					acc += w * p.At(reflect101(x+kx, p.W), yy)
				}
			}
			if saturate {
				acc = min(max(acc, 0), 255)
			}
			out[y*p.W+x] = acc
		}
	}
	return out
}

func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	if i < 0 {
		return -i
	}
	if i >= n {
		return 2*n - 2 - i
	}
	return i
}

func variance(vals []float64) float64 {
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
		d := v - mean
		sq += d * d
	}
	return sq / float64(len(vals))
}
