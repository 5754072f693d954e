package imaging

import (
	"image"
	"math"
)

// Plane - одноканальное изображение в float64, значения 0-255.
type Plane struct {
	W, H int
	Pix  []float64
}

func NewPlane(w, h int) *Plane {
	return &Plane{W: w, H: h, Pix: make([]float64, w*h)}
}

func (p *Plane) At(x, y int) float64 {
	return p.Pix[y*p.W+x]
}

func (p *Plane) Set(x, y int, v float64) {
	p.Pix[y*p.W+x] = v
}

// Grayscale переводит изображение в яркость с весами BT.601 и округлением до целого,
// как 8-битный серый канал
func Grayscale(img image.Image) *Plane {
	b := img.Bounds()
	p := NewPlane(b.Dx(), b.Dy())

	// быстрый путь для самых частых типов
	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < p.H; y++ {
			for x := 0; x < p.W; x++ {
				p.Set(x, y, float64(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y))
			}
		}
		return p
	case *image.RGBA:
		for y := 0; y < p.H; y++ {
			for x := 0; x < p.W; x++ {
				c := src.RGBAAt(b.Min.X+x, b.Min.Y+y)
				p.Set(x, y, luma(c.R, c.G, c.B))
			}
		}
		return p
	}

	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			r, g, bl := RGB8(img, b.Min.X+x, b.Min.Y+y)
			p.Set(x, y, luma(r, g, bl))
		}
	}
	return p
}

func luma(r, g, b uint8) float64 {
	return math.Round(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b))
}

// Region - прямоугольная область плоскости [x0,x1) x [y0,y1)
type Region struct {
	X0, Y0, X1, Y1 int
}

func (r Region) Empty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// MeanStd - среднее и стандартное отклонение (по генеральной совокупности)
func (p *Plane) MeanStd(r Region) (mean, std float64) {
	if r.Empty() {
		return 0, 0
	}
	var sum, sumSq float64
	n := float64((r.X1 - r.X0) * (r.Y1 - r.Y0))
	for y := r.Y0; y < r.Y1; y++ {
		row := p.Pix[y*p.W : (y+1)*p.W]
		for x := r.X0; x < r.X1; x++ {
			v := row[x]
			sum += v
			sumSq += v * v
		}
	}
	mean = sum / n
	variance := sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

// Bounds - вся плоскость
func (p *Plane) Bounds() Region {
	return Region{0, 0, p.W, p.H}
}

// ColorStd - стандартное отклонение по всем значениям R, G, B области.
// Считается по цветному изображению, а не по яркости.
func ColorStd(img image.Image, r Region) float64 {
	if r.Empty() {
		return 0
	}
	b := img.Bounds()
	var sum, sumSq float64
	for y := r.Y0; y < r.Y1; y++ {
		for x := r.X0; x < r.X1; x++ {
			cr, cg, cb := RGB8(img, b.Min.X+x, b.Min.Y+y)
			for _, v := range [3]float64{float64(cr), float64(cg), float64(cb)} {
				sum += v
				sumSq += v * v
			}
		}
	}
	n := float64((r.X1-r.X0)*(r.Y1-r.Y0)) * 3
	mean := sum / n
	variance := sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}
