// Package imaging загружает растровые изображения и готовит их к анализу.
package imaging

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kitbuilder587/ad-critic/internal/domain"
)

// Image - декодированное изображение вместе с хешем исходных байт
type Image struct {
	Path   string
	Format string
	Hash   string
	Img    image.Image
	Raw    []byte
}

func (i *Image) Width() int  { return i.Img.Bounds().Dx() }
func (i *Image) Height() int { return i.Img.Bounds().Dy() }

// MIMEType по формату декодера
func (i *Image) MIMEType() string {
	switch i.Format {
	case "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "bmp":
		return "image/bmp"
	case "tiff":
		return "image/tiff"
	default:
		return "image/png"
	}
}

var supportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// SupportedExtension - принимаем ли файл с таким именем на оценку
func SupportedExtension(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Load читает и декодирует файл. Любая ошибка оборачивает domain.ErrImageLoad.
func Load(path string) (*Image, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrImageLoad, domain.ErrEmptyImagePath)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrImageLoad, path, err)
	}

	return Decode(path, raw)
}

// MaxPixels - предел площади по заголовку файла, проверяется до декодирования
const MaxPixels = 40_000_000

func Decode(path string, raw []byte) (*Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrImageLoad, path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %s: dimensions %dx%d exceed limit", domain.ErrImageLoad, path, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrImageLoad, path, err)
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: %s: empty image", domain.ErrImageLoad, path)
	}

	sum := sha256.Sum256(raw)
	return &Image{
		Path:   path,
		Format: format,
		Hash:   hex.EncodeToString(sum[:]),
		Img:    img,
		Raw:    raw,
	}, nil
}

// Downscale уменьшает изображение так, чтобы большая сторона была не больше maxDim.
// Маленькие изображения возвращаются как есть.
func Downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}

	nw, nh := maxDim, maxDim
	if w > h {
		nh = h * maxDim / w
	} else {
		nw = w * maxDim / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// RGB8 возвращает компоненты пикселя в диапазоне 0-255
func RGB8(img image.Image, x, y int) (r, g, b uint8) {
	cr, cg, cb, _ := img.At(x, y).RGBA()
	return uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8)
}
