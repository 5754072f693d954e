package imaging

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kitbuilder587/ad-critic/internal/domain"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestSupportedExtension(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"ad.png", true},
		{"AD.JPG", true},
		{"banner.jpeg", true},
		{"story.webp", true},
		{"scan.tiff", true},
		{"brief.pdf", false},
		{"noext", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := SupportedExtension(tt.name); got != tt.want {
			t.Errorf("SupportedExtension(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ad.png")
	if err := os.WriteFile(path, encodePNG(t, 40, 20), 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if img.Width() != 40 || img.Height() != 20 {
		t.Errorf("size = %dx%d", img.Width(), img.Height())
	}
	if img.Format != "png" || img.MIMEType() != "image/png" {
		t.Errorf("format = %q, mime = %q", img.Format, img.MIMEType())
	}
	if len(img.Hash) != 64 {
		t.Errorf("hash = %q", img.Hash)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Hash != img.Hash {
		t.Error("hash is not stable for the same bytes")
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"missing file", filepath.Join(dir, "missing.png")},
		{"undecodable", garbage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); !errors.Is(err, domain.ErrImageLoad) {
				t.Errorf("Load() error = %v, want ErrImageLoad", err)
			}
		})
	}

	if _, err := Load(""); !errors.Is(err, domain.ErrEmptyImagePath) {
		t.Errorf("empty path error = %v, want ErrEmptyImagePath", err)
	}
}

// withDeclaredSize переписывает ширину и высоту в IHDR и пересчитывает CRC
func withDeclaredSize(raw []byte, w, h uint32) []byte {
	out := append([]byte(nil), raw...)
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestDecode_DimensionLimit(t *testing.T) {
	raw := encodePNG(t, 4, 4)

	tests := []struct {
		name    string
		w, h    uint32
		wantErr bool
	}{
		{"declared huge", 100_000, 100_000, true},
		{"just over limit", MaxPixels/1000 + 1, 1000, true},
		{"declared as is", 4, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode("bomb.png", withDeclaredSize(raw, tt.w, tt.h))
			if tt.wantErr {
				if !errors.Is(err, domain.ErrImageLoad) || !strings.Contains(err.Error(), "exceed limit") {
					t.Errorf("Decode() error = %v, want dimension limit", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Decode() error = %v", err)
			}
		})
	}
}

func TestDecode_JPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil); err != nil {
		t.Fatal(err)
	}

	img, err := Decode("mem.jpg", buf.Bytes())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if img.MIMEType() != "image/jpeg" {
		t.Errorf("mime = %q", img.MIMEType())
	}
}

func TestDownscale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1000, 500))

	tests := []struct {
		name         string
		img          image.Image
		maxDim       int
		wantW, wantH int
	}{
		{"landscape", src, 200, 200, 100},
		{"portrait", image.NewRGBA(image.Rect(0, 0, 300, 600)), 150, 75, 150},
		{"already small", image.NewRGBA(image.Rect(0, 0, 50, 40)), 200, 50, 40},
		{"zero max keeps size", src, 0, 1000, 500},
		{"thin strip", image.NewRGBA(image.Rect(0, 0, 1000, 1)), 10, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Downscale(tt.img, tt.maxDim).Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("Downscale() = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRGB8(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	r, g, b := RGB8(img, 1, 1)
	if r != 10 || g != 20 || b != 30 {
		t.Errorf("RGB8() = %d,%d,%d", r, g, b)
	}
}
