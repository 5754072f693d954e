package service

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writeTestImage рисует PNG с градиентом и темным блоком в центре
func writeTestImage(t *testing.T, name string, w, h int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 120, A: 255}
			if x > w/3 && x < 2*w/3 && y > h/3 && y < 2*h/3 {
				c = color.RGBA{R: 20, G: 20, B: 20, A: 255}
			}
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create image: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode image: %v", err)
	}
	return path
}

const goodCritiqueJSON = "```json\n" + `{
  "brand_alignment": {"score": 0.9, "confidence": 0.9, "feedback": "on brand", "issues": [], "suggestions": ["bigger logo"]},
  "visual_quality": {"score": 0.9, "confidence": 0.9, "feedback": "sharp", "issues": [], "suggestions": []},
  "message_clarity": {"score": 0.8, "confidence": 0.8, "feedback": "clear", "issues": ["small cta"], "suggestions": ["larger cta"]},
  "safety_ethics": {"score": 1.0, "confidence": 0.95, "feedback": "safe", "issues": [], "suggestions": []},
  "overall_confidence": 0.88,
  "detected_elements": {"has_logo": true, "has_cta": true},
  "overall_assessment": "Strong ad"
}` + "\n```"
