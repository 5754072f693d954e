// Package rubric - критерии оценки рекламы под категорию товара.
// Встроенные тексты можно переопределить YAML-файлом.
package rubric

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const General = "general"

var defaults = map[string]string{
	General: `- Brand Alignment: colors, logo and typography match the brand identity; tone fits the brand voice.
- Visual Quality: the image is sharp, balanced and free of artifacts or watermarks.
- Message Clarity: product or service is clearly visible, text is readable, the call-to-action is obvious.
- Safety & Ethics: no harmful, offensive or misleading content, no stereotypes, truthful claims.`,

	"retail": `- The product must be the visual focus, shown at a size where details are recognizable.
- Price or offer information, if present, must be legible at a glance.
- The call-to-action should point to a concrete purchase step.
- No exaggerated discount claims or fake scarcity.`,

	"food": `- Food must look fresh and appetizing, with natural colors and lighting.
- Portion sizes and ingredients must not be misleading.
- Allergen or dietary labels, if shown, must be readable.
- Avoid promoting overconsumption or unhealthy habits to children.`,

	"tech": `- The device or interface must be rendered accurately, without distorted screens or UI.
- Key feature claims should be specific and verifiable.
- Layout should feel clean and modern with generous whitespace.
- No fabricated benchmark numbers or misleading comparisons.`,

	"finance": `- Claims about returns, rates or fees must not be misleading and should hint at risk.
- The tone must feel trustworthy and calm, not urgent or pressuring.
- Legal or disclaimer text, if present, must be legible.
- No imagery that promises guaranteed wealth.`,

	"health": `- No unproven medical claims or before/after imagery that implies guaranteed results.
- People should be depicted respectfully, without body shaming.
- Any dosage or warning text must be readable.
- The tone should be supportive and factual.`,
}

// Set - набор рубрик по категориям
type Set struct {
	rubrics map[string]string
}

type file struct {
	Categories map[string]string `yaml:"categories"`
}

func Default() *Set {
	s := &Set{rubrics: make(map[string]string, len(defaults))}
	for k, v := range defaults {
		s.rubrics[k] = v
	}
	return s
}

// Load читает YAML поверх встроенных рубрик. Пустой путь - только встроенные.
func Load(path string) (*Set, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rubric file %q: %w", path, err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing rubric file %q: %w", path, err)
	}

	for category, text := range f.Categories {
		category = normalize(category)
		text = strings.TrimSpace(text)
		if category == "" || text == "" {
			continue
		}
		s.rubrics[category] = text
	}
	return s, nil
}

// For возвращает рубрику категории, для неизвестных - general
func (s *Set) For(category string) string {
	if text, ok := s.rubrics[normalize(category)]; ok {
		return text
	}
	return s.rubrics[General]
}

func (s *Set) Categories() []string {
	out := make([]string, 0, len(s.rubrics))
	for k := range s.rubrics {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func normalize(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
