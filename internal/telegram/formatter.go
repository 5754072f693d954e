package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/kitbuilder587/ad-critic/internal/domain"
)

// телеграм режет сообщения длиннее 4096 символов
const maxMessageLen = 4096

var dimensionTitles = map[domain.Dimension]string{
	domain.DimensionBrand:   "Бренд",
	domain.DimensionVisual:  "Визуал",
	domain.DimensionClarity: "Ясность",
	domain.DimensionSafety:  "Безопасность",
}

func FormatCritique(c *domain.Critique) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<b>Оценка: %.2f (%s)</b>\n", c.OverallScore, c.OverallLevel)
	if c.ReadyToDeploy {
		sb.WriteString("Готово к размещению: да\n")
	} else {
		sb.WriteString("Готово к размещению: нет\n")
	}
	if !c.AIAnalysisAvailable() {
		sb.WriteString("<i>Оракул недоступен, оценка по эвристикам</i>\n")
	}
	if c.ReviewWarning != "" {
		fmt.Fprintf(&sb, "⚠ %s\n", html.EscapeString(c.ReviewWarning))
	}

	sb.WriteString("\n")
	for _, d := range domain.Dimensions {
		score := c.Dimension(d)
		fmt.Fprintf(&sb, "%s: %.2f (уверенность %.0f%%)\n", dimensionTitles[d], score.Score, score.Confidence*100)
	}

	if len(c.ImprovementsNeeded) > 0 {
		sb.WriteString("\n<b>Что улучшить:</b>\n")
		for _, s := range c.ImprovementsNeeded {
			fmt.Fprintf(&sb, "• %s\n", html.EscapeString(s))
		}
	}

	fmt.Fprintf(&sb, "\nID: <code>%s</code>\n", html.EscapeString(c.CritiqueID))
	sb.WriteString("Решение: /approve ID, /reject ID или /revise ID")
	return sb.String()
}

func FormatWorkflow(r *domain.WorkflowResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<pre>%s</pre>", html.EscapeString(r.Summary()))
	if r.Cancelled {
		sb.WriteString("\n<i>Запуск прерван, показан лучший вариант на момент остановки</i>")
	}
	if r.BestAd == nil {
		sb.WriteString("\nНи одна итерация не дала оценки.")
	}
	return sb.String()
}

func FormatBrandList(brands []domain.BrandKit) string {
	if len(brands) == 0 {
		return "Брендбуков пока нет."
	}

	var sb strings.Builder
	sb.WriteString("<b>Брендбуки:</b>\n\n")
	for _, b := range brands {
		fmt.Fprintf(&sb, "#%s - %s", html.EscapeString(b.BrandID), html.EscapeString(b.BrandName))
		if len(b.PrimaryColors) > 0 {
			fmt.Fprintf(&sb, " [%s]", strings.Join(b.PrimaryColors, " "))
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "\nВсего: %d", len(brands))
	return sb.String()
}

func FormatApproval(a *domain.Approval) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Критика <code>%s</code>: <b>%s</b>", html.EscapeString(a.CritiqueID), a.Status)
	if a.Reviewer != "" {
		fmt.Fprintf(&sb, "\nРевьюер: %s", html.EscapeString(a.Reviewer))
	}
	if a.Notes != "" {
		fmt.Fprintf(&sb, "\nЗаметки: %s", html.EscapeString(a.Notes))
	}
	return sb.String()
}

// SplitMessage режет текст по строкам так, чтобы каждая часть влезала в maxLen.
// Строка длиннее maxLen режется по байтам.
func SplitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > maxLen {
			flush()
			parts = append(parts, line[:maxLen])
			line = line[maxLen:]
		}
		if cur.Len()+len(line) > maxLen {
			flush()
		}
		cur.WriteString(line)
	}
	flush()
	return parts
}
