package telegram

import (
	"strings"
)

func isCommandText(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "/")
}

// ParseCommand разбирает "/cmd@bot аргументы" в пару (cmd, аргументы).
// Для обычного текста команда пустая.
func ParseCommand(text string) (command, args string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}

	parts := strings.SplitN(text, " ", 2)
	command = strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	if i := strings.Index(command, "@"); i != -1 {
		command = command[:i]
	}
	if len(parts) > 1 {
		args = normalizeSpaces(parts[1])
	}
	return command, args
}

// ParseBrandTag вынимает первый #тег как id брендбука, остальное - описание.
// "#acme летняя распродажа" -> ("acme", "летняя распродажа")
func ParseBrandTag(text string) (brandID, rest string) {
	fields := strings.Fields(text)
	kept := fields[:0]
	for _, f := range fields {
		if brandID == "" && len(f) > 1 && strings.HasPrefix(f, "#") {
			brandID = strings.ToLower(strings.TrimPrefix(f, "#"))
			continue
		}
		kept = append(kept, f)
	}
	return brandID, strings.Join(kept, " ")
}

// ParseDecisionArgs - "<critique_id> [заметки]"
func ParseDecisionArgs(args string) (critiqueID, notes string) {
	parts := strings.SplitN(strings.TrimSpace(args), " ", 2)
	critiqueID = parts[0]
	if len(parts) > 1 {
		notes = strings.TrimSpace(parts[1])
	}
	return critiqueID, notes
}

func normalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
