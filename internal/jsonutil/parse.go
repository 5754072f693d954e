// Package jsonutil достает JSON из свободного текста, который возвращают модели.
// Все разборы ответов оракула проходят через ParseObject.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kitbuilder587/ad-critic/internal/domain"
)

// StripMarkdownFences убирает обертку ```json ... ``` или ``` ... ```
func StripMarkdownFences(text string) string {
	text = strings.TrimSpace(text)

	start := strings.Index(text, "```")
	if start == -1 {
		return text
	}

	// пропускаем язык после открывающих кавычек
	body := text[start+3:]
	if nl := strings.IndexByte(body, '\n'); nl != -1 {
		if lang := strings.TrimSpace(body[:nl]); !strings.ContainsAny(lang, "{[") {
			body = body[nl+1:]
		}
	}

	if end := strings.Index(body, "```"); end != -1 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// ExtractObject возвращает первый сбалансированный JSON-объект.
// Скобки внутри строковых литералов не считаются.
func ExtractObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", fmt.Errorf("%w: no JSON object found", domain.ErrOracleParse)
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("%w: unbalanced JSON object", domain.ErrOracleParse)
}

// ParseObject снимает markdown-обертку, находит объект и декодирует его в T.
// Ошибка всегда оборачивает domain.ErrOracleParse.
func ParseObject[T any](raw string) (T, error) {
	var zero T

	if strings.TrimSpace(raw) == "" {
		return zero, fmt.Errorf("%w: empty response", domain.ErrOracleParse)
	}

	obj, err := ExtractObject(StripMarkdownFences(raw))
	if err != nil {
		return zero, err
	}

	var result T
	if err := json.Unmarshal([]byte(obj), &result); err != nil {
		return zero, fmt.Errorf("%w: invalid JSON: %v (text: %s)", domain.ErrOracleParse, err, Preview(obj, 200))
	}
	return result, nil
}

// Preview обрезает строку для логов
func Preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
