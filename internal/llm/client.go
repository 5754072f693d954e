package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/kitbuilder587/ad-critic/internal/domain"
)

var (
	ErrAuthFailed    = errors.New("authentication failed")
	ErrRequestFailed = errors.New("request failed")
	ErrEmptyResponse = errors.New("empty response")
	ErrRateLimit     = errors.New("rate limit exceeded")
)

// ErrUnavailable - живой оракул не настроен, вызывающий должен уйти в fallback
var ErrUnavailable = fmt.Errorf("%w: no live oracle configured", domain.ErrOracleUnavailable)

// Image - картинка, прикладываемая к запросу
type Image struct {
	MIMEType string
	Data     []byte
}

type Request struct {
	System string
	Prompt string
	Image  *Image
	JSON   bool // просим модель вернуть только JSON
}

// Client - vision-language оракул. Ответ всегда свободный текст,
// разбор делает вызывающая сторона.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}
