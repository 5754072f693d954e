// Package offline - оракул без сети. Всегда недоступен, поэтому
// агенты сразу переходят на детерминированные fallback-ответы.
package offline

import (
	"context"

	"github.com/kitbuilder587/ad-critic/internal/llm"
)

type Client struct{}

func New() *Client {
	return &Client{}
}

func (c *Client) Generate(ctx context.Context, _ llm.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "", llm.ErrUnavailable
}

var _ llm.Client = (*Client)(nil)
