package mock

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kitbuilder587/ad-critic/internal/llm"
)

// Client - тестовый оракул. Потокобезопасен, батч дергает его параллельно.
type Client struct {
	mu sync.Mutex

	Response string
	Error    error
	Delay    time.Duration

	// Handler, если задан, решает ответ по запросу (например по system-промпту)
	Handler func(req llm.Request) (string, error)

	CallCount  int
	LastSystem string
	LastPrompt string
	AllCalls   []LLMCall
}

type LLMCall struct {
	System   string
	Prompt   string
	HasImage bool
}

func New() *Client {
	return &Client{
		Response: `{"ok": true}`,
	}
}

func (c *Client) WithResponse(response string) *Client {
	c.Response = response
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) WithHandler(h func(req llm.Request) (string, error)) *Client {
	c.Handler = h
	return c
}

func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	c.mu.Lock()
	c.CallCount++
	c.LastSystem = req.System
	c.LastPrompt = req.Prompt
	c.AllCalls = append(c.AllCalls, LLMCall{System: req.System, Prompt: req.Prompt, HasImage: req.Image != nil})
	delay, handler, resp, respErr := c.Delay, c.Handler, c.Response, c.Error
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	if handler != nil {
		return handler(req)
	}
	if respErr != nil {
		return "", respErr
	}

	return resp, nil
}

func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CallCount
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCount = 0
	c.LastSystem = ""
	c.LastPrompt = ""
	c.AllCalls = nil
}

// HasCallContaining - был ли вызов, в system или prompt которого есть подстрока
func (c *Client) HasCallContaining(substr string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, call := range c.AllCalls {
		if strings.Contains(call.System, substr) || strings.Contains(call.Prompt, substr) {
			return true
		}
	}
	return false
}

var _ llm.Client = (*Client)(nil)
