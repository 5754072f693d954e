package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/ad-critic/internal/domain"
	"github.com/kitbuilder587/ad-critic/internal/jsonutil"
	"github.com/kitbuilder587/ad-critic/internal/llm"
	"github.com/kitbuilder587/ad-critic/internal/metrics"
)

const defaultOracleTimeout = 60 * time.Second

// причины ухода в fallback для метрик
const (
	reasonUnavailable = "unavailable"
	reasonTimeout     = "timeout"
	reasonError       = "error"
	reasonParse       = "parse"
)

// oracle - вызов оракула с таймаутом, логами и метриками. Общий для
// критики, описания и рефайнмента.
type oracle struct {
	client  llm.Client
	timeout time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func newOracle(client llm.Client, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *oracle {
	if timeout <= 0 {
		timeout = defaultOracleTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &oracle{client: client, timeout: timeout, logger: logger, metrics: m}
}

// ask возвращает текст ответа. При ошибке уже записаны метрики и лог,
// вызывающий только выбирает fallback.
func (o *oracle) ask(ctx context.Context, operation string, req llm.Request) (string, error) {
	if o.client == nil {
		o.fallback(operation, reasonUnavailable)
		return "", llm.ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	text, err := o.client.Generate(ctx, req)
	duration := time.Since(start)

	if err != nil {
		reason := failureReason(err)
		if o.metrics != nil {
			o.metrics.RecordOracleRequest(operation, reason, duration)
		}
		if reason == reasonUnavailable {
			o.logger.Debug("oracle unavailable, using fallback", zap.String("operation", operation))
		} else {
			o.logger.Warn("oracle call failed, using fallback",
				zap.String("operation", operation),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		}
		o.fallback(operation, reason)
		return "", err
	}

	if o.metrics != nil {
		o.metrics.RecordOracleRequest(operation, "success", duration)
	}
	o.logger.Debug("oracle responded",
		zap.String("operation", operation),
		zap.Int("response_length", len(text)),
		zap.Duration("duration", duration),
	)
	return text, nil
}

// parseFailed логирует нераспознанный ответ оракула
func (o *oracle) parseFailed(operation, text string, err error) {
	o.logger.Warn("failed to parse oracle response",
		zap.String("operation", operation),
		zap.Error(err),
		zap.String("response", jsonutil.Preview(text, 500)),
	)
	o.fallback(operation, reasonParse)
}

func (o *oracle) fallback(operation, reason string) {
	if o.metrics != nil {
		o.metrics.RecordFallback(operation, reason)
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrOracleUnavailable):
		return reasonUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return reasonTimeout
	default:
		return reasonError
	}
}
