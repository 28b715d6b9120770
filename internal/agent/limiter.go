package agent

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type limitedModel struct {
	Model
	limiter *rate.Limiter
	logger  *zap.Logger
}

// RateLimited applies a requests-per-minute ceiling shared by every caller of
// the returned Model. rpm <= 0 disables the ceiling.
func RateLimited(m Model, rpm int, logger *zap.Logger) Model {
	if rpm <= 0 {
		return m
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &limitedModel{
		Model:   m,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		logger:  logger.Named("ratelimit"),
	}
}

func (l *limitedModel) Generate(ctx context.Context, p Prompt) (string, error) {
	start := time.Now()
	if err := l.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	if waited := time.Since(start); waited > time.Second {
		l.logger.Debug("delayed model call", zap.Duration("waited", waited))
	}
	return l.Model.Generate(ctx, p)
}
