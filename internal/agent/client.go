package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("model returned an empty response")

// Prompt is one instruction sent to the hosted model.
type Prompt struct {
	System string
	User   string
}

// Model is the hosted language model behind every pipeline stage. Responses
// are opaque text.
type Model interface {
	Generate(ctx context.Context, p Prompt) (string, error)
	Name() string
}

// Settings selects and tunes the model client.
type Settings struct {
	Provider    string
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
	CallTimeout time.Duration
	MaxRPM      int
}

// New builds the configured provider client, wrapped with the per-call
// timeout and the process-wide request ceiling.
func New(ctx context.Context, s Settings, logger *zap.Logger) (Model, error) {
	var (
		m   Model
		err error
	)
	switch strings.ToLower(s.Provider) {
	case ProviderGemini, "":
		m, err = NewGeminiClient(ctx, s)
	case ProviderAnthropic:
		m, err = NewAnthropicClient(s)
	default:
		return nil, fmt.Errorf("unsupported model provider %q", s.Provider)
	}
	if err != nil {
		return nil, err
	}

	m = WithTimeout(m, s.CallTimeout)
	m = RateLimited(m, s.MaxRPM, logger)
	return m, nil
}

type timeoutModel struct {
	Model
	timeout time.Duration
}

// WithTimeout bounds each Generate call. A zero timeout leaves calls unbounded.
func WithTimeout(m Model, timeout time.Duration) Model {
	if timeout <= 0 {
		return m
	}
	return &timeoutModel{Model: m, timeout: timeout}
}

func (t *timeoutModel) Generate(ctx context.Context, p Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Model.Generate(ctx, p)
}
