package agent

import (
	"context"
	"sync"
)

// MockModel implements Model without network access. Respond decides each
// answer; when nil, the mock echoes a fixed line. All prompts are recorded.
type MockModel struct {
	Respond func(call int, p Prompt) (string, error)

	mu      sync.Mutex
	prompts []Prompt
}

func (m *MockModel) Name() string {
	return "mock"
}

func (m *MockModel) Generate(ctx context.Context, p Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	call := len(m.prompts)
	m.prompts = append(m.prompts, p)
	m.mu.Unlock()

	if m.Respond == nil {
		return "mock guidance", nil
	}
	return m.Respond(call, p)
}

// Calls returns how many prompts the mock has received.
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns a copy of the received prompts in call order.
func (m *MockModel) Prompts() []Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Prompt(nil), m.prompts...)
}
