package llm

import (
	"context"
	"sync"
)

// Mock is a Client double for tests. GenerateFunc supplies the behavior;
// every call is recorded.
type Mock struct {
	GenerateFunc func(ctx context.Context, input GenerateInput) (string, error)

	mu    sync.Mutex
	calls []GenerateInput
}

func (m *Mock) Generate(ctx context.Context, input GenerateInput) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, input)
	m.mu.Unlock()
	if m.GenerateFunc == nil {
		return "", nil
	}
	return m.GenerateFunc(ctx, input)
}

// Calls returns a copy of the recorded inputs.
func (m *Mock) Calls() []GenerateInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]GenerateInput, len(m.calls))
	copy(out, m.calls)
	return out
}
