package ai

import (
	"context"
	"errors"
	"sync"
)

// MockResponse is one canned reply for MockOracle.
type MockResponse struct {
	Text string
	Err  error
}

// MockOracle returns canned replies in FIFO order and records every prompt.
// With an empty queue it fails like an unreachable provider.
type MockOracle struct {
	mu        sync.Mutex
	responses []MockResponse
	Prompts   []string
}

func NewMockOracle(responses ...MockResponse) *MockOracle {
	return &MockOracle{responses: responses}
}

func (m *MockOracle) Complete(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	if len(m.responses) == 0 {
		return "", &GatewayError{Provider: "mock", Err: errors.New("no canned response")}
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	if resp.Err != nil {
		return "", resp.Err
	}
	return resp.Text, nil
}

func (m *MockOracle) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

func (m *MockOracle) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// LastPrompt returns the most recent prompt, or "" if none was sent.
func (m *MockOracle) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Prompts) == 0 {
		return ""
	}
	return m.Prompts[len(m.Prompts)-1]
}
