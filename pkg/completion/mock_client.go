package completion

import (
	"context"
	"sync"
)

// MockClient is a scripted Client implementation for tests. Responses
// and errors are consumed in order; when the script runs out the last
// entry repeats.
type MockClient struct {
	mu        sync.Mutex
	responses []Response
	errors    []error
	calls     []Request
	index     int
	model     string
}

// NewMockClient creates a mock completion client.
func NewMockClient() *MockClient {
	return &MockClient{model: "mock-model"}
}

// WithResponses queues scripted responses.
func (m *MockClient) WithResponses(texts ...string) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range texts {
		m.responses = append(m.responses, Response{Text: t})
		m.errors = append(m.errors, nil)
	}
	return m
}

// WithError queues a scripted error.
func (m *MockClient) WithError(err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, Response{})
	m.errors = append(m.errors, err)
	return m
}

// ModelName returns the mock model identifier.
func (m *MockClient) ModelName() string {
	return m.model
}

// Complete returns the next scripted response or error.
func (m *MockClient) Complete(ctx context.Context, in Request) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	m.calls = append(m.calls, in)

	if len(m.responses) == 0 {
		return Response{Text: "mock response"}, nil
	}
	i := m.index
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	m.index++
	return m.responses[i], m.errors[i]
}

// Calls returns a copy of the requests received so far.
func (m *MockClient) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of completion calls received.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
