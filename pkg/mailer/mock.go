package mailer

import (
	"context"
	"sync"
)

// Mock records sent mail for tests and local runs without an SMTP relay.
type Mock struct {
	mu   sync.Mutex
	sent []Email

	Err error // returned by Send when set
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Send(ctx context.Context, e Email) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, e)
	return nil
}

func (m *Mock) Sent() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Email, len(m.sent))
	copy(out, m.sent)
	return out
}
