package mocks

import (
	"context"
	"sync"

	"github.com/portfolio-api/internal/mailer"
)

var _ mailer.Mailer = (*MockMailer)(nil)

// MockMailer records sent messages and fails with SendError when set.
type MockMailer struct {
	mu        sync.Mutex
	Sent      []mailer.Message
	SendError error
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SendError != nil {
		return m.SendError
	}
	m.Sent = append(m.Sent, msg)
	return nil
}
