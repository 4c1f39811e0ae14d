package notifier

import (
	"sync"

	"github.com/sportsin/insport-client/internal/sportsin"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendMatchFoundNotificationFunc     func(game sportsin.Game) error
	SendSessionStartedNotificationFunc func(game sportsin.Game) error
	SendResultNotificationFunc         func(session sportsin.Session, game sportsin.Game) error

	// Call records
	MatchFoundCalls     []sportsin.Game
	SessionStartedCalls []sportsin.Game
	ResultCalls         []struct {
		Session sportsin.Session
		Game    sportsin.Game
	}
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

var _ Notifier = (*Mock)(nil)

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchFoundCalls = nil
	m.SessionStartedCalls = nil
	m.ResultCalls = nil
}

func (m *Mock) SendMatchFoundNotification(game sportsin.Game, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchFoundCalls = append(m.MatchFoundCalls, game)
	if m.SendMatchFoundNotificationFunc != nil {
		return m.SendMatchFoundNotificationFunc(game)
	}
	return nil
}

func (m *Mock) SendSessionStartedNotification(game sportsin.Game, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionStartedCalls = append(m.SessionStartedCalls, game)
	if m.SendSessionStartedNotificationFunc != nil {
		return m.SendSessionStartedNotificationFunc(game)
	}
	return nil
}

func (m *Mock) SendResultNotification(session sportsin.Session, game sportsin.Game, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResultCalls = append(m.ResultCalls, struct {
		Session sportsin.Session
		Game    sportsin.Game
	}{session, game})
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(session, game)
	}
	return nil
}
