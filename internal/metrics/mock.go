package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	matchmakingJoined  int
	matchmakingCreated int
	lobbyPolls         int
	completionPolls    int
	pollFailures       int
	sessionsCompleted  int
	notifSent          int
	notifFailed        int
	pollDurations      []float64
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		pollDurations: make([]float64, 0),
	}
}

func (m *Mock) IncMatchmakingJoined() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchmakingJoined++
}

func (m *Mock) IncMatchmakingCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchmakingCreated++
}

func (m *Mock) IncLobbyPolls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lobbyPolls++
}

func (m *Mock) IncCompletionPolls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completionPolls++
}

func (m *Mock) IncPollFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pollFailures++
}

func (m *Mock) IncSessionsCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionsCompleted++
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifSent++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifFailed++
}

func (m *Mock) ObservePollDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pollDurations = append(m.pollDurations, seconds)
}

func (m *Mock) SetStartupTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = seconds
}

// MatchmakingJoined returns the number of times IncMatchmakingJoined was called.
func (m *Mock) MatchmakingJoined() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchmakingJoined
}

// MatchmakingCreated returns the number of times IncMatchmakingCreated was called.
func (m *Mock) MatchmakingCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchmakingCreated
}

// LobbyPolls returns the number of times IncLobbyPolls was called.
func (m *Mock) LobbyPolls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lobbyPolls
}

// CompletionPolls returns the number of times IncCompletionPolls was called.
func (m *Mock) CompletionPolls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completionPolls
}

// PollFailures returns the number of times IncPollFailures was called.
func (m *Mock) PollFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pollFailures
}

// SessionsCompleted returns the number of times IncSessionsCompleted was called.
func (m *Mock) SessionsCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionsCompleted
}

// NotifSent returns the number of times IncNotifSent was called.
func (m *Mock) NotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifSent
}

// NotifFailed returns the number of times IncNotifFailed was called.
func (m *Mock) NotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifFailed
}
