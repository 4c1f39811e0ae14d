package sportsin

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of the Client interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	CreateGameFunc             func(params CreateGameParams) (Game, error)
	GetGameFunc                func(id string) (Game, error)
	GetWaitingGamesAtPointFunc func(pointID string) ([]Game, error)
	JoinGameFunc               func(id string, opponentTeamID int64) (Game, error)
	StartGameFunc              func(id string) (Game, error)
	CompleteGameFunc           func(id string, winnerTeamID string) (Game, error)
	DeleteGameFunc             func(id string) error
	GetSessionFunc             func(id string) (Session, error)
	GetActiveSessionsFunc      func() ([]Session, error)
	UpdateSessionFunc          func(id string, session Session) (Session, error)
	TerminateSessionFunc       func(id string) (Session, error)
	GetTeamFunc                func(id int64) (TeamRef, error)
	ListArenasFunc             func() ([]Arena, error)
	ListSportsFunc             func() ([]SportRef, error)

	// Call records
	CreateGameCalls             []CreateGameParams
	GetGameCalls                []string
	GetWaitingGamesAtPointCalls []string
	JoinGameCalls               []struct {
		GameID         string
		OpponentTeamID int64
	}
	StartGameCalls    []string
	CompleteGameCalls []struct {
		GameID       string
		WinnerTeamID string
	}
	DeleteGameCalls       []string
	GetSessionCalls       []string
	GetActiveSessionCalls int
	UpdateSessionCalls    []struct {
		SessionID string
		Session   Session
	}
	TerminateSessionCalls []string
	GetTeamCalls          []int64
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

var _ Client = (*MockClient)(nil)

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateGameCalls = nil
	m.GetGameCalls = nil
	m.GetWaitingGamesAtPointCalls = nil
	m.JoinGameCalls = nil
	m.StartGameCalls = nil
	m.CompleteGameCalls = nil
	m.DeleteGameCalls = nil
	m.GetSessionCalls = nil
	m.GetActiveSessionCalls = 0
	m.UpdateSessionCalls = nil
	m.TerminateSessionCalls = nil
	m.GetTeamCalls = nil
}

func (m *MockClient) CreateGame(_ context.Context, params CreateGameParams) (Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateGameCalls = append(m.CreateGameCalls, params)
	if m.CreateGameFunc != nil {
		return m.CreateGameFunc(params)
	}
	return Game{}, nil
}

func (m *MockClient) GetGame(_ context.Context, id string) (Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetGameCalls = append(m.GetGameCalls, id)
	if m.GetGameFunc != nil {
		return m.GetGameFunc(id)
	}
	return Game{}, nil
}

func (m *MockClient) GetWaitingGamesAtPoint(_ context.Context, pointID string) ([]Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetWaitingGamesAtPointCalls = append(m.GetWaitingGamesAtPointCalls, pointID)
	if m.GetWaitingGamesAtPointFunc != nil {
		return m.GetWaitingGamesAtPointFunc(pointID)
	}
	return []Game{}, nil
}

func (m *MockClient) JoinGame(_ context.Context, id string, opponentTeamID int64) (Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.JoinGameCalls = append(m.JoinGameCalls, struct {
		GameID         string
		OpponentTeamID int64
	}{id, opponentTeamID})
	if m.JoinGameFunc != nil {
		return m.JoinGameFunc(id, opponentTeamID)
	}
	return Game{}, nil
}

func (m *MockClient) StartGame(_ context.Context, id string) (Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartGameCalls = append(m.StartGameCalls, id)
	if m.StartGameFunc != nil {
		return m.StartGameFunc(id)
	}
	return Game{}, nil
}

func (m *MockClient) CompleteGame(_ context.Context, id string, winnerTeamID string) (Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteGameCalls = append(m.CompleteGameCalls, struct {
		GameID       string
		WinnerTeamID string
	}{id, winnerTeamID})
	if m.CompleteGameFunc != nil {
		return m.CompleteGameFunc(id, winnerTeamID)
	}
	return Game{}, nil
}

func (m *MockClient) DeleteGame(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteGameCalls = append(m.DeleteGameCalls, id)
	if m.DeleteGameFunc != nil {
		return m.DeleteGameFunc(id)
	}
	return nil
}

func (m *MockClient) GetSession(_ context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetSessionCalls = append(m.GetSessionCalls, id)
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(id)
	}
	return Session{}, nil
}

func (m *MockClient) GetActiveSessions(_ context.Context) ([]Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetActiveSessionCalls++
	if m.GetActiveSessionsFunc != nil {
		return m.GetActiveSessionsFunc()
	}
	return []Session{}, nil
}

func (m *MockClient) UpdateSession(_ context.Context, id string, session Session) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateSessionCalls = append(m.UpdateSessionCalls, struct {
		SessionID string
		Session   Session
	}{id, session})
	if m.UpdateSessionFunc != nil {
		return m.UpdateSessionFunc(id, session)
	}
	return session, nil
}

func (m *MockClient) TerminateSession(_ context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TerminateSessionCalls = append(m.TerminateSessionCalls, id)
	if m.TerminateSessionFunc != nil {
		return m.TerminateSessionFunc(id)
	}
	return Session{}, nil
}

func (m *MockClient) GetTeam(_ context.Context, id int64) (TeamRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetTeamCalls = append(m.GetTeamCalls, id)
	if m.GetTeamFunc != nil {
		return m.GetTeamFunc(id)
	}
	return TeamRef{}, nil
}

func (m *MockClient) ListArenas(_ context.Context) ([]Arena, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListArenasFunc != nil {
		return m.ListArenasFunc()
	}
	return []Arena{}, nil
}

func (m *MockClient) ListSports(_ context.Context) ([]SportRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListSportsFunc != nil {
		return m.ListSportsFunc()
	}
	return []SportRef{}, nil
}
