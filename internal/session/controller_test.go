package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsin/insport-client/internal/metrics"
	"github.com/sportsin/insport-client/internal/sportsin"
)

func testConfig() Config {
	return Config{
		ClockInterval: 5 * time.Millisecond,
		PollInterval:  5 * time.Millisecond,
	}
}

func inProgressGame() sportsin.Game {
	return sportsin.Game{
		ID:           "GAME_1",
		Sport:        sportsin.SportRef{Code: "FOOT"},
		PointID:      "5",
		CreatorTeam:  &sportsin.TeamRef{ID: 7, Name: "Les Aigles"},
		OpponentTeam: &sportsin.TeamRef{ID: 12, Name: "Les Loups"},
		State:        sportsin.GameStateInProgress,
		SessionID:    "SESSION_42",
	}
}

func activeSession() sportsin.Session {
	return sportsin.Session{
		ID:        "SESSION_42",
		Sport:     sportsin.SportRef{Code: "FOOT"},
		PointID:   "5",
		State:     sportsin.SessionStateActive,
		CreatedAt: time.Now().Add(-10 * time.Minute).Unix(),
		Participants: []sportsin.Participant{
			{ID: "7", Name: "Les Aigles", Type: sportsin.ParticipantTypeTeam},
			{ID: "12", Name: "Les Loups", Type: sportsin.ParticipantTypeTeam},
		},
	}
}

func loadedController(t *testing.T, client *sportsin.MockClient, m metrics.Metrics) *Controller {
	t.Helper()
	if client.GetGameFunc == nil {
		client.GetGameFunc = func(id string) (sportsin.Game, error) {
			return inProgressGame(), nil
		}
	}
	if client.GetSessionFunc == nil {
		client.GetSessionFunc = func(id string) (sportsin.Session, error) {
			return activeSession(), nil
		}
	}
	c := NewController(client, client, m, testConfig())
	require.NoError(t, c.Load(context.Background(), "GAME_1"))
	return c
}

func TestLoad_ResolvesGameAndSession(t *testing.T) {
	client := sportsin.NewMockClient()
	c := loadedController(t, client, metrics.NewMock())

	assert.Equal(t, "GAME_1", c.Game().ID)
	assert.Equal(t, "SESSION_42", c.Session().ID)
	assert.Equal(t, []string{"GAME_1"}, client.GetGameCalls)
	assert.Equal(t, []string{"SESSION_42"}, client.GetSessionCalls)
}

func TestLoad_FallsBackToActiveSessions(t *testing.T) {
	client := sportsin.NewMockClient()
	client.GetActiveSessionsFunc = func() ([]sportsin.Session, error) {
		return []sportsin.Session{activeSession()}, nil
	}

	c := NewController(client, client, metrics.NewMock(), testConfig())
	require.NoError(t, c.Load(context.Background(), ""))

	assert.Equal(t, "SESSION_42", c.Session().ID)
	assert.Empty(t, c.Game().ID)
	assert.Equal(t, 1, client.GetActiveSessionCalls)
}

func TestLoad_NoActiveSession(t *testing.T) {
	client := sportsin.NewMockClient()
	c := NewController(client, client, metrics.NewMock(), testConfig())

	err := c.Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestSubmitScore_UpdatesTerminatesAndCompletesInOrder(t *testing.T) {
	client := sportsin.NewMockClient()
	var order []string
	client.UpdateSessionFunc = func(id string, s sportsin.Session) (sportsin.Session, error) {
		order = append(order, "update")
		return s, nil
	}
	client.TerminateSessionFunc = func(id string) (sportsin.Session, error) {
		order = append(order, "terminate")
		s := activeSession()
		s.State = sportsin.SessionStateTerminated
		s.EndedAt = time.Now().Unix()
		s.WinnerParticipantID = "7"
		return s, nil
	}
	client.CompleteGameFunc = func(id string, winnerTeamID string) (sportsin.Game, error) {
		order = append(order, "complete")
		g := inProgressGame()
		g.State = sportsin.GameStateCompleted
		g.WinnerTeamID = winnerTeamID
		return g, nil
	}

	m := metrics.NewMock()
	c := loadedController(t, client, m)

	result, err := c.SubmitScore(context.Background(), 3, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"update", "terminate", "complete"}, order)
	assert.Equal(t, sportsin.SessionStateTerminated, result.State)
	assert.Equal(t, "7", result.WinnerParticipantID)

	require.Len(t, client.UpdateSessionCalls, 1)
	sent := client.UpdateSessionCalls[0].Session
	require.NotNil(t, sent.Result)
	require.Len(t, sent.Result.Metrics, 2)
	assert.Equal(t, sportsin.MetricValue{ParticipantID: "7", MetricType: sportsin.MetricTypeGoals, Value: 3}, sent.Result.Metrics[0])
	assert.Equal(t, sportsin.MetricValue{ParticipantID: "12", MetricType: sportsin.MetricTypeGoals, Value: 1}, sent.Result.Metrics[1])

	require.Len(t, client.CompleteGameCalls, 1)
	assert.Equal(t, "7", client.CompleteGameCalls[0].WinnerTeamID)
	assert.Equal(t, 1, m.SessionsCompleted())
}

func TestSubmitScore_DrawStillCompletesGame(t *testing.T) {
	client := sportsin.NewMockClient()
	c := loadedController(t, client, metrics.NewMock())

	_, err := c.SubmitScore(context.Background(), 2, 2)
	require.NoError(t, err)

	// The game is completed with no winner so the opponent's poll
	// observes the terminal state.
	require.Len(t, client.CompleteGameCalls, 1)
	assert.Equal(t, "GAME_1", client.CompleteGameCalls[0].GameID)
	assert.Equal(t, "", client.CompleteGameCalls[0].WinnerTeamID)
}

func TestSubmitScore_RejectsNegativeScores(t *testing.T) {
	client := sportsin.NewMockClient()
	c := loadedController(t, client, metrics.NewMock())

	_, err := c.SubmitScore(context.Background(), -1, 0)
	assert.ErrorIs(t, err, ErrNegativeScore)

	_, err = c.SubmitScore(context.Background(), 0, -1)
	assert.ErrorIs(t, err, ErrNegativeScore)

	assert.Empty(t, client.UpdateSessionCalls)
	assert.Empty(t, client.TerminateSessionCalls)
	assert.Empty(t, client.CompleteGameCalls)
}

func TestSubmitScore_OmitsSideWithoutResolvableID(t *testing.T) {
	client := sportsin.NewMockClient()
	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		g := inProgressGame()
		g.OpponentTeam = nil
		return g, nil
	}
	client.GetSessionFunc = func(id string) (sportsin.Session, error) {
		s := activeSession()
		s.Participants = s.Participants[:1]
		return s, nil
	}

	c := loadedController(t, client, metrics.NewMock())

	_, err := c.SubmitScore(context.Background(), 3, 1)
	require.NoError(t, err)

	require.Len(t, client.UpdateSessionCalls, 1)
	sent := client.UpdateSessionCalls[0].Session
	require.NotNil(t, sent.Result)
	require.Len(t, sent.Result.Metrics, 1, "sides without an id are omitted, not zero-filled")
	assert.Equal(t, "7", sent.Result.Metrics[0].ParticipantID)
}

func TestSubmitScore_TerminateFailureStopsBeforeComplete(t *testing.T) {
	client := sportsin.NewMockClient()
	client.TerminateSessionFunc = func(id string) (sportsin.Session, error) {
		return sportsin.Session{}, errors.New("backend unavailable")
	}

	m := metrics.NewMock()
	c := loadedController(t, client, m)

	_, err := c.SubmitScore(context.Background(), 3, 1)
	require.Error(t, err)

	assert.Len(t, client.UpdateSessionCalls, 1)
	assert.Empty(t, client.CompleteGameCalls)
	assert.Equal(t, 0, m.SessionsCompleted())
}

func TestWatchCompletion_ConvergesOnOpponentCompletion(t *testing.T) {
	client := sportsin.NewMockClient()
	polls := 0
	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		polls++
		g := inProgressGame()
		if polls >= 3 {
			g.State = sportsin.GameStateCompleted
		}
		return g, nil
	}

	m := metrics.NewMock()
	c := loadedController(t, client, m)

	sessionID, err := c.WatchCompletion(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "SESSION_42", sessionID)
	// The local client converges without itself terminating anything.
	assert.Empty(t, client.TerminateSessionCalls)
	assert.GreaterOrEqual(t, m.CompletionPolls(), 2)
}

func TestWatchCompletion_SwallowsTransientFailures(t *testing.T) {
	client := sportsin.NewMockClient()
	polls := 0
	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		polls++
		switch polls {
		case 1:
			return inProgressGame(), nil
		case 2:
			return sportsin.Game{}, errors.New("connection reset")
		default:
			g := inProgressGame()
			g.State = sportsin.GameStateCompleted
			return g, nil
		}
	}

	m := metrics.NewMock()
	c := loadedController(t, client, m)

	sessionID, err := c.WatchCompletion(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "SESSION_42", sessionID)
	assert.Equal(t, 1, m.PollFailures())
}

func TestWatchCompletion_MissingGameIsFatal(t *testing.T) {
	client := sportsin.NewMockClient()
	c := loadedController(t, client, metrics.NewMock())

	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		return sportsin.Game{}, sportsin.ErrNotFound
	}

	_, err := c.WatchCompletion(context.Background())
	assert.ErrorIs(t, err, sportsin.ErrNotFound)
}

func TestWatchCompletion_FallsBackToSessionState(t *testing.T) {
	client := sportsin.NewMockClient()
	client.GetActiveSessionsFunc = func() ([]sportsin.Session, error) {
		return []sportsin.Session{activeSession()}, nil
	}
	polls := 0
	client.GetSessionFunc = func(id string) (sportsin.Session, error) {
		polls++
		s := activeSession()
		if polls >= 2 {
			s.State = sportsin.SessionStateTerminated
		}
		return s, nil
	}

	c := NewController(client, client, metrics.NewMock(), testConfig())
	require.NoError(t, c.Load(context.Background(), ""))

	sessionID, err := c.WatchCompletion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SESSION_42", sessionID)
	assert.Empty(t, client.GetGameCalls)
}

func TestWatchCompletion_ContextCancellation(t *testing.T) {
	client := sportsin.NewMockClient()
	c := loadedController(t, client, metrics.NewMock())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := c.WatchCompletion(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunClock_RendersElapsedTime(t *testing.T) {
	client := sportsin.NewMockClient()
	c := loadedController(t, client, metrics.NewMock())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	var renders []string
	c.RunClock(ctx, func(elapsed string) {
		renders = append(renders, elapsed)
	})

	require.NotEmpty(t, renders)
	// Session started ten minutes ago.
	assert.Equal(t, "10:00", renders[0])
}
