package watcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsin/insport-client/internal/history"
	"github.com/sportsin/insport-client/internal/metrics"
	"github.com/sportsin/insport-client/internal/notifier"
	"github.com/sportsin/insport-client/internal/sportsin"
)

func testConfig() Config {
	return Config{
		Points:   []string{"5"},
		Interval: 10 * time.Millisecond,
	}
}

func gameAt(state sportsin.GameState) sportsin.Game {
	g := sportsin.Game{
		ID:          "GAME_1",
		Sport:       sportsin.SportRef{Code: "FOOT"},
		PointID:     "5",
		CreatorTeam: &sportsin.TeamRef{ID: 7, Name: "Les Aigles"},
		State:       state,
	}
	if state != sportsin.GameStateWaiting {
		g.OpponentTeam = &sportsin.TeamRef{ID: 12, Name: "Les Loups"}
	}
	if state == sportsin.GameStateInProgress || state == sportsin.GameStateCompleted {
		g.SessionID = "SESSION_42"
	}
	return g
}

func sessionAt(state sportsin.SessionState) sportsin.Session {
	s := sportsin.Session{
		ID:      "SESSION_42",
		Sport:   sportsin.SportRef{Code: "FOOT"},
		PointID: "5",
		State:   state,
		Participants: []sportsin.Participant{
			{ID: "7", Name: "Les Aigles", Type: sportsin.ParticipantTypeTeam},
			{ID: "12", Name: "Les Loups", Type: sportsin.ParticipantTypeTeam},
		},
		CreatedAt: time.Now().Add(-time.Hour).Unix(),
	}
	if state == sportsin.SessionStateTerminated {
		s.EndedAt = time.Now().Unix()
		s.WinnerParticipantID = "7"
	}
	return s
}

func TestRunCycle_DiscoversAndAnnouncesMatch(t *testing.T) {
	client := sportsin.NewMockClient()
	client.GetWaitingGamesAtPointFunc = func(pointID string) ([]sportsin.Game, error) {
		return []sportsin.Game{gameAt(sportsin.GameStateWaiting)}, nil
	}
	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		return gameAt(sportsin.GameStateMatched), nil
	}

	n := notifier.NewMock()
	w := New(client, n, history.NewMock(), metrics.NewMock(), testConfig())

	w.RunCycle(context.Background())

	assert.Equal(t, 1, w.TrackedCount())
	require.Len(t, n.MatchFoundCalls, 1)
	assert.Equal(t, "GAME_1", n.MatchFoundCalls[0].ID)

	// A second observation of the same state announces nothing new.
	w.RunCycle(context.Background())
	assert.Len(t, n.MatchFoundCalls, 1)
}

func TestRunCycle_AnnouncesSessionStartOnce(t *testing.T) {
	client := sportsin.NewMockClient()
	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		return gameAt(sportsin.GameStateInProgress), nil
	}
	client.GetSessionFunc = func(id string) (sportsin.Session, error) {
		return sessionAt(sportsin.SessionStateActive), nil
	}

	n := notifier.NewMock()
	w := New(client, n, history.NewMock(), metrics.NewMock(), Config{Interval: time.Second})
	w.Track(gameAt(sportsin.GameStateMatched))

	w.RunCycle(context.Background())
	w.RunCycle(context.Background())

	assert.Len(t, n.SessionStartedCalls, 1)
	assert.Empty(t, client.CompleteGameCalls, "an active session needs no reconciliation")
}

func TestRunCycle_ReconcilesTerminatedSessionOnUncompletedGame(t *testing.T) {
	client := sportsin.NewMockClient()
	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		return gameAt(sportsin.GameStateInProgress), nil
	}
	client.GetSessionFunc = func(id string) (sportsin.Session, error) {
		return sessionAt(sportsin.SessionStateTerminated), nil
	}

	w := New(client, notifier.NewMock(), history.NewMock(), metrics.NewMock(), Config{Interval: time.Second})
	w.Track(gameAt(sportsin.GameStateInProgress))

	w.RunCycle(context.Background())

	require.Len(t, client.CompleteGameCalls, 1)
	assert.Equal(t, "GAME_1", client.CompleteGameCalls[0].GameID)
	assert.Equal(t, "7", client.CompleteGameCalls[0].WinnerTeamID)
}

func TestRunCycle_ConcludesCompletedGame(t *testing.T) {
	client := sportsin.NewMockClient()
	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		return gameAt(sportsin.GameStateCompleted), nil
	}
	client.GetSessionFunc = func(id string) (sportsin.Session, error) {
		return sessionAt(sportsin.SessionStateTerminated), nil
	}

	n := notifier.NewMock()
	h := history.NewMock()
	w := New(client, n, h, metrics.NewMock(), Config{Interval: time.Second})
	w.Track(gameAt(sportsin.GameStateInProgress))

	w.RunCycle(context.Background())

	require.Len(t, n.ResultCalls, 1)
	assert.Equal(t, "SESSION_42", n.ResultCalls[0].Session.ID)

	rec, err := h.Get("SESSION_42")
	require.NoError(t, err)
	assert.Equal(t, "7", rec.WinnerParticipantID)

	// The game is dropped once concluded.
	assert.Equal(t, 0, w.TrackedCount())
}

func TestRunCycle_SkipsAlreadyRecordedSession(t *testing.T) {
	client := sportsin.NewMockClient()
	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		return gameAt(sportsin.GameStateCompleted), nil
	}

	n := notifier.NewMock()
	h := history.NewMock()
	require.NoError(t, h.Record(history.Record{SessionID: "SESSION_42", EndedAt: 1}))

	w := New(client, n, h, metrics.NewMock(), Config{Interval: time.Second})
	w.Track(gameAt(sportsin.GameStateInProgress))

	w.RunCycle(context.Background())

	assert.Empty(t, n.ResultCalls)
	assert.Empty(t, client.GetSessionCalls)
}

func TestRunCycle_DropsDeletedGames(t *testing.T) {
	client := sportsin.NewMockClient()
	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		return sportsin.Game{}, sportsin.ErrNotFound
	}

	w := New(client, notifier.NewMock(), history.NewMock(), metrics.NewMock(), Config{Interval: time.Second})
	w.Track(gameAt(sportsin.GameStateWaiting))

	w.RunCycle(context.Background())
	assert.Equal(t, 0, w.TrackedCount())
}

func TestRunCycle_KeepsGameOnTransientFailure(t *testing.T) {
	client := sportsin.NewMockClient()
	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		return sportsin.Game{}, errors.New("connection reset")
	}

	m := metrics.NewMock()
	w := New(client, notifier.NewMock(), history.NewMock(), m, Config{Interval: time.Second})
	w.Track(gameAt(sportsin.GameStateWaiting))

	w.RunCycle(context.Background())

	assert.Equal(t, 1, w.TrackedCount())
	assert.Equal(t, 1, m.PollFailures())
}

func TestRun_StopsOnContextCancellation(t *testing.T) {
	client := sportsin.NewMockClient()
	w := New(client, notifier.NewMock(), history.NewMock(), metrics.NewMock(), testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop on context cancellation")
	}
	assert.GreaterOrEqual(t, len(client.GetWaitingGamesAtPointCalls), 1)
}
