package lobby

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsin/insport-client/internal/metrics"
	"github.com/sportsin/insport-client/internal/sportsin"
)

func testConfig() Config {
	return Config{
		PollInterval:  5 * time.Millisecond,
		WaitWarnAfter: time.Hour,
		AutoStart:     true,
	}
}

func waitingGame(creatorID int64) sportsin.Game {
	return sportsin.Game{
		ID:          "GAME_1",
		Sport:       sportsin.SportRef{Code: "FOOT"},
		PointID:     "5",
		CreatorTeam: &sportsin.TeamRef{ID: creatorID, Name: "Les Aigles"},
		State:       sportsin.GameStateWaiting,
	}
}

func TestRun_OpponentObservesStartWithinOnePoll(t *testing.T) {
	client := sportsin.NewMockClient()
	polls := 0
	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		polls++
		g := waitingGame(7)
		if polls == 1 {
			g.State = sportsin.GameStateMatched
			g.OpponentTeam = &sportsin.TeamRef{ID: 12}
			return g, nil
		}
		g.State = sportsin.GameStateInProgress
		g.OpponentTeam = &sportsin.TeamRef{ID: 12}
		g.SessionID = "SESSION_42"
		return g, nil
	}

	// The local team is the opponent, not the creator, so it must
	// never call start itself.
	s := NewSynchronizer(client, metrics.NewMock(), testConfig(), 12, waitingGame(7))

	h, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PhaseActive, h.Phase)
	assert.Equal(t, "SESSION_42", h.Game.SessionID)
	assert.Empty(t, client.StartGameCalls)
}

func TestRun_CreatorStartsMatchedGame(t *testing.T) {
	client := sportsin.NewMockClient()
	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		g := waitingGame(7)
		g.State = sportsin.GameStateMatched
		g.OpponentTeam = &sportsin.TeamRef{ID: 12}
		return g, nil
	}
	client.StartGameFunc = func(id string) (sportsin.Game, error) {
		g := waitingGame(7)
		g.State = sportsin.GameStateInProgress
		g.OpponentTeam = &sportsin.TeamRef{ID: 12}
		g.SessionID = "SESSION_42"
		return g, nil
	}

	s := NewSynchronizer(client, metrics.NewMock(), testConfig(), 7, waitingGame(7))

	h, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PhaseActive, h.Phase)
	assert.Equal(t, "SESSION_42", h.Game.SessionID)
	require.Len(t, client.StartGameCalls, 1)
	assert.Equal(t, "GAME_1", client.StartGameCalls[0])
}

func TestRun_StartFailureIsRetriedNextTick(t *testing.T) {
	client := sportsin.NewMockClient()
	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		g := waitingGame(7)
		g.State = sportsin.GameStateMatched
		g.OpponentTeam = &sportsin.TeamRef{ID: 12}
		return g, nil
	}
	starts := 0
	client.StartGameFunc = func(id string) (sportsin.Game, error) {
		starts++
		if starts == 1 {
			return sportsin.Game{}, errors.New("backend hiccup")
		}
		g := waitingGame(7)
		g.State = sportsin.GameStateInProgress
		g.SessionID = "SESSION_42"
		return g, nil
	}

	s := NewSynchronizer(client, metrics.NewMock(), testConfig(), 7, waitingGame(7))

	h, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PhaseActive, h.Phase)
	assert.Equal(t, 2, starts)
}

func TestRun_CompletedGameSkipsStraightToResult(t *testing.T) {
	client := sportsin.NewMockClient()
	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		g := waitingGame(7)
		g.State = sportsin.GameStateCompleted
		g.OpponentTeam = &sportsin.TeamRef{ID: 12}
		g.SessionID = "SESSION_42"
		return g, nil
	}

	s := NewSynchronizer(client, metrics.NewMock(), testConfig(), 12, waitingGame(7))

	h, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PhaseResult, h.Phase)
	assert.Equal(t, "SESSION_42", h.Game.SessionID)
	assert.Empty(t, client.StartGameCalls, "completed games are never started")
}

func TestRun_InitialSnapshotHandsOffWithoutPolling(t *testing.T) {
	client := sportsin.NewMockClient()

	g := waitingGame(7)
	g.State = sportsin.GameStateInProgress
	g.SessionID = "SESSION_42"

	s := NewSynchronizer(client, metrics.NewMock(), testConfig(), 12, g)

	h, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PhaseActive, h.Phase)
	assert.Empty(t, client.GetGameCalls)
}

func TestRun_TransientPollFailureIsSwallowed(t *testing.T) {
	client := sportsin.NewMockClient()
	polls := 0
	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		polls++
		if polls == 1 {
			return sportsin.Game{}, errors.New("connection reset")
		}
		g := waitingGame(7)
		g.State = sportsin.GameStateInProgress
		g.SessionID = "SESSION_42"
		return g, nil
	}

	m := metrics.NewMock()
	s := NewSynchronizer(client, m, testConfig(), 12, waitingGame(7))

	h, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PhaseActive, h.Phase)
	assert.Equal(t, 1, m.PollFailures())
	assert.Equal(t, 2, m.LobbyPolls())
}

func TestRun_MissingGameIsFatal(t *testing.T) {
	client := sportsin.NewMockClient()
	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		return sportsin.Game{}, sportsin.ErrNotFound
	}

	s := NewSynchronizer(client, metrics.NewMock(), testConfig(), 12, waitingGame(7))

	_, err := s.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sportsin.ErrNotFound)
}

func TestRun_CancelledSearchEndsTheWait(t *testing.T) {
	client := sportsin.NewMockClient()
	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		return sportsin.Game{}, sportsin.ErrNotFound
	}

	s := NewSynchronizer(client, metrics.NewMock(), testConfig(), 7, waitingGame(7))

	require.NoError(t, s.Cancel(context.Background()))
	require.Len(t, client.DeleteGameCalls, 1)

	h, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseCancelled, h.Phase)
}

func TestCancel_OnlyCreatorWhileWaiting(t *testing.T) {
	client := sportsin.NewMockClient()

	s := NewSynchronizer(client, metrics.NewMock(), testConfig(), 12, waitingGame(7))
	assert.ErrorIs(t, s.Cancel(context.Background()), ErrNotCreator)

	matched := waitingGame(7)
	matched.State = sportsin.GameStateMatched
	matched.OpponentTeam = &sportsin.TeamRef{ID: 12}

	s = NewSynchronizer(client, metrics.NewMock(), testConfig(), 7, matched)
	assert.ErrorIs(t, s.Cancel(context.Background()), ErrNotWaiting)

	assert.Empty(t, client.DeleteGameCalls)
}

func TestRun_ContextCancellationStopsPolling(t *testing.T) {
	client := sportsin.NewMockClient()
	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		return waitingGame(7), nil
	}

	s := NewSynchronizer(client, metrics.NewMock(), testConfig(), 12, waitingGame(7))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := s.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRun_LongWaitWarningOnlyWhileWaiting(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	cfg := testConfig()
	cfg.WaitWarnAfter = time.Millisecond

	client := sportsin.NewMockClient()
	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		return waitingGame(7), nil
	}
	s := NewSynchronizer(client, metrics.NewMock(), cfg, 12, waitingGame(7))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, _ = s.Run(ctx)

	assert.Contains(t, buf.String(), "Still waiting for an opponent")

	// A matched game is no longer waiting for an opponent, so the
	// slow-lobby warning must stay quiet however long the start takes.
	buf.Reset()
	matched := waitingGame(7)
	matched.State = sportsin.GameStateMatched
	matched.OpponentTeam = &sportsin.TeamRef{ID: 12}
	client.GetGameFunc = func(id string) (sportsin.Game, error) {
		return matched, nil
	}
	s = NewSynchronizer(client, metrics.NewMock(), cfg, 12, matched)

	ctx2, cancel2 := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel2()
	_, _ = s.Run(ctx2)

	assert.NotContains(t, buf.String(), "Still waiting for an opponent")
}
