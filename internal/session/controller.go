package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sportsin/insport-client/internal/metrics"
	"github.com/sportsin/insport-client/internal/sportsin"
)

// NewController creates a controller for the active-session view.
func NewController(games sportsin.GameAPI, sessions sportsin.SessionAPI, metricsSvc metrics.Metrics, cfg Config) *Controller {
	if cfg.ClockInterval <= 0 {
		cfg.ClockInterval = DefaultConfig().ClockInterval
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	return &Controller{
		games:    games,
		sessions: sessions,
		metrics:  metricsSvc,
		cfg:      cfg,
	}
}

// Load resolves the game and its session. With an empty gameID it falls
// back to the first currently active session, the way the original
// client did when opened without a game reference.
func (c *Controller) Load(ctx context.Context, gameID string) error {
	if gameID != "" {
		game, err := c.games.GetGame(ctx, gameID)
		if err != nil {
			return fmt.Errorf("failed to load game: %w", err)
		}
		c.game = game
		if game.SessionID == "" {
			return ErrNoActiveSession
		}
		session, err := c.sessions.GetSession(ctx, game.SessionID)
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		c.session = session
		return nil
	}

	active, err := c.sessions.GetActiveSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active sessions: %w", err)
	}
	if len(active) == 0 {
		return ErrNoActiveSession
	}
	c.session = active[0]
	return nil
}

// Game returns the loaded game. Zero-valued when the controller was
// loaded from the active-session fallback.
func (c *Controller) Game() sportsin.Game {
	return c.game
}

// Session returns the loaded session.
func (c *Controller) Session() sportsin.Session {
	return c.session
}

// Elapsed computes the presentational play time as now minus the
// session's creation time. Clock drift against the server is not
// corrected.
func (c *Controller) Elapsed(now time.Time) time.Duration {
	if c.session.CreatedAt == 0 {
		return 0
	}
	return now.Sub(time.Unix(c.session.CreatedAt, 0))
}

// RunClock refreshes the elapsed-time display every ClockInterval until
// ctx is cancelled.
func (c *Controller) RunClock(ctx context.Context, render func(elapsed string)) {
	ticker := time.NewTicker(c.cfg.ClockInterval)
	defer ticker.Stop()

	render(FormatElapsed(c.Elapsed(time.Now())))
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			render(FormatElapsed(c.Elapsed(now)))
		}
	}
}

// WatchCompletion polls the game until its state has independently
// become COMPLETED, meaning the opponent terminated first. It returns
// the session id to show in the result view. Transient poll failures
// are swallowed and retried on the next tick.
func (c *Controller) WatchCompletion(ctx context.Context) (string, error) {
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		sessionID, done, err := c.checkCompletion(ctx)
		if err != nil {
			return "", err
		}
		if done {
			return sessionID, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Controller) checkCompletion(ctx context.Context) (string, bool, error) {
	start := time.Now()
	defer func() {
		c.metrics.ObservePollDuration(time.Since(start).Seconds())
	}()
	c.metrics.IncCompletionPolls()

	if c.game.ID == "" {
		// No game reference: converge on the session record instead.
		session, err := c.sessions.GetSession(ctx, c.session.ID)
		if err != nil {
			return "", false, c.pollError(ctx, err)
		}
		if session.State == sportsin.SessionStateTerminated {
			return session.ID, true, nil
		}
		return "", false, nil
	}

	game, err := c.games.GetGame(ctx, c.game.ID)
	if err != nil {
		return "", false, c.pollError(ctx, err)
	}
	if game.State == sportsin.GameStateCompleted && game.SessionID != "" {
		log.Info("Game completed by the other side", "gameID", game.ID, "sessionID", game.SessionID)
		return game.SessionID, true, nil
	}
	return "", false, nil
}

// pollError decides whether a poll failure ends the watch. A vanished
// resource is a page-level error; anything else is transient noise.
func (c *Controller) pollError(ctx context.Context, err error) error {
	if errors.Is(err, sportsin.ErrNotFound) {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	c.metrics.IncPollFailures()
	log.Debug("Completion poll failed, retrying on next tick", "error", err)
	return nil
}

// SubmitScore records the entered scores on the session, terminates it,
// and completes the game with the resolved winner. No partial-state
// rollback is attempted: a failure leaves whatever already landed on
// the store in place and the caller may retry the whole submission.
func (c *Controller) SubmitScore(ctx context.Context, scoreA, scoreB int) (sportsin.Session, error) {
	if scoreA < 0 || scoreB < 0 {
		return sportsin.Session{}, ErrNegativeScore
	}

	updated := c.session
	updated.Result = &sportsin.SessionResult{Metrics: c.scoreMetrics(scoreA, scoreB)}
	if _, err := c.sessions.UpdateSession(ctx, c.session.ID, updated); err != nil {
		return sportsin.Session{}, fmt.Errorf("failed to record score metrics: %w", err)
	}

	terminated, err := c.sessions.TerminateSession(ctx, c.session.ID)
	if err != nil {
		return sportsin.Session{}, fmt.Errorf("failed to terminate session: %w", err)
	}
	c.session = terminated

	if c.game.ID != "" {
		outcome := Resolve(scoreA, scoreB)
		winnerID := WinnerTeamID(c.game, outcome)
		// Always complete, winner or not, so the opponent's completion
		// poll observes the terminal state.
		if _, err := c.games.CompleteGame(ctx, c.game.ID, winnerID); err != nil {
			return terminated, fmt.Errorf("failed to complete game: %w", err)
		}
		log.Info("Game completed", "gameID", c.game.ID, "outcome", outcome, "winnerTeamID", winnerID)
	}

	c.metrics.IncSessionsCompleted()
	return terminated, nil
}

// scoreMetrics maps the two raw scores to one GOALS metric per team
// with a resolvable id. Sides without one are omitted, not zero-filled.
func (c *Controller) scoreMetrics(scoreA, scoreB int) []sportsin.MetricValue {
	var values []sportsin.MetricValue
	if id, ok := c.participantID(0); ok {
		values = append(values, sportsin.MetricValue{
			ParticipantID: id,
			MetricType:    sportsin.MetricTypeGoals,
			Value:         float64(scoreA),
		})
	}
	if id, ok := c.participantID(1); ok {
		values = append(values, sportsin.MetricValue{
			ParticipantID: id,
			MetricType:    sportsin.MetricTypeGoals,
			Value:         float64(scoreB),
		})
	}
	return values
}

// participantID resolves side 0 (creator) or side 1 (opponent) to a
// participant id, preferring the game's team references and falling
// back to the session's participant list.
func (c *Controller) participantID(side int) (string, bool) {
	var team *sportsin.TeamRef
	if side == 0 {
		team = c.game.CreatorTeam
	} else {
		team = c.game.OpponentTeam
	}
	if team != nil {
		return strconv.FormatInt(team.ID, 10), true
	}
	if side < len(c.session.Participants) && c.session.Participants[side].ID != "" {
		return c.session.Participants[side].ID, true
	}
	return "", false
}
