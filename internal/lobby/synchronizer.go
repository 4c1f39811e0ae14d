package lobby

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sportsin/insport-client/internal/metrics"
	"github.com/sportsin/insport-client/internal/sportsin"
)

// NewSynchronizer creates a lobby synchronizer for the given game. The
// teamID is the locally selected team, used to decide creator-only
// actions.
func NewSynchronizer(games sportsin.GameAPI, m metrics.Metrics, cfg Config, teamID int64, game sportsin.Game) *Synchronizer {
	return &Synchronizer{
		games:   games,
		metrics: m,
		cfg:     cfg,
		teamID:  teamID,
		game:    game,
	}
}

// Game returns the most recently observed game.
func (s *Synchronizer) Game() sportsin.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game
}

// IsCreator reports whether the local team created the game. The
// server enforces the real permission; this only drives which actions
// are offered locally.
func (s *Synchronizer) IsCreator() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.CreatorTeam != nil && s.game.CreatorTeam.ID == s.teamID
}

// Run polls the game until it reaches IN_PROGRESS or COMPLETED and
// returns the matching handoff. Transient poll failures are swallowed
// and retried on the next tick. A missing game is fatal unless this
// client cancelled the search itself.
func (s *Synchronizer) Run(ctx context.Context) (Handoff, error) {
	started := time.Now()
	warned := false

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	// Check the initial snapshot before the first tick so a game that
	// is already past the lobby hands off immediately.
	if h, done := s.evaluate(ctx, s.Game()); done {
		return h, nil
	}

	for {
		select {
		case <-ctx.Done():
			return Handoff{}, ctx.Err()
		case <-ticker.C:
			elapsed := time.Since(started)
			if !warned && s.cfg.WaitWarnAfter > 0 && elapsed >= s.cfg.WaitWarnAfter && s.Game().State == sportsin.GameStateWaiting {
				log.Warn("Still waiting for an opponent", "gameID", s.Game().ID, "elapsed", elapsed.Round(time.Second))
				warned = true
			}

			game, err := s.poll(ctx)
			if err != nil {
				if errors.Is(err, sportsin.ErrNotFound) {
					if s.wasCancelled() {
						return Handoff{Phase: PhaseCancelled, Game: s.Game()}, nil
					}
					return Handoff{}, fmt.Errorf("game disappeared mid-wait: %w", err)
				}
				if ctx.Err() != nil {
					return Handoff{}, ctx.Err()
				}
				s.metrics.IncPollFailures()
				log.Debug("Lobby poll failed, retrying", "gameID", s.Game().ID, "error", err)
				continue
			}

			if s.OnUpdate != nil {
				s.OnUpdate(Status{Game: game, Elapsed: elapsed})
			}

			if h, done := s.evaluate(ctx, game); done {
				return h, nil
			}
		}
	}
}

func (s *Synchronizer) poll(ctx context.Context) (sportsin.Game, error) {
	s.metrics.IncLobbyPolls()

	start := time.Now()
	game, err := s.games.GetGame(ctx, s.Game().ID)
	s.metrics.ObservePollDuration(time.Since(start).Seconds())
	if err != nil {
		return sportsin.Game{}, err
	}

	s.mu.Lock()
	s.game = game
	s.mu.Unlock()
	return game, nil
}

// evaluate inspects a fresh game snapshot and decides whether the
// lobby wait is over. A MATCHED game is started here when this client
// is the creator and auto-start is on; a start failure is logged and
// retried on the next tick.
func (s *Synchronizer) evaluate(ctx context.Context, game sportsin.Game) (Handoff, bool) {
	switch game.State {
	case sportsin.GameStateInProgress:
		if game.SessionID == "" {
			return Handoff{}, false
		}
		log.Info("Game started", "gameID", game.ID, "sessionID", game.SessionID)
		return Handoff{Phase: PhaseActive, Game: game}, true

	case sportsin.GameStateCompleted:
		if game.SessionID == "" {
			return Handoff{}, false
		}
		log.Info("Game already completed, skipping to result", "gameID", game.ID, "sessionID", game.SessionID)
		return Handoff{Phase: PhaseResult, Game: game}, true

	case sportsin.GameStateMatched:
		if !s.cfg.AutoStart || !s.IsCreator() {
			return Handoff{}, false
		}
		started, err := s.games.StartGame(ctx, game.ID)
		if err != nil {
			log.Error("Failed to start matched game, will retry", "gameID", game.ID, "error", err)
			return Handoff{}, false
		}
		s.mu.Lock()
		s.game = started
		s.mu.Unlock()
		if started.State == sportsin.GameStateInProgress && started.SessionID != "" {
			log.Info("Game started", "gameID", started.ID, "sessionID", started.SessionID)
			return Handoff{Phase: PhaseActive, Game: started}, true
		}
		return Handoff{}, false

	default:
		return Handoff{}, false
	}
}

// Cancel deletes the waiting game. Only the creator may cancel, and
// only while the game is still WAITING.
func (s *Synchronizer) Cancel(ctx context.Context) error {
	if !s.IsCreator() {
		return ErrNotCreator
	}
	game := s.Game()
	if game.State != sportsin.GameStateWaiting {
		return ErrNotWaiting
	}

	if err := s.games.DeleteGame(ctx, game.ID); err != nil {
		return fmt.Errorf("failed to cancel search for game %s: %w", game.ID, err)
	}

	s.mu.Lock()
	s.cancelled = true
	s.mu.Unlock()
	log.Info("Search cancelled", "gameID", game.ID)
	return nil
}

func (s *Synchronizer) wasCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}
