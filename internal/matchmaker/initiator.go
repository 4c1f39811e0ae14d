package matchmaker

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/sportsin/insport-client/internal/metrics"
	"github.com/sportsin/insport-client/internal/sportsin"
)

var _ Initiator = (*Service)(nil)

// NewService creates a new matchmaking initiator.
func NewService(games sportsin.GameAPI, m metrics.Metrics) *Service {
	return &Service{
		games:   games,
		metrics: m,
	}
}

// Initiate queries the waiting games at the arena and joins the first
// one for the requested sport that was created by a different team.
// When none matches, it creates a fresh WAITING game instead.
func (s *Service) Initiate(ctx context.Context, team *sportsin.TeamRef, arenaID, sportCode string) (Result, error) {
	if team == nil || team.ID == 0 {
		return Result{}, ErrNoTeam
	}
	if arenaID == "" {
		return Result{}, ErrNoArena
	}
	if sportCode == "" {
		return Result{}, ErrNoSport
	}

	waiting, err := s.games.GetWaitingGamesAtPoint(ctx, arenaID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list waiting games at point %s: %w", arenaID, err)
	}

	// First match in list order wins; there is no further ranking.
	for _, g := range waiting {
		if g.Sport.Code != sportCode {
			continue
		}
		if g.CreatorTeam == nil || g.CreatorTeam.ID == team.ID {
			continue
		}

		joined, err := s.games.JoinGame(ctx, g.ID, team.ID)
		if err != nil {
			return Result{}, fmt.Errorf("failed to join game %s: %w", g.ID, err)
		}
		log.Info("Joined waiting game", "gameID", joined.ID, "sport", sportCode, "pointID", arenaID)
		s.metrics.IncMatchmakingJoined()
		return Result{Game: joined, Joined: true}, nil
	}

	created, err := s.games.CreateGame(ctx, sportsin.CreateGameParams{
		PointID:     arenaID,
		SportCode:   sportCode,
		CreatorTeam: *team,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to create game: %w", err)
	}
	log.Info("Created new waiting game", "gameID", created.ID, "sport", sportCode, "pointID", arenaID)
	s.metrics.IncMatchmakingCreated()
	return Result{Game: created, Joined: false}, nil
}
