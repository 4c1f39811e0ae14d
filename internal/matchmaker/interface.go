package matchmaker

import (
	"context"

	"github.com/sportsin/insport-client/internal/sportsin"
)

// Initiator finds or creates a game for a team at an arena.
type Initiator interface {
	// Initiate either joins the first compatible waiting game at the
	// arena or creates a new one. Exactly one game mutation is issued
	// per call; failures are returned to the caller without retry.
	Initiate(ctx context.Context, team *sportsin.TeamRef, arenaID, sportCode string) (Result, error)
}
