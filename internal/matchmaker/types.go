package matchmaker

import (
	"errors"

	"github.com/sportsin/insport-client/internal/metrics"
	"github.com/sportsin/insport-client/internal/sportsin"
)

var (
	// ErrNoTeam is returned when the caller has no team selected.
	ErrNoTeam = errors.New("no team selected, join a team first")
	// ErrNoArena is returned when no arena was selected.
	ErrNoArena = errors.New("no arena selected")
	// ErrNoSport is returned when no sport was selected.
	ErrNoSport = errors.New("no sport selected")
)

// Result reports the outcome of an initiate call.
type Result struct {
	Game sportsin.Game
	// Joined is true when an existing waiting game was joined rather
	// than a new one created.
	Joined bool
}

// Service implements Initiator against the remote game store.
type Service struct {
	games   sportsin.GameAPI
	metrics metrics.Metrics
}
