package lobby

import (
	"errors"
	"sync"
	"time"

	"github.com/sportsin/insport-client/internal/metrics"
	"github.com/sportsin/insport-client/internal/sportsin"
)

var (
	// ErrNotCreator is returned when a non-creator attempts a
	// creator-only action such as cancelling the search.
	ErrNotCreator = errors.New("only the creator team may do this")
	// ErrNotWaiting is returned when cancelling a game that already
	// left the WAITING state.
	ErrNotWaiting = errors.New("game is no longer waiting")
)

// Phase tells the caller which view to move to once the lobby wait is
// over.
type Phase string

const (
	// PhaseActive means the game started and an active session exists.
	PhaseActive Phase = "active"
	// PhaseResult means the game completed before this client entered
	// the active view, so it should jump straight to the result.
	PhaseResult Phase = "result"
	// PhaseCancelled means the waiting game was deleted.
	PhaseCancelled Phase = "cancelled"
)

// Handoff is the terminal observation of a lobby wait.
type Handoff struct {
	Phase Phase
	Game  sportsin.Game
}

// Status is a snapshot passed to the update hook on every poll tick.
type Status struct {
	Game    sportsin.Game
	Elapsed time.Duration
}

// Config holds the lobby timing knobs.
type Config struct {
	PollInterval time.Duration
	// WaitWarnAfter is purely informational. Crossing it logs a
	// warning but never cancels the underlying game.
	WaitWarnAfter time.Duration
	// AutoStart makes the creator start the game as soon as it is
	// matched instead of waiting for an explicit start.
	AutoStart bool
}

// DefaultConfig returns the standard lobby timings.
func DefaultConfig() Config {
	return Config{
		PollInterval:  3 * time.Second,
		WaitWarnAfter: 120 * time.Second,
		AutoStart:     true,
	}
}

// Synchronizer polls a game until it leaves the lobby states.
// Cancel may be called from a different goroutine than Run.
type Synchronizer struct {
	games   sportsin.GameAPI
	metrics metrics.Metrics
	cfg     Config

	teamID int64

	// OnUpdate, when set, is invoked after every successful poll with
	// the refreshed game and the elapsed wait time.
	OnUpdate func(Status)

	mu        sync.Mutex
	game      sportsin.Game
	cancelled bool
}
