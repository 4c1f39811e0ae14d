package session

import (
	"errors"
	"time"

	"github.com/sportsin/insport-client/internal/metrics"
	"github.com/sportsin/insport-client/internal/sportsin"
)

// ErrNegativeScore rejects a score submission before it reaches the
// remote store.
var ErrNegativeScore = errors.New("scores must be zero or greater")

// ErrNoActiveSession is returned when neither a game id nor any active
// session can be resolved.
var ErrNoActiveSession = errors.New("no active session")

// Config holds the controller's timer cadences.
type Config struct {
	// ClockInterval drives the presentational elapsed-time clock.
	ClockInterval time.Duration
	// PollInterval drives the completion poll that detects an
	// opponent-driven termination.
	PollInterval time.Duration
}

// DefaultConfig returns the cadences used by the interactive client.
func DefaultConfig() Config {
	return Config{
		ClockInterval: 1 * time.Second,
		PollInterval:  3 * time.Second,
	}
}

// Controller owns the active-session view: the elapsed clock, the
// completion poll and the score submission flow.
type Controller struct {
	games    sportsin.GameAPI
	sessions sportsin.SessionAPI
	metrics  metrics.Metrics
	cfg      Config

	game    sportsin.Game
	session sportsin.Session
}
