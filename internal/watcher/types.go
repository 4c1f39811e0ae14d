package watcher

import (
	"sync"
	"time"

	"github.com/sportsin/insport-client/internal/history"
	"github.com/sportsin/insport-client/internal/metrics"
	"github.com/sportsin/insport-client/internal/notifier"
	"github.com/sportsin/insport-client/internal/sportsin"
)

// Config holds the watcher settings.
type Config struct {
	// Points is the list of arena ids to watch for new games.
	Points []string
	// Interval is the cycle cadence.
	Interval time.Duration
	// DryRun formats notifications without sending them.
	DryRun bool
}

// DefaultConfig returns the standard watcher settings.
func DefaultConfig() Config {
	return Config{Interval: 30 * time.Second}
}

// Watcher follows games at the configured arenas through their
// lifecycle: it announces matches and results, records concluded
// sessions locally, and repairs games whose completion call was lost.
type Watcher struct {
	client   sportsin.Client
	notifier notifier.Notifier
	history  history.HistoryService
	metrics  metrics.Metrics
	cfg      Config

	mu      sync.Mutex
	tracked map[string]sportsin.GameState
}
