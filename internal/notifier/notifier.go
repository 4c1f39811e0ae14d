package notifier

import "github.com/sportsin/insport-client/internal/sportsin"

// Notifier defines a high-level interface for announcing game events.
// This decouples the rest of the application from the specific
// notification provider (e.g., Slack).
type Notifier interface {
	// A waiting game found its opponent.
	SendMatchFoundNotification(game sportsin.Game, dryRun bool) error
	// A matched game was started and a session created.
	SendSessionStartedNotification(game sportsin.Game, dryRun bool) error
	// A session concluded with a result.
	SendResultNotification(session sportsin.Session, game sportsin.Game, dryRun bool) error
}
