package history

// HistoryService records concluded sessions locally and serves the
// history views. Records are append-only; a session is recorded at
// most once.
type HistoryService interface {
	// Record stores a concluded session. Recording the same session
	// again is a no-op.
	Record(rec Record) error

	// Has reports whether a session was already recorded.
	Has(sessionID string) (bool, error)

	// Get retrieves a recorded session by id.
	Get(sessionID string) (Record, error)

	// List returns the most recently ended records, newest first.
	List(limit int) ([]Record, error)
}
