package watcher

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sportsin/insport-client/internal/history"
	"github.com/sportsin/insport-client/internal/metrics"
	"github.com/sportsin/insport-client/internal/notifier"
	"github.com/sportsin/insport-client/internal/sportsin"
)

// New creates a new Watcher.
func New(client sportsin.Client, n notifier.Notifier, h history.HistoryService, m metrics.Metrics, cfg Config) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	return &Watcher{
		client:   client,
		notifier: n,
		history:  h,
		metrics:  m,
		cfg:      cfg,
		tracked:  make(map[string]sportsin.GameState),
	}
}

// Run executes cycles until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.RunCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info("Watcher stopped")
			return
		case <-ticker.C:
			w.RunCycle(ctx)
		}
	}
}

// RunCycle discovers new waiting games at the watched arenas and
// advances every tracked game through its lifecycle.
func (w *Watcher) RunCycle(ctx context.Context) {
	start := time.Now()
	defer func() {
		w.metrics.ObservePollDuration(time.Since(start).Seconds())
	}()

	w.discover(ctx)

	for _, gameID := range w.trackedIDs() {
		w.advance(ctx, gameID)
	}
}

// Track starts following a game explicitly, e.g. one created by this
// client rather than discovered at a watched arena.
func (w *Watcher) Track(game sportsin.Game) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.tracked[game.ID]; !ok {
		w.tracked[game.ID] = game.State
		log.Info("Tracking game", "gameID", game.ID, "state", game.State)
	}
}

// TrackedCount returns the number of games currently followed.
func (w *Watcher) TrackedCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.tracked)
}

func (w *Watcher) discover(ctx context.Context) {
	for _, point := range w.cfg.Points {
		games, err := w.client.GetWaitingGamesAtPoint(ctx, point)
		if err != nil {
			w.metrics.IncPollFailures()
			log.Error("Failed to list waiting games", "pointID", point, "error", err)
			continue
		}
		for _, g := range games {
			w.Track(g)
		}
	}
}

func (w *Watcher) advance(ctx context.Context, gameID string) {
	prev := w.lastState(gameID)

	game, err := w.client.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, sportsin.ErrNotFound) {
			// The search was cancelled and the game deleted.
			log.Info("Tracked game disappeared, dropping it", "gameID", gameID)
			w.untrack(gameID)
			return
		}
		w.metrics.IncPollFailures()
		log.Debug("Failed to refresh tracked game, retrying next cycle", "gameID", gameID, "error", err)
		return
	}

	switch game.State {
	case sportsin.GameStateMatched:
		if prev == sportsin.GameStateWaiting {
			log.Info("Game matched", "gameID", game.ID)
			if err := w.notifier.SendMatchFoundNotification(game, w.cfg.DryRun); err != nil {
				log.Error("Failed to announce match", "gameID", game.ID, "error", err)
			}
		}

	case sportsin.GameStateInProgress:
		if prev != sportsin.GameStateInProgress {
			log.Info("Game started", "gameID", game.ID, "sessionID", game.SessionID)
			if err := w.notifier.SendSessionStartedNotification(game, w.cfg.DryRun); err != nil {
				log.Error("Failed to announce session start", "gameID", game.ID, "error", err)
			}
		}
		w.reconcile(ctx, game)

	case sportsin.GameStateCompleted:
		w.conclude(ctx, game)
		w.untrack(gameID)
		return
	}

	w.setState(gameID, game.State)
}

// reconcile repairs the gap left when a client terminated the session
// but its game completion call never landed. Without it the other
// side's completion poll would wait forever.
func (w *Watcher) reconcile(ctx context.Context, game sportsin.Game) {
	if game.SessionID == "" {
		return
	}

	session, err := w.client.GetSession(ctx, game.SessionID)
	if err != nil {
		log.Debug("Failed to load session for reconciliation", "sessionID", game.SessionID, "error", err)
		return
	}
	if session.State != sportsin.SessionStateTerminated {
		return
	}

	log.Warn("Session terminated but game not completed, reconciling", "gameID", game.ID, "sessionID", session.ID)
	if w.cfg.DryRun {
		return
	}
	if _, err := w.client.CompleteGame(ctx, game.ID, session.WinnerParticipantID); err != nil {
		log.Error("Failed to reconcile game completion", "gameID", game.ID, "error", err)
	}
}

// conclude announces and records a completed game's result, at most
// once per session.
func (w *Watcher) conclude(ctx context.Context, game sportsin.Game) {
	if game.SessionID == "" {
		log.Warn("Completed game has no session", "gameID", game.ID)
		return
	}

	recorded, err := w.history.Has(game.SessionID)
	if err != nil {
		log.Error("Failed to check history", "sessionID", game.SessionID, "error", err)
		return
	}
	if recorded {
		return
	}

	session, err := w.client.GetSession(ctx, game.SessionID)
	if err != nil {
		log.Error("Failed to load concluded session", "sessionID", game.SessionID, "error", err)
		return
	}

	log.Info("Game concluded", "gameID", game.ID, "sessionID", session.ID, "winner", session.WinnerParticipantID)
	if err := w.notifier.SendResultNotification(session, game, w.cfg.DryRun); err != nil {
		log.Error("Failed to announce result", "sessionID", session.ID, "error", err)
	}
	if err := w.history.Record(history.FromSession(session, game)); err != nil {
		log.Error("Failed to record session history", "sessionID", session.ID, "error", err)
	}
}

func (w *Watcher) lastState(gameID string) sportsin.GameState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tracked[gameID]
}

func (w *Watcher) setState(gameID string, state sportsin.GameState) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.tracked[gameID]; ok {
		w.tracked[gameID] = state
	}
}

func (w *Watcher) untrack(gameID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.tracked, gameID)
}

func (w *Watcher) trackedIDs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	ids := make([]string, 0, len(w.tracked))
	for id := range w.tracked {
		ids = append(ids, id)
	}
	return ids
}
