package sportsin

import "context"

// GameAPI defines the typed operations against the remote game store.
// Pure request/response, no local state.
type GameAPI interface {
	CreateGame(ctx context.Context, params CreateGameParams) (Game, error)
	GetGame(ctx context.Context, id string) (Game, error)
	GetWaitingGamesAtPoint(ctx context.Context, pointID string) ([]Game, error)
	JoinGame(ctx context.Context, id string, opponentTeamID int64) (Game, error)
	StartGame(ctx context.Context, id string) (Game, error)
	// CompleteGame marks the game COMPLETED. An empty winnerTeamID records
	// a draw.
	CompleteGame(ctx context.Context, id string, winnerTeamID string) (Game, error)
	DeleteGame(ctx context.Context, id string) error
}

// SessionAPI defines the typed operations against the remote session store.
type SessionAPI interface {
	GetSession(ctx context.Context, id string) (Session, error)
	GetActiveSessions(ctx context.Context) ([]Session, error)
	UpdateSession(ctx context.Context, id string, session Session) (Session, error)
	TerminateSession(ctx context.Context, id string) (Session, error)
}

// DirectoryAPI covers the read-only collaborator lookups used for
// selection menus and result display.
type DirectoryAPI interface {
	GetTeam(ctx context.Context, id int64) (TeamRef, error)
	ListArenas(ctx context.Context) ([]Arena, error)
	ListSports(ctx context.Context) ([]SportRef, error)
}

// Client is the full remote contract consumed by this application.
// This allows for mock implementations to be used in tests.
type Client interface {
	GameAPI
	SessionAPI
	DirectoryAPI
}
