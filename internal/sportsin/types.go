package sportsin

// GameState defines the matchmaking state of a game.
type GameState string

const (
	GameStateWaiting    GameState = "WAITING"
	GameStateMatched    GameState = "MATCHED"
	GameStateInProgress GameState = "IN_PROGRESS"
	GameStateCompleted  GameState = "COMPLETED"
	GameStateUnknown    GameState = "UNKNOWN"
)

// SessionState defines the state of a play session.
type SessionState string

const (
	SessionStateActive     SessionState = "ACTIVE"
	SessionStateTerminated SessionState = "TERMINATED"
	SessionStateUnknown    SessionState = "UNKNOWN"
)

// ParticipantType distinguishes team entries from individual players.
type ParticipantType string

const (
	ParticipantTypeTeam   ParticipantType = "TEAM"
	ParticipantTypePlayer ParticipantType = "PLAYER"
)

// MetricTypeGoals is the metric recorded by the score submission flow.
const MetricTypeGoals = "GOALS"

// TeamRef is an embedded team reference as the backend serializes it.
// The backend speaks French on the wire.
type TeamRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"nom"`
	Color string `json:"couleur,omitempty"`
}

// SportRef identifies a sport by its code ("FOOT", "BASKET_3X3", ...).
type SportRef struct {
	ID   int64  `json:"id,omitempty"`
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

// Arena is a physical point on the map where games can be played.
type Arena struct {
	ID              string   `json:"id"`
	Name            string   `json:"nom"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	SportsAvailable []string `json:"sportsDisponibles"`
}

// Game is a matchmaking record tracking the search for, and eventual
// pairing of, two teams at an arena.
//
// OpponentTeam is nil until the game reaches MATCHED; SessionID is empty
// until the game reaches IN_PROGRESS.
type Game struct {
	ID           string
	Sport        SportRef
	PointID      string
	CreatorTeam  *TeamRef
	OpponentTeam *TeamRef
	State        GameState
	CreatedAt    int64
	StartedAt    int64
	CompletedAt  int64
	SessionID    string
	WinnerTeamID string
}

// Participant is a team or player entry on a session.
type Participant struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Type ParticipantType `json:"type"`
}

// MetricValue is a single raw measurement submitted for a session.
type MetricValue struct {
	ParticipantID string  `json:"participantId"`
	MetricType    string  `json:"metricType"`
	Value         float64 `json:"value"`
	Context       string  `json:"context,omitempty"`
}

// SessionResult carries the raw metrics submitted for a session. The
// remote store applies the sport's rules on top of it.
type SessionResult struct {
	Metrics []MetricValue `json:"metrics"`
}

// Session is the live or concluded play record created once a game
// starts. Immutable once TERMINATED.
type Session struct {
	ID                  string
	Sport               SportRef
	PointID             string
	State               SessionState
	CreatedAt           int64
	EndedAt             int64
	Participants        []Participant
	Result              *SessionResult
	WinnerParticipantID string
}

// CreateGameParams is the payload for creating a new WAITING game.
type CreateGameParams struct {
	PointID     string
	SportCode   string
	CreatorTeam TeamRef
}

// --- wire types ---

// The backend serializes LocalDateTime without a zone.
const wireTimeLayout = "2006-01-02T15:04:05"

type gameResponse struct {
	ID           string    `json:"id"`
	Sport        *SportRef `json:"sport"`
	PointID      string    `json:"pointId"`
	CreatorTeam  *TeamRef  `json:"creatorTeam"`
	OpponentTeam *TeamRef  `json:"opponentTeam"`
	State        string    `json:"state"`
	CreatedAt    *string   `json:"createdAt"`
	StartedAt    *string   `json:"startedAt"`
	CompletedAt  *string   `json:"completedAt"`
	SessionID    *string   `json:"sessionId"`
	WinnerTeamID *string   `json:"winnerTeamId"`
}

type sessionResponse struct {
	ID                  string         `json:"id"`
	Sport               *SportRef      `json:"sport"`
	PointID             string         `json:"pointId"`
	State               string         `json:"state"`
	CreatedAt           *string        `json:"createdAt"`
	EndedAt             *string        `json:"endedAt"`
	Participants        []Participant  `json:"participants"`
	Result              *SessionResult `json:"result"`
	WinnerParticipantID *string        `json:"winnerParticipantId"`
}

type createGamePayload struct {
	PointID     string   `json:"pointId"`
	Sport       SportRef `json:"sport"`
	CreatorTeam TeamRef  `json:"creatorTeam"`
}

type joinGamePayload struct {
	OpponentTeamID int64 `json:"opponentTeamId"`
}

type completeGamePayload struct {
	WinnerTeamID *string `json:"winnerTeamId"`
}

type sessionPayload struct {
	ID                  string         `json:"id"`
	Sport               *SportRef      `json:"sport,omitempty"`
	PointID             string         `json:"pointId,omitempty"`
	State               string         `json:"state"`
	CreatedAt           *string        `json:"createdAt,omitempty"`
	EndedAt             *string        `json:"endedAt,omitempty"`
	Participants        []Participant  `json:"participants,omitempty"`
	Result              *SessionResult `json:"result,omitempty"`
	WinnerParticipantID *string        `json:"winnerParticipantId,omitempty"`
}
