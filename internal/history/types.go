package history

import (
	"errors"

	"github.com/sportsin/insport-client/internal/sportsin"
)

// ErrNotRecorded is returned when a session id has no local record.
var ErrNotRecorded = errors.New("session not recorded")

// Record is one concluded session as kept in the local history.
type Record struct {
	SessionID           string
	GameID              string
	Sport               string
	PointID             string
	Participants        []sportsin.Participant
	WinnerParticipantID string
	// Scores are nil when the session concluded without a local score
	// submission, e.g. the opponent terminated first.
	ScoreCreator  *int
	ScoreOpponent *int
	StartedAt     int64
	EndedAt       int64
	RecordedAt    int64
}
