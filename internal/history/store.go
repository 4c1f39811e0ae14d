package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sportsin/insport-client/internal/sportsin"
)

// store handles database operations for the session history.
type store struct {
	db *sql.DB
}

// NewStore creates a new history store.
func NewStore(db *sql.DB) HistoryService {
	return &store{db: db}
}

var _ HistoryService = (*store)(nil)

func (s *store) Record(rec Record) error {
	if rec.SessionID == "" {
		return errors.New("record has no session id")
	}
	if rec.RecordedAt == 0 {
		rec.RecordedAt = time.Now().Unix()
	}

	participantsJSON, err := json.Marshal(rec.Participants)
	if err != nil {
		return fmt.Errorf("failed to marshal participants: %w", err)
	}

	query := `
		INSERT OR IGNORE INTO session_history (
			session_id, game_id, sport, point_id, participants_json,
			winner_participant_id, score_creator, score_opponent,
			started_at, ended_at, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := s.db.Exec(query,
		rec.SessionID,
		rec.GameID,
		rec.Sport,
		rec.PointID,
		string(participantsJSON),
		nullString(rec.WinnerParticipantID),
		nullInt(rec.ScoreCreator),
		nullInt(rec.ScoreOpponent),
		rec.StartedAt,
		rec.EndedAt,
		rec.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record session %s: %w", rec.SessionID, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		log.Debug("Session already recorded", "sessionID", rec.SessionID)
	}
	return nil
}

func (s *store) Has(sessionID string) (bool, error) {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM session_history WHERE session_id = ?", sessionID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check history for session %s: %w", sessionID, err)
	}
	return true, nil
}

func (s *store) Get(sessionID string) (Record, error) {
	row := s.db.QueryRow(selectColumns+" FROM session_history WHERE session_id = ?", sessionID)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotRecorded
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	return rec, nil
}

func (s *store) List(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(selectColumns+" FROM session_history ORDER BY ended_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

const selectColumns = `SELECT session_id, game_id, sport, point_id, participants_json,
	winner_participant_id, score_creator, score_opponent,
	started_at, ended_at, recorded_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var participantsJSON string
	var winner sql.NullString
	var scoreA, scoreB sql.NullInt64

	err := row.Scan(
		&rec.SessionID,
		&rec.GameID,
		&rec.Sport,
		&rec.PointID,
		&participantsJSON,
		&winner,
		&scoreA,
		&scoreB,
		&rec.StartedAt,
		&rec.EndedAt,
		&rec.RecordedAt,
	)
	if err != nil {
		return Record{}, err
	}

	if participantsJSON != "" {
		if err := json.Unmarshal([]byte(participantsJSON), &rec.Participants); err != nil {
			return Record{}, fmt.Errorf("failed to unmarshal participants: %w", err)
		}
	}
	rec.WinnerParticipantID = winner.String
	if scoreA.Valid {
		v := int(scoreA.Int64)
		rec.ScoreCreator = &v
	}
	if scoreB.Valid {
		v := int(scoreB.Int64)
		rec.ScoreOpponent = &v
	}
	return rec, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

// FromSession builds a record from a terminated session and,
// optionally, its completed game.
func FromSession(session sportsin.Session, game sportsin.Game) Record {
	rec := Record{
		SessionID:           session.ID,
		GameID:              game.ID,
		Sport:               session.Sport.Code,
		PointID:             session.PointID,
		Participants:        session.Participants,
		WinnerParticipantID: session.WinnerParticipantID,
		StartedAt:           session.CreatedAt,
		EndedAt:             session.EndedAt,
	}
	if rec.Sport == "" {
		rec.Sport = game.Sport.Code
	}
	if rec.PointID == "" {
		rec.PointID = game.PointID
	}
	return rec
}
