package sportsin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// APIClient is the HTTP implementation of the Client interface.
type APIClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewClient creates a new client for the given backend base URL,
// e.g. "http://localhost:8080".
func NewClient(baseURL string) *APIClient {
	return &APIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    baseURL,
	}
}

// Ensure APIClient implements the Client interface.
var _ Client = (*APIClient)(nil)

// CreateGame creates a new WAITING game for the creator team.
func (c *APIClient) CreateGame(ctx context.Context, params CreateGameParams) (Game, error) {
	payload := createGamePayload{
		PointID:     params.PointID,
		Sport:       SportRef{Code: params.SportCode},
		CreatorTeam: params.CreatorTeam,
	}
	var resp gameResponse
	if err := c.do(ctx, http.MethodPost, "/api/games", payload, &resp); err != nil {
		return Game{}, fmt.Errorf("failed to create game: %w", err)
	}
	return gameFromResponse(resp), nil
}

// GetGame fetches a single game by id.
func (c *APIClient) GetGame(ctx context.Context, id string) (Game, error) {
	var resp gameResponse
	if err := c.do(ctx, http.MethodGet, "/api/games/"+id, nil, &resp); err != nil {
		return Game{}, fmt.Errorf("failed to get game %s: %w", id, err)
	}
	return gameFromResponse(resp), nil
}

// GetWaitingGamesAtPoint lists the WAITING games at an arena, in the
// store's order. The matchmaker relies on that order for its tie-break.
func (c *APIClient) GetWaitingGamesAtPoint(ctx context.Context, pointID string) ([]Game, error) {
	var resp []gameResponse
	if err := c.do(ctx, http.MethodGet, "/api/games/point/"+pointID+"/waiting", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list waiting games at point %s: %w", pointID, err)
	}
	games := make([]Game, 0, len(resp))
	for _, g := range resp {
		games = append(games, gameFromResponse(g))
	}
	log.Debug("Fetched waiting games", "pointID", pointID, "count", len(games))
	return games, nil
}

// JoinGame joins an existing WAITING game as the opponent team. The
// store transitions the game to MATCHED; a join on a game that is no
// longer waiting is rejected by the store and surfaced as an error.
func (c *APIClient) JoinGame(ctx context.Context, id string, opponentTeamID int64) (Game, error) {
	var resp gameResponse
	if err := c.do(ctx, http.MethodPost, "/api/games/"+id+"/join", joinGamePayload{OpponentTeamID: opponentTeamID}, &resp); err != nil {
		return Game{}, fmt.Errorf("failed to join game %s: %w", id, err)
	}
	return gameFromResponse(resp), nil
}

// StartGame transitions a MATCHED game to IN_PROGRESS. The store
// allocates the session and returns its id on the game record.
func (c *APIClient) StartGame(ctx context.Context, id string) (Game, error) {
	var resp gameResponse
	if err := c.do(ctx, http.MethodPost, "/api/games/"+id+"/start", nil, &resp); err != nil {
		return Game{}, fmt.Errorf("failed to start game %s: %w", id, err)
	}
	return gameFromResponse(resp), nil
}

// CompleteGame marks the game COMPLETED, with an empty winnerTeamID for
// a draw. Always called, even on a tie, so the opponent's completion
// poll observes the terminal state.
func (c *APIClient) CompleteGame(ctx context.Context, id string, winnerTeamID string) (Game, error) {
	payload := completeGamePayload{}
	if winnerTeamID != "" {
		payload.WinnerTeamID = &winnerTeamID
	}
	var resp gameResponse
	if err := c.do(ctx, http.MethodPost, "/api/games/"+id+"/complete", payload, &resp); err != nil {
		return Game{}, fmt.Errorf("failed to complete game %s: %w", id, err)
	}
	return gameFromResponse(resp), nil
}

// DeleteGame removes a game. Used by the creator to cancel a search
// while the game is still WAITING.
func (c *APIClient) DeleteGame(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/games/"+id, nil, nil); err != nil {
		return fmt.Errorf("failed to delete game %s: %w", id, err)
	}
	return nil
}

// GetSession fetches a single session by id.
func (c *APIClient) GetSession(ctx context.Context, id string) (Session, error) {
	var resp sessionResponse
	if err := c.do(ctx, http.MethodGet, "/api/sessions/"+id, nil, &resp); err != nil {
		return Session{}, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return sessionFromResponse(resp), nil
}

// GetActiveSessions lists all currently ACTIVE sessions.
func (c *APIClient) GetActiveSessions(ctx context.Context) ([]Session, error) {
	var resp []sessionResponse
	if err := c.do(ctx, http.MethodGet, "/api/sessions/active", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list active sessions: %w", err)
	}
	sessions := make([]Session, 0, len(resp))
	for _, s := range resp {
		sessions = append(sessions, sessionFromResponse(s))
	}
	return sessions, nil
}

// UpdateSession replaces the stored session, carrying the submitted
// result metrics.
func (c *APIClient) UpdateSession(ctx context.Context, id string, session Session) (Session, error) {
	var resp sessionResponse
	if err := c.do(ctx, http.MethodPut, "/api/sessions/"+id, sessionToPayload(session), &resp); err != nil {
		return Session{}, fmt.Errorf("failed to update session %s: %w", id, err)
	}
	return sessionFromResponse(resp), nil
}

// TerminateSession transitions the session to TERMINATED. The store
// sets endedAt and resolves winnerParticipantId from the submitted
// metrics; the client never recomputes it here.
func (c *APIClient) TerminateSession(ctx context.Context, id string) (Session, error) {
	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/sessions/"+id+"/terminate", nil, &resp); err != nil {
		return Session{}, fmt.Errorf("failed to terminate session %s: %w", id, err)
	}
	return sessionFromResponse(resp), nil
}

// GetTeam fetches a team by id, used for the result view's winner lookup.
func (c *APIClient) GetTeam(ctx context.Context, id int64) (TeamRef, error) {
	var resp TeamRef
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/equipes/%d", id), nil, &resp); err != nil {
		return TeamRef{}, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return resp, nil
}

// ListArenas fetches all arenas.
func (c *APIClient) ListArenas(ctx context.Context) ([]Arena, error) {
	var resp []Arena
	if err := c.do(ctx, http.MethodGet, "/api/arenes", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list arenas: %w", err)
	}
	return resp, nil
}

// ListSports fetches all sports.
func (c *APIClient) ListSports(ctx context.Context) ([]SportRef, error) {
	var resp []SportRef
	if err := c.do(ctx, http.MethodGet, "/api/sports", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list sports: %w", err)
	}
	return resp, nil
}

// do executes a single JSON request against the backend and decodes the
// response into out (when out is non-nil).
func (c *APIClient) do(ctx context.Context, method, path string, body any, out any) error {
	url := c.BaseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debug("Requesting backend", "method", method, "url", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from backend", "method", method, "url", url, "status", resp.StatusCode, "body", string(respBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func gameFromResponse(resp gameResponse) Game {
	game := Game{
		ID:           resp.ID,
		PointID:      resp.PointID,
		CreatorTeam:  resp.CreatorTeam,
		OpponentTeam: resp.OpponentTeam,
		CreatedAt:    parseWireTime(resp.CreatedAt),
		StartedAt:    parseWireTime(resp.StartedAt),
		CompletedAt:  parseWireTime(resp.CompletedAt),
	}
	if resp.Sport != nil {
		game.Sport = *resp.Sport
	}
	if resp.SessionID != nil {
		game.SessionID = *resp.SessionID
	}
	if resp.WinnerTeamID != nil {
		game.WinnerTeamID = *resp.WinnerTeamID
	}
	switch GameState(resp.State) {
	case GameStateWaiting, GameStateMatched, GameStateInProgress, GameStateCompleted:
		game.State = GameState(resp.State)
	default:
		game.State = GameStateUnknown
		log.Warn("Unknown game state received from backend", "state", resp.State, "gameID", resp.ID)
	}
	return game
}

func sessionFromResponse(resp sessionResponse) Session {
	session := Session{
		ID:           resp.ID,
		PointID:      resp.PointID,
		CreatedAt:    parseWireTime(resp.CreatedAt),
		EndedAt:      parseWireTime(resp.EndedAt),
		Participants: resp.Participants,
		Result:       resp.Result,
	}
	if resp.Sport != nil {
		session.Sport = *resp.Sport
	}
	if resp.WinnerParticipantID != nil {
		session.WinnerParticipantID = *resp.WinnerParticipantID
	}
	switch SessionState(resp.State) {
	case SessionStateActive, SessionStateTerminated:
		session.State = SessionState(resp.State)
	default:
		session.State = SessionStateUnknown
		log.Warn("Unknown session state received from backend", "state", resp.State, "sessionID", resp.ID)
	}
	return session
}

func sessionToPayload(session Session) sessionPayload {
	payload := sessionPayload{
		ID:           session.ID,
		PointID:      session.PointID,
		State:        string(session.State),
		CreatedAt:    formatWireTime(session.CreatedAt),
		EndedAt:      formatWireTime(session.EndedAt),
		Participants: session.Participants,
		Result:       session.Result,
	}
	if session.Sport.Code != "" || session.Sport.ID != 0 {
		sport := session.Sport
		payload.Sport = &sport
	}
	if session.WinnerParticipantID != "" {
		winner := session.WinnerParticipantID
		payload.WinnerParticipantID = &winner
	}
	return payload
}

func parseWireTime(value *string) int64 {
	if value == nil || *value == "" {
		return 0
	}
	// The backend sends zoneless wall-clock timestamps, so they must be
	// read in the machine's zone or elapsed-time math drifts by the UTC offset.
	t, err := time.ParseInLocation(wireTimeLayout, *value, time.Local)
	if err != nil {
		log.Warn("Failed to parse backend timestamp", "value", *value, "error", err)
		return 0
	}
	return t.Unix()
}

func formatWireTime(unix int64) *string {
	if unix == 0 {
		return nil
	}
	formatted := time.Unix(unix, 0).Format(wireTimeLayout)
	return &formatted
}
