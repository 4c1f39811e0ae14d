package identity

import "errors"

// ErrNoProfile is returned when no profile has been saved yet.
var ErrNoProfile = errors.New("no profile saved")

// Profile is the locally persisted identity: who this client plays as.
// It is read at the start of each flow and only mutated by explicit
// profile commands.
type Profile struct {
	ClientID  string `msgpack:"clientId"`
	PlayerID  string `msgpack:"playerId"`
	TeamID    int64  `msgpack:"teamId"`
	TeamName  string `msgpack:"teamName"`
	TeamColor string `msgpack:"teamColor"`
}

// HasTeam reports whether a team has been selected.
func (p Profile) HasTeam() bool {
	return p.TeamID != 0
}

// Store persists the profile to a file.
type Store struct {
	path string
}
