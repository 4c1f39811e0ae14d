package session

import (
	"strconv"

	"github.com/sportsin/insport-client/internal/sportsin"
)

// Outcome is the result of comparing the two submitted scores.
type Outcome int

const (
	Draw Outcome = iota
	WinnerA
	WinnerB
)

func (o Outcome) String() string {
	switch o {
	case WinnerA:
		return "WINNER_A"
	case WinnerB:
		return "WINNER_B"
	default:
		return "DRAW"
	}
}

// Resolve maps the two raw scores to an outcome. Side A is the creator
// team, side B the opponent. Used identically for the local result
// preview and for the winner id passed to game completion.
func Resolve(scoreA, scoreB int) Outcome {
	switch {
	case scoreA > scoreB:
		return WinnerA
	case scoreB > scoreA:
		return WinnerB
	default:
		return Draw
	}
}

// WinnerTeamID resolves the outcome to the winning team's id on the
// game record. Returns an empty string for a draw or when the winning
// side has no resolvable team.
func WinnerTeamID(game sportsin.Game, outcome Outcome) string {
	switch outcome {
	case WinnerA:
		if game.CreatorTeam != nil {
			return strconv.FormatInt(game.CreatorTeam.ID, 10)
		}
	case WinnerB:
		if game.OpponentTeam != nil {
			return strconv.FormatInt(game.OpponentTeam.ID, 10)
		}
	}
	return ""
}
