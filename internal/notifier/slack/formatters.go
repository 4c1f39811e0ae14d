package slack

import (
	"fmt"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/sportsin/insport-client/internal/sportsin"
)

// FormatMatchFoundNotification creates the Slack message for a game
// that found its opponent, using Block Kit.
func (c *SlackClient) FormatMatchFoundNotification(game sportsin.Game) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "⚔️ Adversaire trouvé!", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s\nSport: %s\nTerrain: %s", matchup(game), game.Sport.Code, game.PointID)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// FormatSessionStartedNotification creates the Slack message for a
// started game.
func (c *SlackClient) FormatSessionStartedNotification(game sportsin.Game) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏁 Match lancé!", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := matchup(game)
	if game.StartedAt > 0 {
		detailsText += "\n" + time.Unix(game.StartedAt, 0).Format("Monday 02 Jan, 15:04")
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// FormatResultNotification creates the Slack message for a concluded
// session.
func (c *SlackClient) FormatResultNotification(session sportsin.Session, game sportsin.Game) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Match terminé!", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if lines := scoreLines(session); len(lines) > 0 {
		scoreText := "Score:\n" + strings.Join(lines, "\n")
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", scoreText, true, false), nil, nil))
	}

	var outcomeText string
	if winner := participantName(session, session.WinnerParticipantID); winner != "" {
		outcomeText = fmt.Sprintf("🏆 Vainqueur: %s", winner)
	} else {
		outcomeText = "Match nul ou pas de vainqueur"
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", outcomeText, true, false), nil, nil))

	if session.EndedAt > 0 {
		contextText := slack.NewTextBlockObject("plain_text", time.Unix(session.EndedAt, 0).Format("Monday 02 Jan, 15:04"), true, false)
		blocks = append(blocks, slack.NewContextBlock("", contextText))
	}

	return slack.NewBlockMessage(blocks...)
}

func matchup(game sportsin.Game) string {
	creator := "?"
	if game.CreatorTeam != nil {
		creator = game.CreatorTeam.Name
	}
	opponent := "?"
	if game.OpponentTeam != nil {
		opponent = game.OpponentTeam.Name
	}
	return fmt.Sprintf("%s vs %s", creator, opponent)
}

func scoreLines(session sportsin.Session) []string {
	if session.Result == nil {
		return nil
	}
	var lines []string
	for _, m := range session.Result.Metrics {
		if m.MetricType != sportsin.MetricTypeGoals {
			continue
		}
		name := participantName(session, m.ParticipantID)
		if name == "" {
			name = m.ParticipantID
		}
		lines = append(lines, fmt.Sprintf("• %s: %.0f", name, m.Value))
	}
	return lines
}

func participantName(session sportsin.Session, participantID string) string {
	if participantID == "" {
		return ""
	}
	for _, p := range session.Participants {
		if p.ID == participantID {
			return p.Name
		}
	}
	return participantID
}
