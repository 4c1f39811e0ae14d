package slack

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/sportsin/insport-client/internal/metrics"
	"github.com/sportsin/insport-client/internal/notifier"
	"github.com/sportsin/insport-client/internal/sportsin"
)

var _ notifier.Notifier = (*SlackClient)(nil)

// NewClient creates a new Slack client wrapper.
func NewClient(token, channelID string, m metrics.Metrics) *SlackClient {
	api := slack.New(token)
	return &SlackClient{
		api:       api,
		channelID: channelID,
		metrics:   m,
	}
}

// NewClientWithAPI creates a new Slack client with a custom API client. Used for testing.
func NewClientWithAPI(api *slack.Client, channelID string, m metrics.Metrics) *SlackClient {
	return &SlackClient{
		api:       api,
		channelID: channelID,
		metrics:   m,
	}
}

func (c *SlackClient) SendMatchFoundNotification(game sportsin.Game, dryRun bool) error {
	return c.post(c.FormatMatchFoundNotification(game), "gameID", game.ID, dryRun)
}

func (c *SlackClient) SendSessionStartedNotification(game sportsin.Game, dryRun bool) error {
	return c.post(c.FormatSessionStartedNotification(game), "gameID", game.ID, dryRun)
}

func (c *SlackClient) SendResultNotification(session sportsin.Session, game sportsin.Game, dryRun bool) error {
	return c.post(c.FormatResultNotification(session, game), "sessionID", session.ID, dryRun)
}

func (c *SlackClient) post(msg slack.Message, idKey, idValue string, dryRun bool) error {
	if c.api == nil || c.channelID == "" {
		log.Warn("Slack client or channel ID is not configured. Skipping notification.")
		return errors.New("slack client or channel ID is not configured")
	}

	if dryRun {
		log.Info("Dry run mode: Slack notification not sent.", idKey, idValue, "msg", msg)
		return nil
	}

	_, _, err := c.api.PostMessage(c.channelID, slack.MsgOptionBlocks(msg.Blocks.BlockSet...))
	if err != nil {
		log.Error("Failed to send Slack message", "error", err, idKey, idValue)
		if c.metrics != nil {
			c.metrics.IncNotifFailed()
		}
		return err
	}
	if c.metrics != nil {
		c.metrics.IncNotifSent()
	}
	return nil
}
