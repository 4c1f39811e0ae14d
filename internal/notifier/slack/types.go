package slack

import (
	"github.com/slack-go/slack"

	"github.com/sportsin/insport-client/internal/metrics"
)

// SlackClient is a wrapper around the official slack-go client.
type SlackClient struct {
	api       *slack.Client
	channelID string
	metrics   metrics.Metrics
}
