package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	MatchmakingJoined  prometheus.Counter
	MatchmakingCreated prometheus.Counter
	LobbyPolls         prometheus.Counter
	CompletionPolls    prometheus.Counter
	PollFailures       prometheus.Counter
	SessionsCompleted  prometheus.Counter
	NotifSent          prometheus.Counter
	NotifFailed        prometheus.Counter
	PollDuration       prometheus.Histogram
	StartupTimeSeconds prometheus.Gauge
}
