package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchmakingJoined: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "insport_matchmaking_joined_total",
			Help: "The total number of waiting games joined as opponent.",
		}),
		MatchmakingCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "insport_matchmaking_created_total",
			Help: "The total number of new waiting games created.",
		}),
		LobbyPolls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "insport_lobby_polls_total",
			Help: "The total number of lobby state polls issued.",
		}),
		CompletionPolls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "insport_completion_polls_total",
			Help: "The total number of session completion polls issued.",
		}),
		PollFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "insport_poll_failures_total",
			Help: "The total number of polls that failed transiently and were retried.",
		}),
		SessionsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "insport_sessions_completed_total",
			Help: "The total number of sessions completed with a submitted score.",
		}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "insport_notifications_sent_total",
			Help: "The total number of notifications successfully sent.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "insport_notifications_failed_total",
			Help: "The total number of notifications that failed to send.",
		}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "insport_poll_duration_seconds",
			Help:    "The duration of individual API polls.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "insport_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchmakingJoined,
		s.MatchmakingCreated,
		s.LobbyPolls,
		s.CompletionPolls,
		s.PollFailures,
		s.SessionsCompleted,
		s.NotifSent,
		s.NotifFailed,
		s.PollDuration,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchmakingJoined() {
	s.MatchmakingJoined.Inc()
}

func (s *Service) IncMatchmakingCreated() {
	s.MatchmakingCreated.Inc()
}

func (s *Service) IncLobbyPolls() {
	s.LobbyPolls.Inc()
}

func (s *Service) IncCompletionPolls() {
	s.CompletionPolls.Inc()
}

func (s *Service) IncPollFailures() {
	s.PollFailures.Inc()
}

func (s *Service) IncSessionsCompleted() {
	s.SessionsCompleted.Inc()
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) ObservePollDuration(seconds float64) {
	s.PollDuration.Observe(seconds)
}

func (s *Service) SetStartupTime(seconds float64) {
	s.StartupTimeSeconds.Set(seconds)
}
