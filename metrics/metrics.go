package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bitbucket"

var (
	ClientRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Requests sent to the Bitbucket API, by status code and method.",
		},
		[]string{"code", "method"},
	)
	ClientRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Latency of Bitbucket API requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	WatchPullRequests = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "pull_requests",
			Help:      "Pull requests seen by the last poll of a repository.",
		},
		[]string{"workspace", "repo_slug"},
	)
	WatchPollSuccess = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "poll_success",
			Help:      "Whether the last poll of a repository succeeded.",
		},
		[]string{"workspace", "repo_slug"},
	)
)

// Register adds every collector of this package to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		ClientRequests,
		ClientRequestDuration,
		WatchPullRequests,
		WatchPollSuccess,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// InstrumentTransport counts and times every round trip of next. It fits
// model.Options.WrapTransport.
func InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	return promhttp.InstrumentRoundTripperCounter(ClientRequests,
		promhttp.InstrumentRoundTripperDuration(ClientRequestDuration, next))
}
