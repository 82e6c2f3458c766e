package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TimelineRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chirper_timeline_requests_total",
		Help: "Number of home timeline requests served.",
	})

	NotificationsFanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chirper_notifications_fanned_out_total",
		Help: "Number of notification records created by fan-out.",
	})

	FanoutFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chirper_notification_fanout_failures_total",
		Help: "Number of notification fan-out attempts that failed and were dropped.",
	})
)

// Handler exposes the default registry for the /metrics route.
func Handler() http.Handler {
	return promhttp.Handler()
}
