package metrics

import (
	"errors"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeExisting = "existing"
	OutcomeCreated  = "created"
	OutcomeRace     = "race"

	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	ProfileProvisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hackhub_profile_provision_total",
		Help: "Profile provisioning calls by outcome",
	}, []string{"outcome"})

	ProfileEradications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hackhub_profile_eradication_total",
		Help: "Profile cascade deletes by result",
	}, []string{"result"})

	ProfileEradicationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hackhub_profile_eradication_duration_seconds",
		Help:    "Duration of the profile cascade delete transaction",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})

	WebhookDeliveries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hackhub_webhook_deliveries_total",
		Help: "Identity webhook deliveries by event type and status code",
	}, []string{"event", "status"})

	RateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hackhub_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"route"})
)

var (
	registerOnce sync.Once
	registerErr  error
)

// Register adds the collectors to registry (the default registerer when nil)
// and returns the handler serving /metrics.
func Register(registry prometheus.Registerer) (http.Handler, error) {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	registerOnce.Do(func() {
		for _, c := range []prometheus.Collector{
			ProfileProvisions,
			ProfileEradications,
			ProfileEradicationDuration,
			WebhookDeliveries,
			RateLimited,
		} {
			if err := register(registry, c); err != nil {
				registerErr = err
				return
			}
		}
	})

	if registerErr != nil {
		return nil, registerErr
	}

	return promhttp.Handler(), nil
}

func register(registry prometheus.Registerer, c prometheus.Collector) error {
	if err := registry.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return nil
		}
		return err
	}
	return nil
}
