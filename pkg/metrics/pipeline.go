package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Pipeline holds the domain counters shared by the fulfillment orchestrator
// and the gift services. The orchestrator swallows per-step failures, so
// these counters are the main operational signal for partial fulfillment.
type Pipeline struct {
	FulfillmentEvents *prometheus.CounterVec
	StepFailures      *prometheus.CounterVec
	Redemptions       *prometheus.CounterVec
}

// registerCounterVec reuses an already-registered collector; tests build
// several fx apps against the default registry.
func registerCounterVec(cv *prometheus.CounterVec) *prometheus.CounterVec {
	if err := prometheus.Register(cv); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
	}
	return cv
}

func NewPipeline() *Pipeline {
	return &Pipeline{
		FulfillmentEvents: registerCounterVec(prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fulfillment_events_total",
				Help: "Payment confirmation events processed, by outcome.",
			},
			[]string{"outcome"},
		)),
		StepFailures: registerCounterVec(prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fulfillment_step_failures_total",
				Help: "Non-fatal pipeline step failures, by step.",
			},
			[]string{"step"},
		)),
		Redemptions: registerCounterVec(prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gift_redemptions_total",
				Help: "Gift code redemption attempts, by result.",
			},
			[]string{"result"},
		)),
	}
}

var Module = fx.Options(
	fx.Provide(NewPipeline),
)
