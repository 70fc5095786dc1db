// Package metrics instruments identifier issuance and validation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the chassis subsystem.
type Metrics struct {
	IdentifiersIssued  *prometheus.CounterVec
	GenerationFailures *prometheus.CounterVec
	Validations        *prometheus.CounterVec
	SequenceResets     prometheus.Counter
}

// New creates and registers all collectors on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the collectors on reg. Tests pass a private registry
// so suites don't collide on the global one.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		IdentifiersIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chassis_identifiers_issued_total",
			Help: "Identifiers issued, by kind (vin, manufacturer, random).",
		}, []string{"kind"}),
		GenerationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chassis_generation_failures_total",
			Help: "Generation requests rejected, by error code.",
		}, []string{"code"}),
		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chassis_validations_total",
			Help: "Validation verdicts, by outcome (valid, invalid).",
		}, []string{"outcome"}),
		SequenceResets: factory.NewCounter(prometheus.CounterOpts{
			Name: "chassis_sequence_resets_total",
			Help: "Administrative sequence counter resets.",
		}),
	}
}
