package metrics

import "github.com/san-kum/odosim/internal/sim"

type ObservationCount struct {
	due int
}

func NewObservationCount() *ObservationCount { return &ObservationCount{} }

func (o *ObservationCount) Name() string { return "observations" }

func (o *ObservationCount) Observe(r sim.Record) {
	if r.Observation.Due {
		o.due++
	}
}

func (o *ObservationCount) Value() float64 { return float64(o.due) }

func (o *ObservationCount) Reset() { o.due = 0 }
