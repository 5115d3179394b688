package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/odosim/internal/sim"
)

var _ sim.Metric = (*Drift)(nil)
var _ sim.Metric = (*HeadingError)(nil)
var _ sim.Metric = (*ObservationCount)(nil)
var _ sim.Metric = (*ControlEffort)(nil)

func records() []sim.Record {
	return []sim.Record{
		{True: sim.Pose{X: 1}, Odometry: sim.Pose{X: 1, Y: 1}, Applied: sim.Input{V: 1, Omega: -0.5}},
		{True: sim.Pose{X: 2, Yaw: 0.1}, Odometry: sim.Pose{X: 5, Y: 4, Yaw: -0.2}, Observation: sim.Observation{X: 2, Due: true}, Applied: sim.Input{V: 3}},
	}
}

func TestDrift(t *testing.T) {
	final, mean := NewFinalDrift(), NewMeanDrift()
	for _, r := range records() {
		final.Observe(r)
		mean.Observe(r)
	}

	if final.Value() != 5 {
		t.Errorf("expected final drift 5, got %f", final.Value())
	}
	if mean.Value() != 3 {
		t.Errorf("expected mean drift 3, got %f", mean.Value())
	}

	mean.Reset()
	if mean.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestHeadingError(t *testing.T) {
	h := NewHeadingError()
	for _, r := range records() {
		h.Observe(r)
	}
	if math.Abs(h.Value()-0.3) > 1e-12 {
		t.Errorf("expected heading error 0.3, got %f", h.Value())
	}
}

func TestObservationCount(t *testing.T) {
	o := NewObservationCount()
	for _, r := range records() {
		o.Observe(r)
	}
	if o.Value() != 1 {
		t.Errorf("expected 1 observation, got %f", o.Value())
	}
	o.Reset()
	if o.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestControlEffort(t *testing.T) {
	c := NewControlEffort()
	if c.Value() != 0 {
		t.Error("expected zero effort with no samples")
	}
	for _, r := range records() {
		c.Observe(r)
	}
	if c.Value() != 2.25 {
		t.Errorf("expected effort 2.25, got %f", c.Value())
	}
}
