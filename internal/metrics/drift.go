package metrics

import (
	"math"

	"github.com/san-kum/odosim/internal/sim"
)

// Drift tracks the planar distance between odometry and truth.
// With mean set it averages over all steps, otherwise it keeps the last one.
type Drift struct {
	name    string
	mean    bool
	last    float64
	sum     float64
	samples int
}

func NewFinalDrift() *Drift {
	return &Drift{name: "final_drift"}
}

func NewMeanDrift() *Drift {
	return &Drift{name: "mean_drift", mean: true}
}

func (d *Drift) Name() string { return d.name }

func (d *Drift) Observe(r sim.Record) {
	d.last = r.Odometry.Distance(r.True)
	d.sum += d.last
	d.samples++
}

func (d *Drift) Value() float64 {
	if !d.mean {
		return d.last
	}
	if d.samples == 0 {
		return 0
	}
	return d.sum / float64(d.samples)
}

func (d *Drift) Reset() {
	d.last = 0
	d.sum = 0
	d.samples = 0
}

// HeadingError is the absolute yaw difference at the last step. Yaw is not
// wrapped, so this grows with accumulated turn-rate noise.
type HeadingError struct {
	last float64
}

func NewHeadingError() *HeadingError { return &HeadingError{} }

func (h *HeadingError) Name() string { return "final_heading_error" }

func (h *HeadingError) Observe(r sim.Record) {
	h.last = math.Abs(r.Odometry.Yaw - r.True.Yaw)
}

func (h *HeadingError) Value() float64 { return h.last }

func (h *HeadingError) Reset() { h.last = 0 }
