package metrics

import (
	"math"

	"github.com/san-kum/odosim/internal/sim"
)

// ControlEffort is the mean absolute perturbed input applied to odometry.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(r sim.Record) {
	c.sum += math.Abs(r.Applied.V) + math.Abs(r.Applied.Omega)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
