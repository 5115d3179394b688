package sim

import "math"

// DefaultDueTolerance is the clock slack within which an observation counts as due.
const DefaultDueTolerance = 0.1

// ObservationModel turns the true pose into a position fix.
type ObservationModel interface {
	Name() string
	Observe(truth Pose, t float64, rng Sampler) Observation
	Validate() error
}

// Schedule decides which steps carry an observation.
type Schedule struct {
	Period    float64
	Tolerance float64
}

// Due reports whether |t mod Period| falls within Tolerance.
func (s Schedule) Due(t float64) bool {
	return math.Abs(math.Mod(t, s.Period)) <= s.Tolerance
}

func (s Schedule) Validate() error {
	if !(s.Period > 0) || math.IsInf(s.Period, 1) {
		return &ConfigError{Field: "zdt", Value: s.Period, Want: "finite and > 0"}
	}
	if !(s.Tolerance >= 0) || math.IsInf(s.Tolerance, 1) {
		return &ConfigError{Field: "tolerance", Value: s.Tolerance, Want: "finite and >= 0"}
	}
	return nil
}

// ExactObservation reports the true position without noise and never
// consumes random draws.
type ExactObservation struct {
	Schedule
}

func NewExactObservation(period, tolerance float64) *ExactObservation {
	return &ExactObservation{Schedule{Period: period, Tolerance: tolerance}}
}

func (o *ExactObservation) Name() string { return VariantExact }

func (o *ExactObservation) Observe(truth Pose, t float64, _ Sampler) Observation {
	if !o.Due(t) {
		return Observation{}
	}
	return Observation{X: truth.X, Y: truth.Y, Due: true}
}

// NoisyObservation reports the true position plus Gaussian noise of
// standard deviation Sigma on each axis, x drawn before y.
type NoisyObservation struct {
	Schedule
	Sigma float64
}

func NewNoisyObservation(period, tolerance, sigma float64) *NoisyObservation {
	return &NoisyObservation{
		Schedule: Schedule{Period: period, Tolerance: tolerance},
		Sigma:    sigma,
	}
}

func (o *NoisyObservation) Name() string { return VariantNoisy }

func (o *NoisyObservation) Observe(truth Pose, t float64, rng Sampler) Observation {
	if !o.Due(t) {
		return Observation{}
	}
	nx := rng.Draw()
	ny := rng.Draw()
	return Observation{
		X:     truth.X + nx*o.Sigma,
		Y:     truth.Y + ny*o.Sigma,
		Sigma: o.Sigma,
		Due:   true,
	}
}
