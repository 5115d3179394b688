package sim

import "math"

// Observation model names, also used as the log variant.
const (
	VariantExact = "exact"
	VariantNoisy = "noisy"
)

// Pose is a planar position plus heading in radians. Yaw is never wrapped.
type Pose struct {
	X, Y, Yaw float64
}

// Distance returns the planar distance between two poses.
func (p Pose) Distance(o Pose) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Input is a unicycle control: forward speed [m/s] and turn rate [rad/s].
type Input struct {
	V, Omega float64
}

// InputNoise holds the standard deviations applied to each Input component.
type InputNoise struct {
	V, Omega float64
}

// Observation is a position fix. The zero value is the placeholder emitted
// on steps where no observation is due.
type Observation struct {
	X, Y  float64
	Sigma float64
	Due   bool
}

// Record is one step of the sample log.
type Record struct {
	Time        float64
	True        Pose
	Odometry    Pose
	Observation Observation
	// Applied is the noise-perturbed input that moved the odometry pose.
	Applied    Input
	InputNoise InputNoise
}

// State is the mutable part of a run, threaded through Step.
type State struct {
	Time     float64
	True     Pose
	Odometry Pose
}

type Metric interface {
	Name() string
	Observe(r Record)
	Value() float64
	Reset()
}

type Config struct {
	Dt         float64
	SimTime    float64
	Initial    Pose
	Input      Input
	InputNoise InputNoise
	Seed       int64
}

func DefaultConfig() Config {
	return Config{
		Dt:         0.1,
		SimTime:    50.0,
		Input:      Input{V: 1.0, Omega: 0.1},
		InputNoise: InputNoise{V: 0.5, Omega: 0.1},
	}
}

// Validate checks the only hard preconditions of the model; every other
// field is accepted as given.
func (c Config) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 1) {
		return &ConfigError{Field: "dt", Value: c.Dt, Want: "finite and > 0"}
	}
	if math.IsNaN(c.SimTime) || math.IsInf(c.SimTime, 0) {
		return &ConfigError{Field: "sim_time", Value: c.SimTime, Want: "finite"}
	}
	return nil
}

// Log is the time-ordered output of a run, one record per step.
type Log struct {
	Variant string
	Dt      float64
	Seed    int64
	Records []Record
	Metrics map[string]float64
}

func (l *Log) Len() int { return len(l.Records) }

// Final returns the last record, or false for an empty log.
func (l *Log) Final() (Record, bool) {
	if len(l.Records) == 0 {
		return Record{}, false
	}
	return l.Records[len(l.Records)-1], true
}

// Observations returns the due observations in time order.
func (l *Log) Observations() []Observation {
	out := make([]Observation, 0)
	for _, r := range l.Records {
		if r.Observation.Due {
			out = append(out, r.Observation)
		}
	}
	return out
}
