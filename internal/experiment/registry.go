package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/odosim/internal/config"
	"github.com/san-kum/odosim/internal/metrics"
	"github.com/san-kum/odosim/internal/sim"
)

type Registry struct {
	observations map[string]func(config.ObservationConfig) sim.ObservationModel
}

func NewRegistry() *Registry {
	r := &Registry{
		observations: make(map[string]func(config.ObservationConfig) sim.ObservationModel),
	}

	r.observations[sim.VariantExact] = func(p config.ObservationConfig) sim.ObservationModel {
		return sim.NewExactObservation(p.Period, p.Tolerance)
	}
	r.observations[sim.VariantNoisy] = func(p config.ObservationConfig) sim.ObservationModel {
		return sim.NewNoisyObservation(p.Period, p.Tolerance, p.Sigma)
	}

	return r
}

func (r *Registry) GetObservation(name string, params config.ObservationConfig) (sim.ObservationModel, error) {
	fn, ok := r.observations[name]
	if !ok {
		return nil, fmt.Errorf("unknown observation model: %s", name)
	}
	return fn(params), nil
}

func (r *Registry) ListObservations() []string {
	names := make([]string, 0, len(r.observations))
	for name := range r.observations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewFinalDrift(),
		metrics.NewMeanDrift(),
		metrics.NewHeadingError(),
		metrics.NewObservationCount(),
		metrics.NewControlEffort(),
	}
}

// Simulator builds a simulator for cfg with the default metrics attached.
func (r *Registry) Simulator(cfg *config.Config) (*sim.Simulator, error) {
	build, err := r.Builder(cfg)
	if err != nil {
		return nil, err
	}
	return build(), nil
}

// Builder resolves the observation model once and returns a function that
// makes a fresh simulator, with its own metrics, on every call.
func (r *Registry) Builder(cfg *config.Config) (func() *sim.Simulator, error) {
	fn, ok := r.observations[cfg.Observation]
	if !ok {
		return nil, fmt.Errorf("unknown observation model: %s", cfg.Observation)
	}
	params := cfg.Obs
	return func() *sim.Simulator {
		s := sim.New(fn(params))
		for _, m := range r.DefaultMetrics() {
			s.AddMetric(m)
		}
		return s
	}, nil
}
