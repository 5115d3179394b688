package sim

import (
	"context"
	"math"
)

// clockSlack is the fraction of dt by which the accumulated clock may exceed
// SimTime and still count as a completed step.
const clockSlack = 1e-9

// maxPrealloc bounds the record slice reserved up front for long runs.
const maxPrealloc = 1 << 16

type Simulator struct {
	model   ObservationModel
	metrics []Metric
}

func New(model ObservationModel) *Simulator {
	return &Simulator{
		model:   model,
		metrics: make([]Metric, 0),
	}
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

func (s *Simulator) Model() ObservationModel { return s.model }

// Step advances one tick. The true pose only ever sees the nominal input and
// the odometry pose only ever sees the perturbed one.
func Step(st State, cfg Config, model ObservationModel, rng Sampler) (State, Record) {
	next := State{Time: st.Time + cfg.Dt}
	next.True = Advance(st.True, cfg.Input, cfg.Dt)

	applied := PerturbInput(cfg.Input, cfg.InputNoise, rng)
	next.Odometry = Advance(st.Odometry, applied, cfg.Dt)

	z := model.Observe(next.True, next.Time, rng)

	return next, Record{
		Time:        next.Time,
		True:        next.True,
		Odometry:    next.Odometry,
		Observation: z,
		Applied:     applied,
		InputNoise:  cfg.InputNoise,
	}
}

// Done reports whether another step would carry the clock past SimTime.
func Done(st State, cfg Config) bool {
	return st.Time+cfg.Dt > cfg.SimTime+cfg.Dt*clockSlack
}

// Run simulates with a Gaussian sampler seeded from cfg.Seed.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Log, error) {
	return s.RunWithSampler(ctx, cfg, NewGaussian(cfg.Seed))
}

func (s *Simulator) RunWithSampler(ctx context.Context, cfg Config, rng Sampler) (*Log, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := s.model.Validate(); err != nil {
		return nil, err
	}

	capacity := 0
	if cfg.SimTime > 0 {
		capacity = int(math.Min(math.Ceil(cfg.SimTime/cfg.Dt), maxPrealloc))
	}
	log := &Log{
		Variant: s.model.Name(),
		Dt:      cfg.Dt,
		Seed:    cfg.Seed,
		Records: make([]Record, 0, capacity),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	st := State{True: cfg.Initial, Odometry: cfg.Initial}
	for !Done(st, cfg) {
		select {
		case <-ctx.Done():
			return log, ctx.Err()
		default:
		}

		var rec Record
		st, rec = Step(st, cfg, s.model, rng)
		log.Records = append(log.Records, rec)

		for _, m := range s.metrics {
			m.Observe(rec)
		}
	}

	for _, m := range s.metrics {
		log.Metrics[m.Name()] = m.Value()
	}

	return log, nil
}
