package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type countingSampler struct {
	draws int
	value float64
}

func (c *countingSampler) Draw() float64 {
	c.draws++
	return c.value
}

func noiselessConfig(dt, simTime float64, u Input) Config {
	return Config{Dt: dt, SimTime: simTime, Input: u, Seed: 7}
}

func TestSimulatorStraightLine(t *testing.T) {
	s := New(NewExactObservation(4.0, DefaultDueTolerance))

	log, err := s.Run(context.Background(), noiselessConfig(0.1, 1.0, Input{V: 1.0}))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if log.Len() != 10 {
		t.Fatalf("expected 10 records, got %d", log.Len())
	}

	final, _ := log.Final()
	want := Pose{X: 1.0}
	for name, p := range map[string]Pose{"true": final.True, "odometry": final.Odometry} {
		if math.Abs(p.X-want.X) > 1e-9 || math.Abs(p.Y) > 1e-9 || math.Abs(p.Yaw) > 1e-9 {
			t.Errorf("%s pose = %+v, want %+v", name, p, want)
		}
	}
}

func TestSimulatorRotateInPlace(t *testing.T) {
	s := New(NewExactObservation(4.0, DefaultDueTolerance))

	log, err := s.Run(context.Background(), noiselessConfig(0.1, 1.0, Input{Omega: math.Pi / 2}))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	final, ok := log.Final()
	if !ok {
		t.Fatal("empty log")
	}
	if math.Abs(final.True.Yaw-math.Pi/2) > 1e-9 {
		t.Errorf("expected yaw pi/2, got %.12f", final.True.Yaw)
	}
	if final.True.X != 0 || final.True.Y != 0 {
		t.Errorf("expected no translation, got (%f, %f)", final.True.X, final.True.Y)
	}
	if final.Odometry != final.True {
		t.Errorf("noiseless odometry diverged: %+v vs %+v", final.Odometry, final.True)
	}
}

func TestSimulatorLogLength(t *testing.T) {
	tests := []struct {
		name    string
		dt      float64
		simTime float64
		want    int
	}{
		{"unit", 0.1, 1.0, 10},
		{"default", 0.1, 50.0, 500},
		{"round-off overshoot", 0.1, 0.3, 3},
		{"partial step", 0.25, 1.1, 4},
		{"zero time", 0.1, 0, 0},
		{"negative time", 0.1, -1, 0},
		{"dt larger than sim time", 2.0, 1.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(NewExactObservation(4.0, DefaultDueTolerance))
			log, err := s.Run(context.Background(), noiselessConfig(tt.dt, tt.simTime, Input{V: 1}))
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if log.Len() != tt.want {
				t.Errorf("expected %d records, got %d", tt.want, log.Len())
			}
			for i := 1; i < log.Len(); i++ {
				if log.Records[i].Time <= log.Records[i-1].Time {
					t.Fatalf("record %d out of order", i)
				}
			}
		})
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		model ObservationModel
	}{
		{"zero dt", Config{Dt: 0, SimTime: 1}, NewExactObservation(4, 0.1)},
		{"negative dt", Config{Dt: -0.1, SimTime: 1}, NewExactObservation(4, 0.1)},
		{"NaN dt", Config{Dt: math.NaN(), SimTime: 1}, NewExactObservation(4, 0.1)},
		{"infinite dt", Config{Dt: math.Inf(1), SimTime: 1}, NewExactObservation(4, 0.1)},
		{"infinite sim time", Config{Dt: 0.1, SimTime: math.Inf(1)}, NewExactObservation(4, 0.1)},
		{"negative infinite sim time", Config{Dt: 0.1, SimTime: math.Inf(-1)}, NewExactObservation(4, 0.1)},
		{"NaN sim time", Config{Dt: 0.1, SimTime: math.NaN()}, NewExactObservation(4, 0.1)},
		{"zero zdt", Config{Dt: 0.1, SimTime: 1}, NewExactObservation(0, 0.1)},
		{"infinite zdt", Config{Dt: 0.1, SimTime: 1}, NewExactObservation(math.Inf(1), 0.1)},
		{"NaN zdt", Config{Dt: 0.1, SimTime: 1}, NewNoisyObservation(math.NaN(), 0.1, 0.1)},
		{"NaN tolerance", Config{Dt: 0.1, SimTime: 1}, NewExactObservation(4, math.NaN())},
		{"negative zdt", Config{Dt: 0.1, SimTime: 1}, NewNoisyObservation(-4, 0.1, 0.1)},
		{"negative tolerance", Config{Dt: 0.1, SimTime: 1}, NewExactObservation(4, -0.1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.model).Run(context.Background(), tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
		})
	}
}

func TestSimulatorHugeHorizonStartsCleanly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	log, err := New(NewExactObservation(4, 0.1)).Run(ctx, Config{Dt: 1e-300, SimTime: 1e300})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if cap(log.Records) > maxPrealloc {
		t.Errorf("reserved %d records up front", cap(log.Records))
	}
}

func TestSimulatorDrawCount(t *testing.T) {
	cfg := Config{Dt: 0.1, SimTime: 20, Input: Input{V: 1, Omega: 0.1}, InputNoise: InputNoise{V: 0.5, Omega: 0.1}}

	t.Run("exact", func(t *testing.T) {
		rng := &countingSampler{}
		log, err := New(NewExactObservation(4, 0.1)).RunWithSampler(context.Background(), cfg, rng)
		if err != nil {
			t.Fatal(err)
		}
		if rng.draws != 2*log.Len() {
			t.Errorf("expected %d draws, got %d", 2*log.Len(), rng.draws)
		}
	})

	t.Run("noisy", func(t *testing.T) {
		rng := &countingSampler{}
		log, err := New(NewNoisyObservation(4, 0.1, 0.1)).RunWithSampler(context.Background(), cfg, rng)
		if err != nil {
			t.Fatal(err)
		}
		due := len(log.Observations())
		if due == 0 {
			t.Fatal("expected at least one due observation")
		}
		if rng.draws != 2*log.Len()+2*due {
			t.Errorf("expected %d draws, got %d", 2*log.Len()+2*due, rng.draws)
		}
	})
}

func TestSimulatorTruthIgnoresNoise(t *testing.T) {
	cfg := Config{Dt: 0.1, SimTime: 10, Input: Input{V: 1, Omega: 0.2}}
	clean, err := New(NewExactObservation(4, 0.1)).Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	cfg.InputNoise = InputNoise{V: 2, Omega: 1}
	noisy, err := New(NewExactObservation(4, 0.1)).Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	for i := range clean.Records {
		if clean.Records[i].True != noisy.Records[i].True {
			t.Fatalf("step %d: true pose depends on input noise", i)
		}
	}
	final, _ := noisy.Final()
	if final.Odometry == final.True {
		t.Error("expected odometry to drift under noise")
	}
}

func TestSimulatorDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 1234

	a, err := New(NewNoisyObservation(4, 0.1, 0.1)).Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(NewNoisyObservation(4, 0.1, 0.1)).Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("runs with the same seed differ (-a +b):\n%s", diff)
	}

	cfg.Seed = 4321
	c, err := New(NewNoisyObservation(4, 0.1, 0.1)).Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if cmp.Equal(a.Records, c.Records) {
		t.Error("different seeds produced identical logs")
	}
}

func TestSimulatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	log, err := New(NewExactObservation(4, 0.1)).Run(ctx, DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if log == nil || log.Len() != 0 {
		t.Errorf("expected empty partial log, got %v", log)
	}
}

type testMetric struct {
	count int
}

func (m *testMetric) Name() string     { return "test" }
func (m *testMetric) Observe(_ Record) { m.count++ }
func (m *testMetric) Value() float64   { return float64(m.count) }
func (m *testMetric) Reset()           { m.count = 0 }

func TestSimulatorMetrics(t *testing.T) {
	s := New(NewExactObservation(4, 0.1))
	metric := &testMetric{}
	s.AddMetric(metric)

	log, err := s.Run(context.Background(), noiselessConfig(0.1, 1.0, Input{V: 1}))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got := log.Metrics["test"]; got != 10 {
		t.Errorf("expected 10 observations, got %v", got)
	}

	if _, err := s.Run(context.Background(), noiselessConfig(0.1, 1.0, Input{V: 1})); err != nil {
		t.Fatal(err)
	}
	if metric.count != 10 {
		t.Errorf("metric not reset between runs: %d", metric.count)
	}
}

func TestEnsemble(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SimTime = 5
	build := func() *Simulator { return New(NewNoisyObservation(1, 0.1, 0.1)) }

	logs, err := NewEnsemble(build, 4, 100).Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 4 {
		t.Fatalf("expected 4 logs, got %d", len(logs))
	}

	for i, l := range logs {
		if l.Seed != 100+int64(i) {
			t.Errorf("log %d: expected seed %d, got %d", i, 100+i, l.Seed)
		}
		single := cfg
		single.Seed = l.Seed
		want, err := build().Run(context.Background(), single)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, l); diff != "" {
			t.Errorf("ensemble run %d differs from sequential run:\n%s", i, diff)
		}
	}
}
