package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/odosim/internal/config"
	"github.com/san-kum/odosim/internal/monitoring"
	"github.com/san-kum/odosim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	simulator *sim.Simulator
}

func New(cfg *config.Config, registry *Registry) *Experiment {
	return &Experiment{cfg: cfg, registry: registry}
}

func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	s, err := e.registry.Simulator(e.cfg)
	if err != nil {
		return err
	}
	e.simulator = s
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Log, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	monitoring.Logf("simulating %s observations: dt=%g sim_time=%g seed=%d", e.cfg.Observation, e.cfg.Dt, e.cfg.SimTime, e.cfg.Seed)
	return e.simulator.Run(ctx, e.cfg.Sim())
}

// RunEnsemble runs n seeds starting at the configured seed, each on a fresh simulator.
func (e *Experiment) RunEnsemble(ctx context.Context, n int) ([]*sim.Log, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("ensemble size must be positive, got %d", n)
	}
	build, err := e.registry.Builder(e.cfg)
	if err != nil {
		return nil, err
	}
	monitoring.Logf("running ensemble of %d from seed %d", n, e.cfg.Seed)
	return sim.NewEnsemble(build, n, e.cfg.Seed).Run(ctx, e.cfg.Sim())
}
