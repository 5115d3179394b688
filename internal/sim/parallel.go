package sim

import (
	"context"
	"sync"
)

// Ensemble runs independent seeded simulations concurrently. Each run gets
// its own Simulator from build, so metrics are never shared.
type Ensemble struct {
	build     func() *Simulator
	numRuns   int
	seedStart int64
}

func NewEnsemble(build func() *Simulator, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// Run returns one log per run, indexed by seed offset.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Log, error) {
	logs := make([]*Log, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			logs[idx], errs[idx] = e.build().Run(ctx, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return logs, nil
}
