package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/odosim/internal/config"
	"github.com/san-kum/odosim/internal/monitoring"
	"github.com/san-kum/odosim/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	monitoring.SetLogger(nil)
}

func TestRegistryObservations(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"exact", "noisy"}, r.ListObservations())

	params := config.ObservationConfig{Period: 2, Tolerance: 0.1, Sigma: 0.4}
	m, err := r.GetObservation("noisy", params)
	require.NoError(t, err)
	noisy, ok := m.(*sim.NoisyObservation)
	require.True(t, ok)
	assert.Equal(t, 0.4, noisy.Sigma)
	assert.Equal(t, 2.0, noisy.Period)

	_, err = r.GetObservation("particle", params)
	assert.Error(t, err)
}

func TestExperimentRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SimTime = 8
	cfg.Seed = 3

	exp := New(cfg, NewRegistry())
	_, err := exp.Run(context.Background())
	require.Error(t, err, "run before setup should fail")

	require.NoError(t, exp.Setup())
	log, err := exp.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 80, log.Len())
	assert.Equal(t, sim.VariantExact, log.Variant)
	for _, name := range []string{"final_drift", "mean_drift", "final_heading_error", "observations", "control_effort"} {
		assert.Contains(t, log.Metrics, name)
	}
	assert.Equal(t, float64(len(log.Observations())), log.Metrics["observations"])
}

func TestExperimentSetupRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Obs.Period = 0
	assert.ErrorIs(t, New(cfg, NewRegistry()).Setup(), sim.ErrInvalidConfig)
}

func TestExperimentEnsemble(t *testing.T) {
	cfg := config.GetPreset("noisy")
	cfg.SimTime = 4
	cfg.Seed = 10

	logs, err := New(cfg, NewRegistry()).RunEnsemble(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	for i, l := range logs {
		assert.Equal(t, int64(10+i), l.Seed)
		assert.Equal(t, sim.VariantNoisy, l.Variant)
		assert.Contains(t, l.Metrics, "final_drift")
	}

	_, err = New(cfg, NewRegistry()).RunEnsemble(context.Background(), 0)
	assert.Error(t, err)
}

func TestExperimentEnsembleUnregisteredModel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SimTime = 1
	empty := &Registry{observations: map[string]func(config.ObservationConfig) sim.ObservationModel{}}

	var logs []*sim.Log
	var err error
	require.NotPanics(t, func() {
		logs, err = New(cfg, empty).RunEnsemble(context.Background(), 2)
	})
	assert.ErrorContains(t, err, "unknown observation model")
	assert.Nil(t, logs)
}
