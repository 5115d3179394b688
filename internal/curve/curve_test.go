package curve

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/odosim/internal/sim"
)

type zeroSampler struct{ draws int }

func (z *zeroSampler) Draw() float64 {
	z.draws++
	return 0
}

func TestGrid(t *testing.T) {
	xs := Grid(0, 10, 0.1)
	require.Len(t, xs, 100)
	assert.Equal(t, 0.0, xs[0])
	assert.InDelta(t, 9.9, xs[99], 1e-12)

	assert.Len(t, Grid(0, 1, 0.25), 4)
	assert.Nil(t, Grid(0, 1, 0))
	assert.Nil(t, Grid(1, 1, 0.1))
}

func TestGenerateNoiseless(t *testing.T) {
	c := Coeffs{A: 0.3, B: 0.1}
	rng := &zeroSampler{}
	pts := Generate(Grid(0, 1, 0.5), c, 0.2, rng)

	want := []Point{{X: 0, Y: math.Exp(0.1)}, {X: 0.5, Y: c.Eval(0.5)}}
	if diff := cmp.Diff(want, pts); diff != "" {
		t.Errorf("unexpected points (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, rng.draws)
	assert.Zero(t, RMSE(pts, c))
}

func TestGenerateDeterministic(t *testing.T) {
	c := Coeffs{A: 0.3, B: 0.1}
	xs := Grid(0, 10, 0.1)
	a := Generate(xs, c, 0.2, sim.NewGaussian(11))
	b := Generate(xs, c, 0.2, sim.NewGaussian(11))
	assert.Equal(t, a, b)

	rmse := RMSE(a, c)
	assert.InDelta(t, 0.2, rmse, 0.06, "residual spread should match sigma")
}

func TestCompare(t *testing.T) {
	truth := Coeffs{A: 0.3, B: 0.1}
	fitted := Coeffs{A: 0.280248, B: 0.2698163}
	xs := Grid(0, 10, 0.1)
	data := Generate(xs, truth, 0.2, sim.NewGaussian(1))

	c := Compare(data, xs, truth, fitted)
	require.Len(t, c.True, len(xs))
	require.Len(t, c.Fitted, len(xs))
	assert.Greater(t, c.MaxGap, 0.0)
	assert.Less(t, c.TrueRMSE, c.FittedRMSE+1.0)

	same := Compare(data, xs, truth, truth)
	assert.Zero(t, same.MaxGap)
	assert.Equal(t, same.TrueRMSE, same.FittedRMSE)

	empty := Compare(nil, nil, truth, fitted)
	assert.Zero(t, empty.MaxGap)
	assert.Zero(t, empty.TrueRMSE)
}
