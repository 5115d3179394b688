// Package curve generates noisy samples of y = exp(a*x + b) and compares
// fitted coefficients against the true ones.
package curve

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/odosim/internal/sim"
)

// Coeffs parameterises y = exp(A*x + B).
type Coeffs struct {
	A, B float64
}

func (c Coeffs) Eval(x float64) float64 {
	return math.Exp(c.A*x + c.B)
}

// EvalAll evaluates the curve at every x.
func (c Coeffs) EvalAll(xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = c.Eval(x)
	}
	return ys
}

type Point struct {
	X, Y float64
}

// Grid returns start, start+step, ... up to but excluding stop. The i-th
// sample is computed as start+i*step rather than accumulated.
func Grid(start, stop, step float64) []float64 {
	if !(step > 0) || stop <= start {
		return nil
	}
	n := int(math.Ceil((stop - start) / step))
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = start + float64(i)*step
	}
	return xs
}

// Generate samples the curve at xs and adds N(0, sigma) to every y, one
// draw per point in order.
func Generate(xs []float64, c Coeffs, sigma float64, rng sim.Sampler) []Point {
	pts := make([]Point, len(xs))
	for i, x := range xs {
		pts[i] = Point{X: x, Y: c.Eval(x) + rng.Draw()*sigma}
	}
	return pts
}

// Split returns the x and y columns of pts.
func Split(pts []Point) (xs, ys []float64) {
	xs = make([]float64, len(pts))
	ys = make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}

// RMSE is the root mean squared residual of pts against c. It is zero for
// an empty slice.
func RMSE(pts []Point, c Coeffs) float64 {
	if len(pts) == 0 {
		return 0
	}
	xs, ys := Split(pts)
	return floats.Distance(ys, c.EvalAll(xs), 2) / math.Sqrt(float64(len(pts)))
}

// Comparison holds the true and fitted curves on a shared grid together
// with how well each explains the data.
type Comparison struct {
	X          []float64
	True       []float64
	Fitted     []float64
	TrueRMSE   float64
	FittedRMSE float64
	// MaxGap is the largest absolute difference between the two curves.
	MaxGap float64
}

func Compare(data []Point, xs []float64, truth, fitted Coeffs) Comparison {
	cmp := Comparison{
		X:          xs,
		True:       truth.EvalAll(xs),
		Fitted:     fitted.EvalAll(xs),
		TrueRMSE:   RMSE(data, truth),
		FittedRMSE: RMSE(data, fitted),
	}
	if len(xs) > 0 {
		gap := make([]float64, len(xs))
		floats.SubTo(gap, cmp.True, cmp.Fitted)
		cmp.MaxGap = math.Max(math.Abs(floats.Max(gap)), math.Abs(floats.Min(gap)))
	}
	return cmp
}
