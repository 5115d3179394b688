package sim

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws standard normal samples. Draw order matters for
// reproducibility, so implementations must be deterministic for a seed.
type Sampler interface {
	Draw() float64
}

// Gaussian is a seeded standard normal Sampler.
type Gaussian struct {
	normal distuv.Normal
}

func NewGaussian(seed int64) *Gaussian {
	src := rand.NewPCG(uint64(seed), uint64(seed))
	return &Gaussian{normal: distuv.Normal{Mu: 0, Sigma: 1, Src: src}}
}

func (g *Gaussian) Draw() float64 {
	return g.normal.Rand()
}

// PerturbInput adds scaled standard normal noise to each input component.
// Speed is drawn before turn rate. Sigmas are used as given, sign included.
func PerturbInput(u Input, q InputNoise, rng Sampler) Input {
	nv := rng.Draw()
	nw := rng.Draw()
	return Input{
		V:     u.V + nv*q.V,
		Omega: u.Omega + nw*q.Omega,
	}
}
