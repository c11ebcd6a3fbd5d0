// Package rng implements the core's single randomness seam: a thin
// wrapper over math/rand plus the Beta-distribution sampling the
// channel bandit needs for Thompson Sampling (the standard library has
// no Beta sampler, so it is built here from two Gamma draws via the
// Marsaglia-Tsang method).
package rng

import (
	"math"
	"math/rand"
	"time"

	"github.com/FadeVT/pwny-core/internal/core/ports"
)

// Source wraps *rand.Rand to satisfy ports.RNG.
type Source struct {
	r *rand.Rand
}

// New returns an RNG seeded from the current time, for production use.
func New() *Source {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic RNG for tests.
func NewSeeded(seed int64) *Source {
	return &Source{r: rand.New(rand.NewSource(seed))}
}

func (s *Source) Float64() float64     { return s.r.Float64() }
func (s *Source) NormFloat64() float64 { return s.r.NormFloat64() }
func (s *Source) Intn(n int) int       { return s.r.Intn(n) }

// Beta draws a sample from Beta(alpha, beta) using two independent
// Gamma(alpha,1) / Gamma(beta,1) draws: X/(X+Y) ~ Beta(alpha, beta).
func Beta(r ports.RNG, alpha, beta float64) float64 {
	x := gamma(r, alpha)
	y := gamma(r, beta)
	if x+y == 0 {
		return 0
	}
	return x / (x + y)
}

// gamma draws a sample from Gamma(shape, 1) using the Marsaglia-Tsang
// method, valid for shape >= 1. For shape < 1 it boosts the shape by
// one and corrects with a uniform draw (Gamma(a) = Gamma(a+1)*U^(1/a)).
func gamma(r ports.RNG, shape float64) float64 {
	if shape < 1 {
		u := r.Float64()
		return gamma(r, shape+1) * math.Pow(u, 1/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)

	for {
		var x, v float64
		for {
			x = r.NormFloat64()
			v = 1 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := r.Float64()
		if u < 1-0.0331*(x*x)*(x*x) {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}
