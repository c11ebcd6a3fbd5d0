// Package optimizer implements the Bayesian Optimizer: a pure
// Gaussian-Process (RBF kernel) optimizer with Expected-Improvement
// acquisition that tunes a handful of continuous scanner-timing
// parameters under a strict observation-history cap, so it stays
// affordable on a memory-constrained embedded device. Ported from
// bayesian_optimizer.py's BayesianOptimizer class.
package optimizer

import (
	"math"

	"github.com/FadeVT/pwny-core/internal/core/ports"
	"github.com/FadeVT/pwny-core/internal/core/services/gp"
	"github.com/FadeVT/pwny-core/internal/core/services/rng"
)

// MaxObservations is the hard cap on observation-history length. It
// bounds the GP's O(n^2) memory and O(n^3) fit cost so a single
// Suggest stays under roughly one second on modest hardware. This must
// not be raised without re-evaluating the device's CPU/RAM budget.
const MaxObservations = 80

// DefaultNInitial is the number of purely-random initial evaluations
// before the GP/EI loop takes over.
const DefaultNInitial = 10

// DefaultNCandidates is the number of uniform-random candidates
// evaluated per Suggest call when the GP is in use.
const DefaultNCandidates = 200

// explorationXi is the Expected Improvement exploration constant.
const explorationXi = 0.01

// Optimizer tunes a ParameterSpace via GP-based Expected Improvement,
// falling back to pure random search during the initial warm-up phase
// and whenever the acquisition surface is flat.
type Optimizer struct {
	space       ParameterSpace
	nInitial    int
	nCandidates int
	gp          *gp.Process
	rng         ports.RNG

	xHistory     [][]float64
	yHistory     []float64
	paramHistory []map[string]float64
	bestReward   float64
	bestParams   map[string]float64
}

// Option configures an Optimizer at construction time.
type Option func(*Optimizer)

// WithNInitial overrides the random warm-up phase length.
func WithNInitial(n int) Option {
	return func(o *Optimizer) { o.nInitial = n }
}

// WithNCandidates overrides the per-Suggest candidate pool size.
func WithNCandidates(n int) Option {
	return func(o *Optimizer) { o.nCandidates = n }
}

// New constructs an Optimizer over the given parameter space.
func New(space ParameterSpace, gpLengthScale, gpNoise float64, r ports.RNG, opts ...Option) *Optimizer {
	if r == nil {
		r = rng.New()
	}
	o := &Optimizer{
		space:       space,
		nInitial:    DefaultNInitial,
		nCandidates: DefaultNCandidates,
		gp:          gp.New(gpLengthScale, gpNoise),
		rng:         r,
		bestReward:  math.Inf(-1),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Optimizer) randomNormalized() []float64 {
	x := make([]float64, len(o.space.Names))
	for i := range x {
		x[i] = o.rng.Float64()
	}
	return x
}

// Suggest proposes the next parameter vector to evaluate. During the
// initial warm-up phase (fewer than NInitial observations) it returns a
// uniformly random vector; afterward it fits the GP and maximizes
// Expected Improvement over a random candidate pool, falling back to a
// fresh random candidate when every candidate's EI is negligible.
func (o *Optimizer) Suggest() map[string]float64 {
	if len(o.xHistory) < o.nInitial {
		return o.space.denormalize(o.randomNormalized())
	}

	o.gp.Fit(o.xHistory, o.yHistory)

	bestEI := -1.0
	var bestX []float64
	for i := 0; i < o.nCandidates; i++ {
		x := o.randomNormalized()
		ei := o.expectedImprovement(x)
		if ei > bestEI {
			bestEI = ei
			bestX = x
		}
	}

	if bestEI < 1e-8 {
		bestX = o.randomNormalized()
	}

	return o.space.denormalize(bestX)
}

func (o *Optimizer) expectedImprovement(x []float64) float64 {
	mean, variance := o.gp.Predict(x)
	sigma := math.Sqrt(variance)
	if sigma < 1e-10 {
		return 0
	}

	z := (mean - o.bestReward - explorationXi) / sigma
	phi := math.Exp(-0.5*z*z) / math.Sqrt(2*math.Pi)

	var capPhi float64
	switch {
	case z > 6:
		capPhi = 1.0
	case z < -6:
		capPhi = 0.0
	default:
		t := 1.0 / (1.0 + 0.2316419*math.Abs(z))
		poly := t * (0.319381530 + t*(-0.356563782+t*(1.781477937+t*(-1.821255978+t*1.330274429))))
		if z >= 0 {
			capPhi = 1.0 - phi*poly
		} else {
			capPhi = phi * poly
		}
	}

	return (mean-o.bestReward-explorationXi)*capPhi + sigma*phi
}

// Observe records a (params, reward) observation, updates the
// best-seen record, and enforces MaxObservations by trimming the
// oldest entries — first relocating the best-seen observation into the
// first retained slot if it would otherwise be evicted.
func (o *Optimizer) Observe(params map[string]float64, reward float64) {
	x := o.space.normalize(params)
	o.xHistory = append(o.xHistory, x)
	o.yHistory = append(o.yHistory, reward)
	o.paramHistory = append(o.paramHistory, cloneParams(params))

	if reward > o.bestReward {
		o.bestReward = reward
		o.bestParams = cloneParams(params)
	}

	if len(o.xHistory) > MaxObservations {
		bestIdx := 0
		for i, y := range o.yHistory {
			if y > o.yHistory[bestIdx] {
				bestIdx = i
			}
		}
		excess := len(o.xHistory) - MaxObservations
		if bestIdx < excess {
			o.xHistory[excess] = o.xHistory[bestIdx]
			o.yHistory[excess] = o.yHistory[bestIdx]
			o.paramHistory[excess] = o.paramHistory[bestIdx]
		}

		o.xHistory = o.xHistory[excess:]
		o.yHistory = o.yHistory[excess:]
		o.paramHistory = o.paramHistory[excess:]
	}
}

func cloneParams(params map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// GetBest returns the best-ever observed parameters and reward.
func (o *Optimizer) GetBest() (map[string]float64, float64) {
	return o.bestParams, o.bestReward
}

// NumObservations returns the current observation-history length.
func (o *Optimizer) NumObservations() int {
	return len(o.xHistory)
}

// ParamNames returns the parameter space's ordered names.
func (o *Optimizer) ParamNames() []string {
	return append([]string(nil), o.space.Names...)
}
