package optimizer

import (
	"testing"

	"github.com/FadeVT/pwny-core/internal/core/services/rng"
)

func TestSuggestDuringWarmupIsWithinBounds(t *testing.T) {
	space := DefaultTimingParams()
	o := New(space, 0.3, 0.05, rng.NewSeeded(1))

	for i := 0; i < 5; i++ {
		params := o.Suggest()
		for j, name := range space.Names {
			b := space.Bounds[j]
			v := params[name]
			if v < b.Lo || v > b.Hi {
				t.Fatalf("param %s=%v out of bounds [%v,%v]", name, v, b.Lo, b.Hi)
			}
		}
	}
}

func TestObserveTracksBestReward(t *testing.T) {
	space := DefaultTimingParams()
	o := New(space, 0.3, 0.05, rng.NewSeeded(2))

	p1 := o.Suggest()
	o.Observe(p1, 0.2)
	_, best := o.GetBest()
	if best != 0.2 {
		t.Fatalf("expected best 0.2, got %v", best)
	}

	p2 := o.Suggest()
	o.Observe(p2, 0.1)
	_, best = o.GetBest()
	if best != 0.2 {
		t.Fatalf("best reward must not regress, got %v", best)
	}

	p3 := o.Suggest()
	o.Observe(p3, 0.9)
	bestParams, best := o.GetBest()
	if best != 0.9 {
		t.Fatalf("expected best 0.9, got %v", best)
	}
	for _, name := range space.Names {
		if bestParams[name] != p3[name] {
			t.Fatalf("best params must match the observation that produced the best reward")
		}
	}
}

// TestHistoryCapEvictsOldestButPreservesBest feeds MAX_OBSERVATIONS+50
// observations where the single best reward lands early in the
// sequence (and would otherwise be evicted), then asserts the
// history is capped at MaxObservations and the best-seen observation
// survives within the retained window.
func TestHistoryCapEvictsOldestButPreservesBest(t *testing.T) {
	space := DefaultTimingParams()
	o := New(space, 0.3, 0.05, rng.NewSeeded(3))

	bestParams := map[string]float64{
		"recon_time":     42,
		"hop_recon_time": 10,
		"min_recon_time": 5,
		"ap_ttl":         120,
		"sta_ttl":        120,
	}
	o.Observe(bestParams, 99.0)

	total := MaxObservations + 50
	for i := 1; i < total; i++ {
		params := map[string]float64{
			"recon_time":     float64(10 + i%50),
			"hop_recon_time": float64(5 + i%20),
			"min_recon_time": float64(2 + i%10),
			"ap_ttl":         float64(60 + i%200),
			"sta_ttl":        float64(60 + i%200),
		}
		o.Observe(params, float64(i%10)/10.0)
	}

	if o.NumObservations() != MaxObservations {
		t.Fatalf("expected history capped at %d, got %d", MaxObservations, o.NumObservations())
	}

	_, best := o.GetBest()
	if best != 99.0 {
		t.Fatalf("best-ever reward must survive eviction, got %v", best)
	}

	found := false
	for _, y := range o.yHistory {
		if y == 99.0 {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("best-seen observation must be preserved in retained y_history")
	}
	if len(o.xHistory) != len(o.yHistory) || len(o.yHistory) != len(o.paramHistory) {
		t.Fatalf("history arrays must stay equal length")
	}
}

func TestHistoryArraysNeverExceedCap(t *testing.T) {
	space := DefaultTimingParams()
	o := New(space, 0.3, 0.05, rng.NewSeeded(4))

	for i := 0; i < MaxObservations+100; i++ {
		params := space.denormalize([]float64{0.1, 0.2, 0.3, 0.4, 0.5})
		o.Observe(params, float64(i))
		if len(o.xHistory) > MaxObservations {
			t.Fatalf("x_history exceeded cap at iteration %d: len=%d", i, len(o.xHistory))
		}
		if len(o.yHistory) != len(o.xHistory) || len(o.paramHistory) != len(o.xHistory) {
			t.Fatalf("history arrays diverged in length at iteration %d", i)
		}
	}
}

func TestBestRewardAlwaysAtLeastMaxOfHistory(t *testing.T) {
	space := DefaultTimingParams()
	o := New(space, 0.3, 0.05, rng.NewSeeded(5))

	for i := 0; i < 30; i++ {
		params := o.Suggest()
		reward := float64(i%7) / 7.0
		o.Observe(params, reward)

		maxY := o.yHistory[0]
		for _, y := range o.yHistory {
			if y > maxY {
				maxY = y
			}
		}
		_, best := o.GetBest()
		if best < maxY {
			t.Fatalf("best_reward (%v) must be >= max(y_history) (%v)", best, maxY)
		}
	}
}

// TestConvergesTowardKnownOptimum exercises the GP/EI loop against a
// single-parameter objective with a known maximum, asserting the
// optimizer lands within 40% of the bound range of the true optimum
// after n_initial+40 iterations.
func TestConvergesTowardKnownOptimum(t *testing.T) {
	space := ParameterSpace{
		Names:  []string{"x"},
		Bounds: []Bound{{Lo: 0.0, Hi: 100.0}},
	}
	const trueOptimum = 70.0

	o := New(space, 0.2, 0.05, rng.NewSeeded(6), WithNInitial(10), WithNCandidates(200))

	objective := func(x float64) float64 {
		d := (x - trueOptimum) / 100.0
		return 1.0 - d*d
	}

	for i := 0; i < 50; i++ {
		params := o.Suggest()
		o.Observe(params, objective(params["x"]))
	}

	bestParams, _ := o.GetBest()
	diff := bestParams["x"] - trueOptimum
	if diff < 0 {
		diff = -diff
	}
	if diff > 0.4*(space.Bounds[0].Hi-space.Bounds[0].Lo) {
		t.Fatalf("expected convergence within 40%% of bound range, best x=%v true=%v", bestParams["x"], trueOptimum)
	}
}

func TestParamNamesMatchesSpace(t *testing.T) {
	space := DefaultTimingParams()
	o := New(space, 0.3, 0.05, rng.NewSeeded(7))
	names := o.ParamNames()
	if len(names) != len(space.Names) {
		t.Fatalf("expected %d names, got %d", len(space.Names), len(names))
	}
	for i, n := range names {
		if n != space.Names[i] {
			t.Fatalf("expected name %s at index %d, got %s", space.Names[i], i, n)
		}
	}
}
