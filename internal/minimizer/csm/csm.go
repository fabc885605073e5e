// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package csm minimizes a single-parameter noisy function on [0, 1]
// under an approximate-convexity assumption, spec.md §4.4. Grounded on
// original_source/epihiper_setup_utils/.../minimizer/convex_scalar_minimizer.py.
//
// The original drives scipy's bounded Brent minimizer over a
// memoizing objective that raises a control-flow exception on its
// first cache miss. spec.md §9 notes the scalar-optimizer library
// "will not cooperate" with a direct Go port and licenses
// reimplementing bounded bracketing instead; this package replaces
// Brent's parabolic-interpolation step with plain golden-section
// search, which is deterministic from the eval cache alone and needs
// no coroutine to suspend mid-search.
package csm

import (
	"errors"
	"math"
	"sort"
)

const epsilon = 1e-9

// ErrMinimizationComplete is returned by GetNextX once the minimizer
// has decided to stop; Status().State carries the reason.
var ErrMinimizationComplete = errors.New("minimization complete")

// Evaluation is one folded-in (x, y, raw_ys) observation, in arrival
// order.
type Evaluation struct {
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	RawYs []float64 `json:"raw_ys"`
}

// Config is immutable across the minimizer's lifetime.
type Config struct {
	MaxEvals          int     `json:"max_evals"`
	NIterNoChange     int     `json:"n_iter_no_change"`
	MinRelImprovement float64 `json:"min_rel_improvement"`
	MakeYPositive     bool    `json:"make_y_positive"`
}

// State is the minimizer's full persisted state, spec.md §4.4.
type State struct {
	Config
	Status    string       `json:"state"`
	EvalCache []Evaluation `json:"eval_cache"`
}

// Minimizer drives the convex-scalar optimization loop.
type Minimizer struct {
	state State
}

// New constructs a fresh minimizer in the running state.
func New(cfg Config) *Minimizer {
	return &Minimizer{state: State{Config: cfg, Status: "running"}}
}

// FromState resumes a minimizer from persisted state.
func FromState(s State) *Minimizer {
	return &Minimizer{state: s}
}

// State returns the minimizer's persisted state.
func (m *Minimizer) State() State { return m.state }

func round6(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}

// stopEarly implements spec.md §4.4 step 1: no relative improvement
// exceeding min_rel_improvement over the tail of the last
// n_iter_no_change+1 evaluations.
func (m *Minimizer) stopEarly() bool {
	n := m.state.NIterNoChange + 1
	cache := m.state.EvalCache
	if len(cache) > n {
		cache = cache[len(cache)-n:]
	}

	noImprovement := 0
	bestY := math.MaxFloat64
	for _, ev := range cache {
		denom := math.Max(math.Abs(bestY), epsilon)
		improvement := (bestY - ev.Y) / denom
		if improvement < m.state.MinRelImprovement {
			noImprovement++
		} else {
			noImprovement = 0
		}
		if ev.Y < bestY {
			bestY = ev.Y
			if bestY == 0.0 {
				bestY = epsilon
			}
		}
	}
	return noImprovement >= m.state.NIterNoChange
}

// lookup returns the cached y for x (rounded to 6 decimals), if any.
func (m *Minimizer) lookup(x float64) (float64, bool) {
	x = round6(x)
	for _, ev := range m.state.EvalCache {
		if ev.X == x {
			return ev.Y, true
		}
	}
	return 0, false
}

const (
	goldenRatio = 0.6180339887498949
	searchTol   = 1e-6
	maxSearchIt = 200
)

// goldenSection walks a golden-section search over [0,1], deterministic
// given only the eval cache. It returns the next x to probe, or
// (0, true, reason) once the bracket has converged without a single
// cache miss.
func (m *Minimizer) goldenSection() (x float64, done bool, reason string) {
	a, b := 0.0, 1.0
	x1 := b - goldenRatio*(b-a)
	x2 := a + goldenRatio*(b-a)

	f1, ok := m.lookup(x1)
	if !ok {
		return x1, false, ""
	}
	f2, ok := m.lookup(x2)
	if !ok {
		return x2, false, ""
	}

	for i := 0; i < maxSearchIt; i++ {
		if b-a < searchTol {
			return 0, true, "golden-section search converged"
		}
		if f1 < f2 {
			b = x2
			x2 = x1
			f2 = f1
			x1 = b - goldenRatio*(b-a)
			y, ok := m.lookup(x1)
			if !ok {
				return x1, false, ""
			}
			f1 = y
		} else {
			a = x1
			x1 = x2
			f1 = f2
			x2 = a + goldenRatio*(b-a)
			y, ok := m.lookup(x2)
			if !ok {
				return x2, false, ""
			}
			f2 = y
		}
	}
	return 0, true, "golden-section search exhausted its iteration budget"
}

// GetNextX implements spec.md §4.4's get_next_x: early-stop or
// max-evals checks first, then a bounded scalar search whose first
// cache miss becomes the next probe point.
func (m *Minimizer) GetNextX() (float64, error) {
	if m.stopEarly() {
		m.state.Status = "early stopping condition reached"
		return 0, ErrMinimizationComplete
	}
	if len(m.state.EvalCache) >= m.state.MaxEvals {
		m.state.Status = "max evaluations reached"
		return 0, ErrMinimizationComplete
	}

	x, done, reason := m.goldenSection()
	if done {
		m.state.Status = reason
		return 0, ErrMinimizationComplete
	}
	return x, nil
}

// SetYs folds a round's raw observations into the eval cache, spec.md
// §4.4's set_ys.
func (m *Minimizer) SetYs(x float64, rawYs []float64) {
	x = round6(x)

	var finite []float64
	for _, y := range rawYs {
		if !math.IsInf(y, 0) && !math.IsNaN(y) {
			finite = append(finite, y)
		}
	}

	var y float64
	if len(finite) > 0 {
		var sum float64
		for _, v := range finite {
			sum += v
		}
		y = sum / float64(len(finite))
	} else if len(m.state.EvalCache) > 0 {
		y = m.state.EvalCache[0].Y
		for _, ev := range m.state.EvalCache {
			if ev.Y > y {
				y = ev.Y
			}
		}
	} else {
		y = math.MaxFloat64
	}

	if m.state.MakeYPositive {
		y = math.Abs(y)
	}

	m.state.EvalCache = append(m.state.EvalCache, Evaluation{X: x, Y: y, RawYs: rawYs})
}

// Status is the snapshot returned by spec.md §4.4's status().
type Status struct {
	BestRound int
	BestX     float64
	BestY     float64
	NEvals    int
	State     string
	HasBest   bool
}

// Status reports the best round seen so far, if any.
func (m *Minimizer) Status() Status {
	st := Status{NEvals: len(m.state.EvalCache), State: m.state.Status}
	if len(m.state.EvalCache) == 0 {
		return st
	}
	idx := make([]int, len(m.state.EvalCache))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		return m.state.EvalCache[idx[i]].Y < m.state.EvalCache[idx[j]].Y
	})
	best := idx[0]
	st.HasBest = true
	st.BestRound = best
	st.BestX = m.state.EvalCache[best].X
	st.BestY = m.state.EvalCache[best].Y
	return st
}
