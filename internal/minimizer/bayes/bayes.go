// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package bayes minimizes a noisy black-box function on [0,1]^n,
// spec.md §4.5. Grounded on
// original_source/epihiper_setup_utils/.../minimizer/bayes_opt_minimizer.py.
//
// The original wraps the bayes_opt package's Bayesian optimizer and a
// scipy Sobol generator. spec.md §1 puts the numerics of that library
// out of scope and asks only that the surrounding adaptor uphold its
// contract, so this package replaces it with a small from-scratch
// Gaussian-process surrogate (RBF kernel, gonum/mat for the linear
// algebra) fit fresh from the eval cache on every suggestion, and a
// Halton low-discrepancy sequence standing in for scrambled Sobol
// init points — both are quasi-random-init/UCB-acquisition in spirit,
// not numerically identical to scipy/bayes_opt. Because the surrogate
// is refit from the eval cache rather than kept as long-lived mutable
// state, state_dict_json's replay-with-tolerated-duplicates step has
// no Go analogue: the eval cache already is the sole source of truth.
package bayes

import (
	"errors"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// ErrWait is returned by GetNextX when fewer than init_evals points
// have actually been observed; the caller must wait for more results.
var ErrWait = errors.New("bayes: waiting for initial evaluations")

// ErrMinimizationComplete is returned once every budgeted point has
// been probed.
var ErrMinimizationComplete = errors.New("minimization complete")

// Point is one location in the unit hypercube.
type Point []float64

func (p Point) clone() Point {
	c := make(Point, len(p))
	copy(c, p)
	return c
}

func l2Distance(a, b Point) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Evaluation is one folded-in (x, y) observation.
type Evaluation struct {
	X Point   `json:"x"`
	Y float64 `json:"y"`
}

// Config is immutable across the minimizer's lifetime.
type Config struct {
	NDims         int     `json:"n_dims"`
	InitEvals     int     `json:"init_evals"`
	ExploreEvals  int     `json:"explore_evals"`
	ExploitEvals  int     `json:"exploit_evals"`
	ParallelEvals int     `json:"parallel_evals"`
	KappaInitial  float64 `json:"kappa_initial"`
	KappaScale    float64 `json:"kappa_scale"`
}

// State is the minimizer's full persisted state, spec.md §4.5.
type State struct {
	Config
	Status       string       `json:"state"`
	EvalCache    []Evaluation `json:"eval_cache"`
	PointsProbed int          `json:"points_probed"`
	Kappa        float64      `json:"kappa"`
}

// Minimizer drives the Bayesian optimization loop.
type Minimizer struct {
	state State
	rng   *rand.Rand
}

// New constructs a fresh minimizer in the running state.
func New(cfg Config) *Minimizer {
	return &Minimizer{
		state: State{Config: cfg, Status: "running", Kappa: cfg.KappaInitial},
		rng:   rand.New(rand.NewSource(1)),
	}
}

// FromState resumes a minimizer from persisted state. Per spec.md
// §4.5, the eval cache is the source of truth; there is no separate
// optimizer memory to replay it into.
func FromState(s State) *Minimizer {
	return &Minimizer{state: s, rng: rand.New(rand.NewSource(1))}
}

// State returns the minimizer's persisted state.
func (m *Minimizer) State() State { return m.state }

// GetInitialXs emits init_evals Halton points followed by
// parallel_evals uniform-random points, advancing points_probed by
// the total, spec.md §4.5's get_initial_xs.
func (m *Minimizer) GetInitialXs() []Point {
	pts := haltonSequence(m.state.NDims, m.state.InitEvals)
	for i := 0; i < m.state.ParallelEvals; i++ {
		pts = append(pts, m.uniformPoint())
	}
	m.state.PointsProbed += len(pts)
	return pts
}

func (m *Minimizer) uniformPoint() Point {
	p := make(Point, m.state.NDims)
	for i := range p {
		p[i] = m.rng.Float64()
	}
	return p
}

// GetNextX implements spec.md §4.5's get_next_x.
func (m *Minimizer) GetNextX() (Point, error) {
	if len(m.state.EvalCache) < m.state.InitEvals {
		return nil, ErrWait
	}

	exploreEnd := m.state.InitEvals + m.state.ParallelEvals + m.state.ExploreEvals
	allEvals := exploreEnd + m.state.ExploitEvals

	switch {
	case m.state.PointsProbed < exploreEnd:
		x := m.suggest()
		m.state.PointsProbed++
		return x, nil
	case m.state.PointsProbed < allEvals:
		x := m.suggest()
		m.state.Kappa *= m.state.KappaScale
		m.state.PointsProbed++
		return x, nil
	default:
		m.state.Status = "all points probed"
		return nil, ErrMinimizationComplete
	}
}

// SetY folds each raw observation into the cache, registering its
// negation with the (maximizing) surrogate, spec.md §4.5's set_y.
func (m *Minimizer) SetY(x Point, rawYs []float64) {
	for _, y := range rawYs {
		m.state.EvalCache = append(m.state.EvalCache, Evaluation{X: x.clone(), Y: y})
	}
}

// suggest maximizes the UCB acquisition over a random-search candidate
// pool, then nudges the result away from any near-duplicate cached
// point, spec.md §4.5.
func (m *Minimizer) suggest() Point {
	const candidatePoolSize = 2000
	gp := fitSurrogate(m.state.EvalCache)

	var best Point
	bestScore := math.Inf(-1)
	for i := 0; i < candidatePoolSize; i++ {
		cand := m.uniformPoint()
		mean, std := gp.predict(cand)
		score := mean + m.state.Kappa*std
		if score > bestScore {
			bestScore = score
			best = cand
		}
	}
	if best == nil {
		best = m.uniformPoint()
	}
	return m.ensureNotSimilar(best)
}

func (m *Minimizer) ensureNotSimilar(x Point) Point {
	for m.isSimilarToCache(x) {
		x = m.nudge(x)
	}
	return x
}

func (m *Minimizer) isSimilarToCache(x Point) bool {
	for _, ev := range m.state.EvalCache {
		if l2Distance(x, ev.X) < 1e-6 {
			return true
		}
	}
	return false
}

func (m *Minimizer) nudge(x Point) Point {
	out := make(Point, len(x))
	for i, v := range x {
		noise := m.rng.NormFloat64() * 1e-2
		out[i] = math.Min(1.0, math.Max(0.0, v+noise))
	}
	return out
}

// BestSeen returns the lowest-y observation in the cache.
func (m *Minimizer) BestSeen() (Point, float64, bool) {
	if len(m.state.EvalCache) == 0 {
		return nil, 0, false
	}
	best := m.state.EvalCache[0]
	for _, ev := range m.state.EvalCache[1:] {
		if ev.Y < best.Y {
			best = ev
		}
	}
	return best.X, best.Y, true
}

// BestPredicted random-searches the surrogate's posterior mean
// (kappa=0, pure exploitation) and returns the predicted point and
// its mean/std, converted back from the surrogate's maximized sign.
func (m *Minimizer) BestPredicted() (x Point, mean, std float64, ok bool) {
	if len(m.state.EvalCache) == 0 {
		return nil, 0, 0, false
	}
	const candidatePoolSize = 2000
	gp := fitSurrogate(m.state.EvalCache)

	bestMean := math.Inf(-1)
	var bestX Point
	var bestStd float64
	for i := 0; i < candidatePoolSize; i++ {
		cand := m.uniformPoint()
		mn, sd := gp.predict(cand)
		if mn > bestMean {
			bestMean, bestStd, bestX = mn, sd, cand
		}
	}
	return bestX, -bestMean, bestStd, true
}

// gaussianProcess is an RBF-kernel GP surrogate fit to maximize
// -y (the original's sign convention: the eval cache is minimizing,
// the surrogate maximizes).
type gaussianProcess struct {
	xs     []Point
	alpha  *mat.VecDense // K^-1 * (-y)
	kernel func(a, b Point) float64
}

const (
	rbfLengthScale = 0.2
	noiseVariance  = 1e-6
)

func rbfKernel(a, b Point) float64 {
	d := l2Distance(a, b)
	return math.Exp(-(d * d) / (2 * rbfLengthScale * rbfLengthScale))
}

func fitSurrogate(cache []Evaluation) *gaussianProcess {
	n := len(cache)
	gp := &gaussianProcess{kernel: rbfKernel}
	if n == 0 {
		return gp
	}
	gp.xs = make([]Point, n)
	targets := mat.NewVecDense(n, nil)
	for i, ev := range cache {
		gp.xs[i] = ev.X
		targets.SetVec(i, -ev.Y)
	}

	k := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := rbfKernel(gp.xs[i], gp.xs[j])
			if i == j {
				v += noiseVariance
			}
			k.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	alpha := mat.NewVecDense(n, nil)
	if ok := chol.Factorize(k); ok {
		if err := chol.SolveVecTo(alpha, targets); err != nil {
			alpha = targets
		}
	} else {
		alpha = targets
	}
	gp.alpha = alpha
	return gp
}

// predict returns the posterior mean/std of the maximizing surrogate
// at x.
func (gp *gaussianProcess) predict(x Point) (mean, std float64) {
	n := len(gp.xs)
	if n == 0 {
		return 0, 1
	}
	kStar := mat.NewVecDense(n, nil)
	for i, xi := range gp.xs {
		kStar.SetVec(i, gp.kernel(xi, x))
	}
	mean = mat.Dot(kStar, gp.alpha)

	selfK := gp.kernel(x, x)
	var quad float64
	for i := 0; i < n; i++ {
		quad += kStar.AtVec(i) * kStar.AtVec(i)
	}
	variance := math.Max(selfK-quad/math.Max(float64(n), 1), 1e-9)
	return mean, math.Sqrt(variance)
}

// haltonSequence generates n points in [0,1]^dims using the first
// dims prime bases, a deterministic low-discrepancy stand-in for
// scrambled Sobol init.
func haltonSequence(dims, n int) []Point {
	primes := []int{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = make(Point, dims)
		for d := 0; d < dims; d++ {
			base := 2
			if d < len(primes) {
				base = primes[d]
			}
			pts[i][d] = haltonValue(i+1, base)
		}
	}
	return pts
}

func haltonValue(index, base int) float64 {
	f := 1.0
	r := 0.0
	for index > 0 {
		f /= float64(base)
		r += f * float64(index%base)
		index /= base
	}
	return r
}
