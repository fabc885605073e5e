// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package bayes

import (
	"errors"
	"testing"

	"gotest.tools/assert"
)

func TestGetInitialXsMatchesDocumentedScenario(t *testing.T) {
	m := New(Config{NDims: 2, InitEvals: 4, ExploreEvals: 32, ExploitEvals: 32, ParallelEvals: 2, KappaInitial: 2.576, KappaScale: 0.95})

	pts := m.GetInitialXs()

	assert.Equal(t, len(pts), 6)
	assert.Equal(t, m.State().PointsProbed, 6)
	for _, p := range pts {
		assert.Equal(t, len(p), 2)
		for _, v := range p {
			assert.Assert(t, v >= 0 && v <= 1)
		}
	}
}

func TestGetNextXWaitsUntilInitEvalsObserved(t *testing.T) {
	m := New(Config{NDims: 2, InitEvals: 4, ExploreEvals: 1, ExploitEvals: 1, ParallelEvals: 1, KappaInitial: 2.0, KappaScale: 0.9})
	pts := m.GetInitialXs()

	for i := 0; i < 3; i++ {
		m.SetY(pts[i], []float64{1.0})
		_, err := m.GetNextX()
		assert.Assert(t, errors.Is(err, ErrWait))
	}

	m.SetY(pts[3], []float64{1.0})
	x, err := m.GetNextX()
	assert.NilError(t, err)
	assert.Equal(t, len(x), 2)
}

func TestGetNextXCompletesAfterBudgetExhausted(t *testing.T) {
	m := New(Config{NDims: 1, InitEvals: 1, ExploreEvals: 1, ExploitEvals: 1, ParallelEvals: 0, KappaInitial: 1.0, KappaScale: 1.0})
	init := m.GetInitialXs()
	assert.Equal(t, len(init), 1)
	m.SetY(init[0], []float64{1.0})

	x1, err := m.GetNextX()
	assert.NilError(t, err)
	m.SetY(x1, []float64{0.9})

	x2, err := m.GetNextX()
	assert.NilError(t, err)
	m.SetY(x2, []float64{0.8})

	_, err = m.GetNextX()
	assert.Assert(t, errors.Is(err, ErrMinimizationComplete))
	assert.Equal(t, m.State().Status, "all points probed")
}

func TestSuggestionsAvoidNearDuplicates(t *testing.T) {
	m := New(Config{NDims: 1, InitEvals: 1, ExploreEvals: 5, ExploitEvals: 0, ParallelEvals: 0, KappaInitial: 1.0, KappaScale: 1.0})
	m.SetY(Point{0.3}, []float64{1.0})

	x, err := m.GetNextX()
	assert.NilError(t, err)
	assert.Assert(t, l2Distance(x, Point{0.3}) >= 1e-6)
}

func TestBestSeenReturnsLowestY(t *testing.T) {
	m := New(Config{NDims: 1, InitEvals: 1})
	m.SetY(Point{0.1}, []float64{5.0})
	m.SetY(Point{0.2}, []float64{1.0})
	m.SetY(Point{0.3}, []float64{3.0})

	x, y, ok := m.BestSeen()
	assert.Assert(t, ok)
	assert.DeepEqual(t, x, Point{0.2})
	assert.Equal(t, y, 1.0)
}

func TestFromStateRoundTrips(t *testing.T) {
	m := New(Config{NDims: 1, InitEvals: 1, KappaInitial: 2.0, KappaScale: 0.9})
	m.SetY(Point{0.4}, []float64{0.7})
	m.state.Kappa = 1.8

	m2 := FromState(m.State())
	assert.DeepEqual(t, m2.State(), m.State())
}

func TestHaltonSequenceIsDeterministicAndBounded(t *testing.T) {
	a := haltonSequence(2, 8)
	b := haltonSequence(2, 8)
	assert.DeepEqual(t, a, b)
	for _, p := range a {
		for _, v := range p {
			assert.Assert(t, v >= 0 && v < 1)
		}
	}
}
