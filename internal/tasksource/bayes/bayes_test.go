// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package bayes

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanavreddy/mackenzie/internal/calibration"
	"github.com/vanavreddy/mackenzie/internal/minimizer/bayes"
	"github.com/vanavreddy/mackenzie/internal/rpc"
	"github.com/vanavreddy/mackenzie/internal/setupparser"
	"github.com/vanavreddy/mackenzie/internal/store/minimizerstore"
)

type fakeController struct {
	added     []rpc.AddNewTaskRequest
	completed []rpc.CompletedTaskEntry
	processed []string
}

func (f *fakeController) AddNewTask(ctx context.Context, req *rpc.AddNewTaskRequest) (*rpc.Empty, error) {
	f.added = append(f.added, *req)
	return &rpc.Empty{}, nil
}

func (f *fakeController) GetAllCompletedTasks(ctx context.Context) (*rpc.GetAllCompletedTasksResponse, error) {
	return &rpc.GetAllCompletedTasksResponse{Tasks: f.completed}, nil
}

func (f *fakeController) SetTaskProcessed(ctx context.Context, req *rpc.SetTaskProcessedRequest) (*rpc.Empty, error) {
	f.processed = append(f.processed, req.ID)
	return &rpc.Empty{}, nil
}

func testSetup() setupparser.Setup {
	return setupparser.Setup{
		Name: "setupA",
		Cells: []setupparser.Cell{
			{
				Name: "cellA",
				ParamRanges: []setupparser.ParamRange{
					{Name: "x0", Min: 0, Max: 10},
					{Name: "x1", Min: -5, Max: 5},
				},
				Places: []setupparser.Place{{Name: "placeA", Priority: 2}},
			},
		},
	}
}

func openStore(t *testing.T) *minimizerstore.Store {
	t.Helper()
	s, err := minimizerstore.Open(filepath.Join(t.TempDir(), "min.db"))
	require.NoError(t, err)
	return s
}

func testMinimizerConfig() bayes.Config {
	return bayes.Config{InitEvals: 2, ExploreEvals: 2, ExploitEvals: 2, ParallelEvals: 0, KappaInitial: 2, KappaScale: 0.9}
}

func TestCreateMinimizersIsIdempotentAndUsesBayesianType(t *testing.T) {
	store := openStore(t)
	setup := testSetup()
	cfg := RunConfig{RunName: "run1", Multiplier: 4, MaxRuntime: "01:00:00", Minimizer: testMinimizerConfig()}

	ids1, err := CreateMinimizers(store, setup, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"run1:setupA:cellA:placeA"}, ids1)

	ids2, err := CreateMinimizers(store, setup, cfg)
	require.NoError(t, err)
	assert.Equal(t, ids1, ids2)

	row, err := store.Get("run1:setupA:cellA:placeA")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, minimizerstore.Bayesian, row.Type)

	var state bayes.State
	require.NoError(t, json.Unmarshal([]byte(row.State), &state))
	assert.Equal(t, 2, state.NDims, "NDims should match the cell's parameter count")
}

func TestCreateInitialTasksMintsOnePerInitialPoint(t *testing.T) {
	ctrl := &fakeController{}
	minimizer := bayes.New(bayes.Config{NDims: 2, InitEvals: 3, ExploreEvals: 1, ExploitEvals: 1})
	minContext := MinimizerContext{
		Run: "run1", Setup: "setupA", Cell: "cellA", Place: "placeA",
		Multiplier: 4, MaxRuntime: "01:00:00", TaskPriority: 2,
		ParamRanges: []setupparser.ParamRange{{Name: "x0", Min: 0, Max: 10}, {Name: "x1", Min: -5, Max: 5}},
	}

	err := CreateInitialTasks(context.Background(), ctrl, "run1:setupA:cellA:placeA", minimizer, minContext)
	require.NoError(t, err)
	assert.Len(t, ctrl.added, 3)
	assert.Equal(t, "calibration", ctrl.added[0].Type)
	assert.Equal(t, 2, ctrl.added[0].Priority)

	var task calibration.Task
	require.NoError(t, json.Unmarshal([]byte(ctrl.added[0].Data), &task))
	assert.Equal(t, "setupA", task.TaskData.SetupName)
	assert.Equal(t, 1, task.NumReplicates)
	assert.Equal(t, "run1:setupA:cellA:placeA:0", task.TaskID)
}

func TestHandleCompletedTasksFoldsEachTaskImmediately(t *testing.T) {
	store := openStore(t)
	minID := "run1:setupA:cellA:placeA"
	minContext := MinimizerContext{
		Run: "run1", Setup: "setupA", Cell: "cellA", Place: "placeA",
		Multiplier: 4, MaxRuntime: "01:00:00", TaskPriority: 1,
		ParamRanges: []setupparser.ParamRange{{Name: "x0", Min: 0, Max: 1}},
	}
	contextJSON, err := json.Marshal(minContext)
	require.NoError(t, err)
	stateJSON, err := json.Marshal(bayes.New(bayes.Config{NDims: 1, InitEvals: 1, ExploreEvals: 1, ExploitEvals: 1}).State())
	require.NoError(t, err)
	require.NoError(t, store.Create(minID, minimizerstore.Bayesian, string(stateJSON), string(contextJSON)))

	task := calibration.Task{
		TaskID: minID + ":0",
		TaskData: calibration.TaskData{
			SetupName: "setupA", Cell: "cellA", Place: "placeA", RawParams: []float64{0.5}, Multiplier: 4,
		},
		MinimizerID:   minID,
		TaskGroup:     minID + ":0",
		NumReplicates: 1,
	}
	dataJSON, err := json.Marshal(task)
	require.NoError(t, err)
	resultJSON, err := json.Marshal(calibration.Result{Objective: 0.42})
	require.NoError(t, err)

	ctrl := &fakeController{completed: []rpc.CompletedTaskEntry{
		{ID: task.TaskID, Type: "calibration", Data: string(dataJSON), ResultJSON: string(resultJSON)},
	}}

	require.NoError(t, HandleCompletedTasks(context.Background(), ctrl, store))
	assert.Equal(t, []string{task.TaskID}, ctrl.processed)

	row, err := store.Get(minID)
	require.NoError(t, err)
	var state bayes.State
	require.NoError(t, json.Unmarshal([]byte(row.State), &state))
	require.Len(t, state.EvalCache, 1)
	assert.InDelta(t, 0.42, state.EvalCache[0].Y, 1e-9)
}

func TestCreateNextTaskWaitsWhileBelowInitEvals(t *testing.T) {
	ctrl := &fakeController{}
	minimizer := bayes.New(bayes.Config{NDims: 1, InitEvals: 3, ExploreEvals: 1, ExploitEvals: 1})
	minContext := MinimizerContext{ParamRanges: []setupparser.ParamRange{{Min: 0, Max: 1}}}

	err := CreateNextTask(context.Background(), ctrl, "min1", minimizer, minContext)
	require.NoError(t, err)
	assert.Empty(t, ctrl.added, "should not mint a task while waiting for initial evaluations")
}

func TestStatusesReportBestSeenAndPredictedParams(t *testing.T) {
	store := openStore(t)
	minContext := MinimizerContext{
		Run: "run1", Setup: "setupA", Cell: "cellA", Place: "placeA",
		ParamRanges: []setupparser.ParamRange{{Name: "x0", Min: 0, Max: 10}},
	}
	contextJSON, err := json.Marshal(minContext)
	require.NoError(t, err)

	minimizer := bayes.New(bayes.Config{NDims: 1, InitEvals: 1, ExploreEvals: 1, ExploitEvals: 1})
	minimizer.SetY(bayes.Point{0.5}, []float64{2.0})
	stateJSON, err := json.Marshal(minimizer.State())
	require.NoError(t, err)
	require.NoError(t, store.Create("run1:setupA:cellA:placeA", minimizerstore.Bayesian, string(stateJSON), string(contextJSON)))

	statuses, err := Statuses(store)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, "x0=5", statuses[0].BestSeenParams)
	assert.Equal(t, 2.0, statuses[0].BestSeenY)
	assert.Equal(t, bayes.Point{0.5}, statuses[0].BestSeenX)
	assert.Equal(t, 1, statuses[0].PointsSeen)
}

func TestInitializeMinimizersSkipsAlreadyProbedMinimizers(t *testing.T) {
	store := openStore(t)
	setup := testSetup()
	cfg := RunConfig{RunName: "run1", Multiplier: 4, MaxRuntime: "01:00:00", Minimizer: testMinimizerConfig()}
	minIDs, err := CreateMinimizers(store, setup, cfg)
	require.NoError(t, err)

	ctrl := &fakeController{}
	require.NoError(t, InitializeMinimizers(context.Background(), ctrl, store, minIDs))
	firstRoundCount := len(ctrl.added)
	assert.Greater(t, firstRoundCount, 0, "fresh minimizer should mint its init batch")

	// Re-running against the same minIDs must be a no-op: the minimizer
	// now has probed points and InitializeMinimizers leaves it alone.
	require.NoError(t, InitializeMinimizers(context.Background(), ctrl, store, minIDs))
	assert.Len(t, ctrl.added, firstRoundCount, "already-initialized minimizer should not be re-initialized")
}
