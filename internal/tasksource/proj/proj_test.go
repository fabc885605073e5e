// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package proj

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanavreddy/mackenzie/internal/rpc"
)

type fakeController struct {
	added []rpc.AddNewTaskRequest
}

func (f *fakeController) AddNewTask(ctx context.Context, req *rpc.AddNewTaskRequest) (*rpc.Empty, error) {
	f.added = append(f.added, *req)
	return &rpc.Empty{}, nil
}

func buildPlaceDir(t *testing.T, dir string, priority int) {
	t.Helper()
	for _, sub := range []string{"traits", "initialization", "intervention", "diseaseModel"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0770))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "runParameters.json"), []byte("{}"), 0644))
	if priority != defaultPriority {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "priority"), []byte("5"), 0644))
	}
}

func TestParseSetupFindsCellsAndPlaces(t *testing.T) {
	root := t.TempDir()
	setupDir := filepath.Join(root, "setupA")
	placeDir := filepath.Join(setupDir, "cellA", "placeA")
	require.NoError(t, os.MkdirAll(placeDir, 0770))
	buildPlaceDir(t, placeDir, 5)

	setup, err := ParseSetup(setupDir)
	require.NoError(t, err)
	assert.Equal(t, "setupA", setup.Name)
	require.Len(t, setup.Cells, 1)
	assert.Equal(t, "cellA", setup.Cells[0].Name)
	require.Len(t, setup.Cells[0].Places, 1)
	assert.Equal(t, Place{Name: "placeA", Priority: 5}, setup.Cells[0].Places[0])
}

func TestCreateTasksMintsOneTaskPerBatchReplicate(t *testing.T) {
	setup := Setup{Cells: []Cell{{Name: "cellA", Places: []Place{{Name: "placeA", Priority: 10}}}}}
	cfg := RunConfig{RunName: "run1", StartBatch: 0, NumReplicates: []int{2, 1}, Multiplier: 4, MaxRuntime: "01:00:00"}

	ctrl := &fakeController{}
	CreateTasks(context.Background(), ctrl, Setup{Name: "setupA", Cells: setup.Cells}, cfg)

	require.Len(t, ctrl.added, 3)
	assert.Equal(t, "projection", ctrl.added[0].Type)
	assert.Equal(t, 10, ctrl.added[0].Priority, "batch 0 keeps the place's priority")
	assert.Equal(t, 10-batchPriorityStride, ctrl.added[2].Priority, "batch 1 is deprioritized below batch 0")

	var task Task
	require.NoError(t, json.Unmarshal([]byte(ctrl.added[0].Data), &task))
	assert.Equal(t, "proj:run1:setupA:0:cellA:placeA:0", task.TaskID)
	assert.Equal(t, "run1/setupA/batch_0/cellA/placeA/replicate_0", task.OutputDir)
}
