// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package controller

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/vanavreddy/mackenzie/internal/rpc"
	"github.com/vanavreddy/mackenzie/internal/store/setupstore"
	"github.com/vanavreddy/mackenzie/internal/store/taskqueue"
	"gotest.tools/assert"
)

func makeTarGz(t *testing.T, name string, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	assert.NilError(t, tw.WriteHeader(&tar.Header{Name: name + "/", Typeflag: tar.TypeDir, Mode: 0770}))
	for rel, content := range files {
		assert.NilError(t, tw.WriteHeader(&tar.Header{
			Name: filepath.Join(name, rel), Typeflag: tar.TypeReg,
			Size: int64(len(content)), Mode: 0640,
		}))
		_, err := tw.Write([]byte(content))
		assert.NilError(t, err)
	}
	assert.NilError(t, tw.Close())
	assert.NilError(t, gz.Close())
	return buf.Bytes()
}

func newTestController(t *testing.T) *Controller {
	t.Helper()
	dir := t.TempDir()
	setups, err := setupstore.Open(filepath.Join(dir, "setup.db"))
	assert.NilError(t, err)
	tasks, err := taskqueue.Open(filepath.Join(dir, "tasks.db"))
	assert.NilError(t, err)
	return New(Config{SetupRoot: dir, TaskTimeout: time.Hour}, setups, tasks)
}

func TestAddSetupIdempotent(t *testing.T) {
	ctrl := newTestController(t)
	tarBytes := makeTarGz(t, "setupA", map[string]string{"range.json": `{}`})

	_, err := ctrl.AddSetup(context.Background(), &rpc.AddSetupRequest{Name: "setupA", Tar: tarBytes})
	assert.NilError(t, err)
	_, err = ctrl.AddSetup(context.Background(), &rpc.AddSetupRequest{Name: "setupA", Tar: tarBytes})
	assert.NilError(t, err)

	names, err := ctrl.GetAllSetupNames(context.Background(), &rpc.GetAllSetupNamesRequest{})
	assert.NilError(t, err)
	assert.DeepEqual(t, names.Names, []string{"setupA"})
}

func TestAddSetupDifferentTarConflicts(t *testing.T) {
	ctrl := newTestController(t)
	tar1 := makeTarGz(t, "setupA", map[string]string{"range.json": `{"a":1}`})
	tar2 := makeTarGz(t, "setupA", map[string]string{"range.json": `{"a":2}`})

	_, err := ctrl.AddSetup(context.Background(), &rpc.AddSetupRequest{Name: "setupA", Tar: tar1})
	assert.NilError(t, err)

	_, err = ctrl.AddSetup(context.Background(), &rpc.AddSetupRequest{Name: "setupA", Tar: tar2})
	assert.ErrorContains(t, err, "different tar")
}

func TestGetSetupDirTarNotFound(t *testing.T) {
	ctrl := newTestController(t)
	_, err := ctrl.GetSetupDirTar(context.Background(), &rpc.GetSetupDirTarRequest{Name: "missing"})
	assert.ErrorContains(t, err, "not found")
}

func TestTaskLifecycleHappyPath(t *testing.T) {
	ctrl := newTestController(t)
	ctx := context.Background()

	_, err := ctrl.AddNewTask(ctx, &rpc.AddNewTaskRequest{ID: "t1", Type: "calibration", Data: `{}`, Priority: 1})
	assert.NilError(t, err)

	got, err := ctrl.GetSingleAvailableTask(ctx, &rpc.GetSingleAvailableTaskRequest{Cluster: "c1"})
	assert.NilError(t, err)
	assert.Equal(t, got.Found, true)
	assert.Equal(t, got.ID, "t1")

	_, err = ctrl.SetTaskCompleted(ctx, &rpc.SetTaskCompletedRequest{ID: "t1", ResultJSON: `{"objective":0.42}`})
	assert.NilError(t, err)

	completed, err := ctrl.GetAllCompletedTasks(ctx, &rpc.GetAllCompletedTasksRequest{})
	assert.NilError(t, err)
	assert.Equal(t, len(completed.Tasks), 1)
	assert.Equal(t, completed.Tasks[0].ID, "t1")

	_, err = ctrl.SetTaskProcessed(ctx, &rpc.SetTaskProcessedRequest{ID: "t1"})
	assert.NilError(t, err)

	completed, err = ctrl.GetAllCompletedTasks(ctx, &rpc.GetAllCompletedTasksRequest{})
	assert.NilError(t, err)
	assert.Equal(t, len(completed.Tasks), 0)
}

func TestLeaseReclaimAcrossClusters(t *testing.T) {
	ctrl := newTestController(t)
	ctx := context.Background()
	ctrl.cfg.TaskTimeout = time.Millisecond

	_, err := ctrl.AddNewTask(ctx, &rpc.AddNewTaskRequest{ID: "t2", Type: "calibration", Data: `{}`, Priority: 1})
	assert.NilError(t, err)

	got, err := ctrl.GetSingleAvailableTask(ctx, &rpc.GetSingleAvailableTaskRequest{Cluster: "c1"})
	assert.NilError(t, err)
	assert.Equal(t, got.ID, "t2")

	time.Sleep(5 * time.Millisecond)

	reassigned, err := ctrl.GetSingleAvailableTask(ctx, &rpc.GetSingleAvailableTaskRequest{Cluster: "c2"})
	assert.NilError(t, err)
	assert.Equal(t, reassigned.Found, true)
	assert.Equal(t, reassigned.ID, "t2")
}
