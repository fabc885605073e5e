// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package calibration

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/assert"
)

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	raw, err := json.Marshal(v)
	assert.NilError(t, err)
	assert.NilError(t, os.WriteFile(path, raw, 0644))
}

func writeGzipLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	for _, line := range lines {
		_, err := gz.Write([]byte(line + "\n"))
		assert.NilError(t, err)
	}
	assert.NilError(t, gz.Close())
	assert.NilError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func buildPartitionCache(t *testing.T, root, place string, multiplier, numberOfParts int) {
	t.Helper()
	dir := filepath.Join(root, place, "2")
	assert.NilError(t, os.MkdirAll(dir, 0770))
	writeJSON(t, filepath.Join(dir, "config.json"), map[string]int{"numberOfParts": numberOfParts})
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "sbatch_args.txt"), []byte("--mem=8G\n"), 0644))
}

func testTask(outputDir string) Task {
	return Task{
		TaskID: "task-1",
		TaskData: TaskData{
			SetupName:  "setupA",
			Cell:       "cellA",
			Place:      "wy",
			RawParams:  []float64{0.5},
			Multiplier: 2,
			MaxRuntime: "02:00:00",
		},
		OutputDir:     outputDir,
		MinimizerID:   "min-1",
		TaskGroup:     "group-1",
		NumReplicates: 1,
	}
}

func TestSetupTaskWritesScriptAndTaskData(t *testing.T) {
	outputRoot := t.TempDir()
	cacheRoot := t.TempDir()
	buildPartitionCache(t, cacheRoot, "wy", 2, 16)

	env := EnvironmentConfig{
		Cluster:           "rivanna",
		Account:           "acct",
		Partition:         "standard",
		MaxFails:          3,
		EnvFileBody:       "export FOO=bar",
		PartitionCacheDir: cacheRoot,
	}

	task := testTask("run-1")
	data, err := json.Marshal(task)
	assert.NilError(t, err)

	handler := NewSetupTask(outputRoot, env)
	scriptPath, load, maxFails, err := handler("/setups", data)
	assert.NilError(t, err)
	assert.Equal(t, load, 16)
	assert.Equal(t, maxFails, 3)
	assert.Equal(t, scriptPath, filepath.Join(outputRoot, "run-1", "run_script.sbatch"))

	scriptContents, err := os.ReadFile(scriptPath)
	assert.NilError(t, err)
	assert.Assert(t, bytes.Contains(scriptContents, []byte("--account=acct")))
	assert.Assert(t, bytes.Contains(scriptContents, []byte("--mem=8G")))

	taskDataContents, err := os.ReadFile(filepath.Join(outputRoot, "run-1", "taskData.json"))
	assert.NilError(t, err)
	assert.Assert(t, bytes.Equal(taskDataContents, data))
}

func TestSetupTaskRotatesExistingOutputDir(t *testing.T) {
	outputRoot := t.TempDir()
	cacheRoot := t.TempDir()
	buildPartitionCache(t, cacheRoot, "wy", 2, 4)
	env := EnvironmentConfig{MaxFails: 1, PartitionCacheDir: cacheRoot}

	existing := filepath.Join(outputRoot, "run-1")
	assert.NilError(t, os.MkdirAll(existing, 0770))
	assert.NilError(t, os.WriteFile(filepath.Join(existing, "stale.txt"), []byte("old"), 0644))

	data, err := json.Marshal(testTask("run-1"))
	assert.NilError(t, err)

	handler := NewSetupTask(outputRoot, env)
	_, _, _, err = handler("/setups", data)
	assert.NilError(t, err)

	_, err = os.Stat(filepath.Join(outputRoot, "run-1-fail_1", "stale.txt"))
	assert.NilError(t, err)
	_, err = os.Stat(filepath.Join(outputRoot, "run-1", "taskData.json"))
	assert.NilError(t, err)
}

func TestGetTaskResultReturnsObjectiveWhenSuccessful(t *testing.T) {
	outputRoot := t.TempDir()
	outputDir := filepath.Join(outputRoot, "run-1")
	assert.NilError(t, os.MkdirAll(outputDir, 0770))

	writeJSON(t, filepath.Join(outputDir, "runParameters.json"), map[string]any{
		"output":        filepath.Join(outputDir, "output"),
		"summaryOutput": filepath.Join(outputDir, "summary"),
		"endTick":       10,
	})
	assert.NilError(t, os.WriteFile(filepath.Join(outputDir, "output.gz"), []byte("x"), 0644))
	writeGzipLines(t, filepath.Join(outputDir, "summary.gz"), "1,0.1", "10,0.02")
	assert.NilError(t, os.WriteFile(filepath.Join(outputDir, "objectiveOutput.txt"), []byte("0.0123"), 0644))

	data, err := json.Marshal(testTask("run-1"))
	assert.NilError(t, err)

	handler := NewGetTaskResult(outputRoot, EnvironmentConfig{Cluster: "rivanna"})
	resultRaw, ok, err := handler("/setups", data)
	assert.NilError(t, err)
	assert.Assert(t, ok)

	var result Result
	assert.NilError(t, json.Unmarshal(resultRaw, &result))
	assert.Equal(t, result.Cluster, "rivanna")
	assert.Equal(t, result.Objective, 0.0123)
}

func TestGetTaskResultNotOkWhenEndTickMismatched(t *testing.T) {
	outputRoot := t.TempDir()
	outputDir := filepath.Join(outputRoot, "run-1")
	assert.NilError(t, os.MkdirAll(outputDir, 0770))

	writeJSON(t, filepath.Join(outputDir, "runParameters.json"), map[string]any{
		"output":        filepath.Join(outputDir, "output"),
		"summaryOutput": filepath.Join(outputDir, "summary"),
		"endTick":       10,
	})
	assert.NilError(t, os.WriteFile(filepath.Join(outputDir, "output.gz"), []byte("x"), 0644))
	writeGzipLines(t, filepath.Join(outputDir, "summary.gz"), "1,0.1", "9,0.02")
	assert.NilError(t, os.WriteFile(filepath.Join(outputDir, "objectiveOutput.txt"), []byte("0.0123"), 0644))

	data, err := json.Marshal(testTask("run-1"))
	assert.NilError(t, err)

	handler := NewGetTaskResult(outputRoot, EnvironmentConfig{Cluster: "rivanna"})
	_, ok, err := handler("/setups", data)
	assert.NilError(t, err)
	assert.Assert(t, !ok)
}

func TestGetTaskResultNotOkWhenObjectiveMissing(t *testing.T) {
	outputRoot := t.TempDir()
	outputDir := filepath.Join(outputRoot, "run-1")
	assert.NilError(t, os.MkdirAll(outputDir, 0770))

	writeJSON(t, filepath.Join(outputDir, "runParameters.json"), map[string]any{
		"output":        filepath.Join(outputDir, "output"),
		"summaryOutput": filepath.Join(outputDir, "summary"),
		"endTick":       10,
	})
	assert.NilError(t, os.WriteFile(filepath.Join(outputDir, "output.gz"), []byte("x"), 0644))
	writeGzipLines(t, filepath.Join(outputDir, "summary.gz"), "10,0.02")

	data, err := json.Marshal(testTask("run-1"))
	assert.NilError(t, err)

	handler := NewGetTaskResult(outputRoot, EnvironmentConfig{Cluster: "rivanna"})
	_, ok, err := handler("/setups", data)
	assert.NilError(t, err)
	assert.Assert(t, !ok)
}
