// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package proj drives the projection task source, spec.md §4.6/§C.3: a
// static fan-out over every (cell, place, batch, replicate) tuple with
// no minimizer feedback loop — batches mint tasks once, in decreasing
// priority order, and never re-process a result. Grounded on
// original_source/epihiper_setup_utils/.../proj_task_source/main.py and
// .../projection_setup_parser.py.
package proj

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/vanavreddy/mackenzie/internal/logging"
	"github.com/vanavreddy/mackenzie/internal/rpc"
)

var log = logging.Component("pts")

// controllerClient is the subset of *rpc.Client this task source needs.
type controllerClient interface {
	AddNewTask(ctx context.Context, req *rpc.AddNewTaskRequest) (*rpc.Empty, error)
}

// Place is a leaf run configuration directory.
type Place struct {
	Name     string
	Priority int
}

// Cell groups the places projected under it. Unlike calibration cells,
// a projection cell carries no parameter ranges.
type Cell struct {
	Name   string
	Places []Place
}

// Setup is a parsed projection setup tree.
type Setup struct {
	Name  string
	Cells []Cell
}

const defaultPriority = 1

func isEpihiperConfigDir(p string) bool {
	for _, sub := range []string{"traits", "initialization", "intervention", "diseaseModel", "runParameters.json"} {
		if _, err := os.Stat(filepath.Join(p, sub)); err != nil {
			return false
		}
	}
	return true
}

// ParseSetup walks dirPath into a Setup. Every immediate subdirectory
// is a cell; every subdirectory of a cell that looks like an EpiHiper
// config directory is a place, spec.md §C.3's supplemented projection
// source.
func ParseSetup(dirPath string) (Setup, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return Setup{}, fmt.Errorf("reading projection setup dir %s: %w", dirPath, err)
	}
	setup := Setup{Name: filepath.Base(dirPath)}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		cell, err := parseCell(filepath.Join(dirPath, e.Name()))
		if err != nil {
			return Setup{}, err
		}
		setup.Cells = append(setup.Cells, cell)
	}
	sort.Slice(setup.Cells, func(i, j int) bool { return setup.Cells[i].Name < setup.Cells[j].Name })
	return setup, nil
}

func parseCell(cellPath string) (Cell, error) {
	cell := Cell{Name: filepath.Base(cellPath)}
	entries, err := os.ReadDir(cellPath)
	if err != nil {
		return Cell{}, fmt.Errorf("reading projection cell dir %s: %w", cellPath, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		placePath := filepath.Join(cellPath, e.Name())
		if !isEpihiperConfigDir(placePath) {
			continue
		}
		priority := defaultPriority
		if b, err := os.ReadFile(filepath.Join(placePath, "priority")); err == nil {
			if v, err := strconv.Atoi(strings.TrimSpace(string(b))); err == nil {
				priority = v
			}
		}
		cell.Places = append(cell.Places, Place{Name: e.Name(), Priority: priority})
	}
	sort.Slice(cell.Places, func(i, j int) bool { return cell.Places[i].Name < cell.Places[j].Name })
	return cell, nil
}

// TaskData is the projection task's wire payload, spec.md §C.3.
type TaskData struct {
	SetupName  string `json:"setup_name"`
	Cell       string `json:"cell"`
	Place      string `json:"place"`
	Batch      int    `json:"batch"`
	Replicate  int    `json:"replicate"`
	Multiplier int    `json:"multiplier"`
	MaxRuntime string `json:"max_runtime"`
}

// Task is the projection task's wire envelope, spec.md §C.3.
type Task struct {
	TaskID    string   `json:"task_id"`
	TaskData  TaskData `json:"task_data"`
	OutputDir string   `json:"output_dir"`
}

// RunConfig carries the run-wide settings this task source was started
// with, spec.md §6's PTS_ configuration table. NumReplicates holds one
// replicate count per batch, indexed from StartBatch.
type RunConfig struct {
	RunName       string
	StartBatch    int
	NumReplicates []int
	Multiplier    int
	MaxRuntime    string
}

const batchPriorityStride = 1_000_000

func createTask(ctx context.Context, ctrl controllerClient, run, setupName, cellName, placeName string, batch, replicate, priority, multiplier int, maxRuntime string) {
	taskID := fmt.Sprintf("proj:%s:%s:%d:%s:%s:%d", run, setupName, batch, cellName, placeName, replicate)
	outputDir := fmt.Sprintf("%s/%s/batch_%d/%s/%s/replicate_%d", run, setupName, batch, cellName, placeName, replicate)

	log.WithField("task_id", taskID).Info("creating task")
	task := Task{
		TaskID: taskID,
		TaskData: TaskData{
			SetupName: setupName, Cell: cellName, Place: placeName,
			Batch: batch, Replicate: replicate, Multiplier: multiplier, MaxRuntime: maxRuntime,
		},
		OutputDir: outputDir,
	}
	dataJSON, err := json.Marshal(task)
	if err != nil {
		log.WithField("task_id", taskID).Warnf("failed to marshal task: %v", err)
		return
	}
	if _, err := ctrl.AddNewTask(ctx, &rpc.AddNewTaskRequest{
		ID: taskID, Type: "projection", Data: string(dataJSON), Priority: priority,
	}); err != nil {
		log.WithField("task_id", taskID).Warnf("failed to add task: %v", err)
	}
}

// CreateTasks mints every (cell, place, batch, replicate) task in
// setup, spec.md §C.3's fan-out. Later batches are deprioritized below
// every earlier batch so the queue drains batch 0 first, matching the
// original's priority = place.priority - batch*1e6.
func CreateTasks(ctx context.Context, ctrl controllerClient, setup Setup, cfg RunConfig) {
	for _, cell := range setup.Cells {
		for _, place := range cell.Places {
			for i, numReplicates := range cfg.NumReplicates {
				batch := cfg.StartBatch + i
				priority := place.Priority - batch*batchPriorityStride
				for replicate := 0; replicate < numReplicates; replicate++ {
					createTask(ctx, ctrl, cfg.RunName, setup.Name, cell.Name, place.Name, batch, replicate, priority, cfg.Multiplier, cfg.MaxRuntime)
				}
			}
		}
	}
}
