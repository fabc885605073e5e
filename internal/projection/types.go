// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package projection implements the projection task's wire payloads
// and agent handlers, spec.md §6's "Projection task data"/"Projection
// result" shapes. Grounded on
// original_source/epihiper_setup_utils/.../projection_setup.py and
// .../projection_handler.py.
package projection

// TaskData is one (cell, place, batch, replicate) projection run.
type TaskData struct {
	SetupName  string `json:"setup_name"`
	Cell       string `json:"cell"`
	Place      string `json:"place"`
	Batch      int    `json:"batch"`
	Replicate  int    `json:"replicate"`
	Multiplier int    `json:"multiplier"`
	MaxRuntime string `json:"max_runtime"`
}

// Task is the full projection task-data payload, spec.md §6. Unlike
// calibration.Task it carries no minimizer_id/task_group: a projection
// run has no feedback loop to fold completions back into.
type Task struct {
	TaskID    string   `json:"task_id"`
	TaskData  TaskData `json:"task_data"`
	OutputDir string   `json:"output_dir"`
}

// Result is the projection result payload, spec.md §6 — no objective
// value, only confirmation of where the run's output landed.
type Result struct {
	Cluster   string `json:"cluster"`
	OutputDir string `json:"output_dir"`
}
