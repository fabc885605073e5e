// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package calibration implements the calibration task's wire payloads
// and agent handlers, spec.md §6's "Calibration task data"/"Calibration
// result" shapes. Grounded on
// original_source/epihiper_setup_utils/.../calibration_setup.py and
// .../calibration_handler.py.
package calibration

// TaskData is the parameter set one calibration run evaluates.
type TaskData struct {
	SetupName  string    `json:"setup_name"`
	Cell       string    `json:"cell"`
	Place      string    `json:"place"`
	RawParams  []float64 `json:"raw_params"`
	Multiplier int       `json:"multiplier"`
	MaxRuntime string    `json:"max_runtime"`
}

// Task is the full calibration task-data payload, spec.md §6.
type Task struct {
	TaskID        string   `json:"task_id"`
	TaskData      TaskData `json:"task_data"`
	OutputDir     string   `json:"output_dir"`
	MinimizerID   string   `json:"minimizer_id"`
	TaskGroup     string   `json:"task_group"`
	NumReplicates int      `json:"num_replicates"`
}

// Result is the calibration result payload, spec.md §6.
type Result struct {
	Cluster   string  `json:"cluster"`
	OutputDir string  `json:"output_dir"`
	Objective float64 `json:"objective"`
}

// EnvironmentConfig is the per-cluster partition/account context fed
// into the sbatch template, spec.md §1's "partition-planning
// heuristics are out of scope" — only this data shape is modeled, not
// the placement math. PartitionCacheDir points at a directory laid out
// by an external, out-of-scope partitioning tool as
// <synpop>/<multiplier>/{config.json,sbatch_args.txt}.
type EnvironmentConfig struct {
	Cluster           string
	Account           string
	Partition         string
	MaxFails          int
	EnvFileBody       string
	PartitionCacheDir string
}
