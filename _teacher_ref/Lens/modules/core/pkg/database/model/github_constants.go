// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package model

// GithubRunnerSets status constants
const (
	RunnerSetStatusActive   = "active"
	RunnerSetStatusInactive = "inactive"
	RunnerSetStatusDeleted  = "deleted"
)
