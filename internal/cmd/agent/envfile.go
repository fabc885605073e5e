// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package cmdagent

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/vanavreddy/mackenzie/internal/calibration"
)

// loadEnvironmentConfig parses the per-cluster dotenv file named by
// env_file.py's EnvFile model (CLUSTER, PARTITION_CACHE_DIR,
// SYNPOP_ROOT, DBHOST_IP_FILE, EPIHIPER_LOG_LEVEL,
// PIPELINE_SBATCH_ARGS, MAX_FAILS) into a calibration.EnvironmentConfig.
//
// ACCOUNT and PARTITION are read too, though the original EnvFile model
// has no such keys — calibration/projection's sbatch template renders
// "--account="/"--partition=" directives that nothing in env_file.py
// populates, so this loader treats them as mackenzie-specific additions
// to the dotenv file rather than leaving the template fields empty.
func loadEnvironmentConfig(path string) (calibration.EnvironmentConfig, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return calibration.EnvironmentConfig{}, fmt.Errorf("reading env file %s: %w", path, err)
	}

	required := []string{"CLUSTER", "PARTITION_CACHE_DIR", "MAX_FAILS"}
	for _, key := range required {
		if values[key] == "" {
			return calibration.EnvironmentConfig{}, fmt.Errorf("env file %s missing required key %s", path, key)
		}
	}

	maxFails, err := strconv.Atoi(values["MAX_FAILS"])
	if err != nil {
		return calibration.EnvironmentConfig{}, fmt.Errorf("env file %s: MAX_FAILS must be an integer: %w", path, err)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return calibration.EnvironmentConfig{}, fmt.Errorf("reading raw env file %s: %w", path, err)
	}

	return calibration.EnvironmentConfig{
		Cluster:           values["CLUSTER"],
		Account:           values["ACCOUNT"],
		Partition:         values["PARTITION"],
		MaxFails:          maxFails,
		EnvFileBody:       string(body),
		PartitionCacheDir: values["PARTITION_CACHE_DIR"],
	}, nil
}
