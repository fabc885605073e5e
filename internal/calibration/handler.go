// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package calibration

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/vanavreddy/mackenzie/internal/agent/outputdir"
)

const sbatchTemplateText = `#!/bin/bash
#SBATCH --job-name={{ .Task.TaskID | trunc 40 | trimSuffix "-" }}
#SBATCH --account={{ .Env.Account }}
#SBATCH --partition={{ .Env.Partition }}
#SBATCH --time={{ .Task.TaskData.MaxRuntime }}
{{ .JobArgs }}
{{ .Env.EnvFileBody }}

set -euo pipefail
cd {{ .OutputDir }}
run_epihiper --config runParameters.json
`

var sbatchTemplate = template.Must(template.New("calib.sbatch").Funcs(sprig.TxtFuncMap()).Parse(sbatchTemplateText))

func placeToSynpop(place string) string {
	if len(place) == 2 {
		return fmt.Sprintf("usa_%s_2017_SynPop", place)
	}
	return place
}

func partitionDir(env EnvironmentConfig, place string, multiplier int) string {
	return filepath.Join(env.PartitionCacheDir, placeToSynpop(place), strconv.Itoa(multiplier))
}

// GetLoad returns the number of compute parts a (place, multiplier) pair
// was pre-partitioned into, by an out-of-scope external partitioning
// tool. Exported for reuse by internal/projection, which shares the
// same env.EnvironmentConfig/partition-cache layout.
func GetLoad(env EnvironmentConfig, place string, multiplier int) (int, error) {
	raw, err := os.ReadFile(filepath.Join(partitionDir(env, place, multiplier), "config.json"))
	if err != nil {
		return 0, fmt.Errorf("reading partition config for %s/%d: %w", place, multiplier, err)
	}
	var cfg struct {
		NumberOfParts int `json:"numberOfParts"`
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return 0, fmt.Errorf("parsing partition config for %s/%d: %w", place, multiplier, err)
	}
	return cfg.NumberOfParts, nil
}

// GetJobSbatchArgs returns the pre-partitioned sbatch arguments for a
// (place, multiplier) pair. Exported for reuse by internal/projection.
func GetJobSbatchArgs(env EnvironmentConfig, place string, multiplier int) (string, error) {
	raw, err := os.ReadFile(filepath.Join(partitionDir(env, place, multiplier), "sbatch_args.txt"))
	if err != nil {
		return "", fmt.Errorf("reading sbatch args for %s/%d: %w", place, multiplier, err)
	}
	return strings.TrimSpace(string(raw)), nil
}

type sbatchTemplateData struct {
	Task      Task
	Env       EnvironmentConfig
	OutputDir string
	JobArgs   string
}

// NewSetupTask returns the handler mackenzie's agent invokes to install
// a calibration task's run directory and sbatch script. Grounded on
// calibration_handler.py's setup_task() / calibration_setup.py's
// setup_calibration().
func NewSetupTask(outputRoot string, env EnvironmentConfig) func(setupRoot string, data json.RawMessage) (string, int, int, error) {
	return func(setupRoot string, data json.RawMessage) (string, int, int, error) {
		var task Task
		if err := json.Unmarshal(data, &task); err != nil {
			return "", 0, 0, fmt.Errorf("parsing calibration task: %w", err)
		}

		outputDir := filepath.Join(outputRoot, task.OutputDir)
		if err := outputdir.Prepare(outputDir); err != nil {
			return "", 0, 0, fmt.Errorf("preparing output dir %s: %w", outputDir, err)
		}

		taskDataPath := filepath.Join(outputDir, "taskData.json")
		if err := os.WriteFile(taskDataPath, data, 0644); err != nil {
			return "", 0, 0, fmt.Errorf("writing task data: %w", err)
		}

		load, err := GetLoad(env, task.TaskData.Place, task.TaskData.Multiplier)
		if err != nil {
			return "", 0, 0, err
		}
		jobArgs, err := GetJobSbatchArgs(env, task.TaskData.Place, task.TaskData.Multiplier)
		if err != nil {
			return "", 0, 0, err
		}

		scriptPath := filepath.Join(outputDir, "run_script.sbatch")
		f, err := os.Create(scriptPath)
		if err != nil {
			return "", 0, 0, fmt.Errorf("creating sbatch script: %w", err)
		}
		defer f.Close()

		if err := sbatchTemplate.Execute(f, sbatchTemplateData{
			Task:      task,
			Env:       env,
			OutputDir: outputDir,
			JobArgs:   jobArgs,
		}); err != nil {
			return "", 0, 0, fmt.Errorf("rendering sbatch script: %w", err)
		}

		return scriptPath, load, env.MaxFails, nil
	}
}

// NewGetTaskResult returns the handler mackenzie's agent invokes once a
// calibration job finishes to extract its objective value. Grounded on
// calibration_handler.py's get_task_result() / get_objective_output()
// and common_setup.py's check_epihiper_successful().
func NewGetTaskResult(outputRoot string, env EnvironmentConfig) func(setupRoot string, data json.RawMessage) (json.RawMessage, bool, error) {
	return func(setupRoot string, data json.RawMessage) (json.RawMessage, bool, error) {
		var task Task
		if err := json.Unmarshal(data, &task); err != nil {
			return nil, false, fmt.Errorf("parsing calibration task: %w", err)
		}
		outputDir := filepath.Join(outputRoot, task.OutputDir)

		if !CheckEpihiperSuccessful(outputDir) {
			return nil, false, nil
		}
		objective, ok := getObjectiveOutput(outputDir)
		if !ok {
			return nil, false, nil
		}

		result, err := json.Marshal(Result{
			Cluster:   env.Cluster,
			OutputDir: outputDir,
			Objective: objective,
		})
		if err != nil {
			return nil, false, fmt.Errorf("marshaling calibration result: %w", err)
		}
		return result, true, nil
	}
}

// getObjectiveOutput reads the fitting error a calibration run wrote to
// its output directory. Absence or malformed content is not an error:
// it means the run has not produced a result yet.
func getObjectiveOutput(outputDir string) (float64, bool) {
	raw, err := os.ReadFile(filepath.Join(outputDir, "objectiveOutput.txt"))
	if err != nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CheckEpihiperSuccessful verifies a run's output and summary output
// files are non-empty and that the summary's last recorded tick
// matches runParameters.json's endTick. Exported for reuse by
// internal/projection, whose runs are checked the same way.
func CheckEpihiperSuccessful(outputDir string) bool {
	raw, err := os.ReadFile(filepath.Join(outputDir, "runParameters.json"))
	if err != nil {
		return false
	}
	var params struct {
		Output        string `json:"output"`
		SummaryOutput string `json:"summaryOutput"`
		EndTick       int    `json:"endTick"`
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return false
	}

	outputInfo, err := os.Stat(params.Output + ".gz")
	if err != nil || outputInfo.Size() == 0 {
		return false
	}
	summaryPath := params.SummaryOutput + ".gz"
	summaryInfo, err := os.Stat(summaryPath)
	if err != nil || summaryInfo.Size() == 0 {
		return false
	}

	lastTick, ok := lastSummaryTick(summaryPath)
	return ok && lastTick == params.EndTick
}

func lastSummaryTick(gzPath string) (int, bool) {
	f, err := os.Open(gzPath)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return 0, false
	}
	defer gz.Close()

	var lastLine string
	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		lastLine = scanner.Text()
	}
	fields := strings.Split(strings.TrimSpace(lastLine), ",")
	if len(fields) == 0 {
		return 0, false
	}
	tick, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	return tick, true
}
