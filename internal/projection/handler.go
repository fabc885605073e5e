// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package projection

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/vanavreddy/mackenzie/internal/agent/outputdir"
	"github.com/vanavreddy/mackenzie/internal/calibration"
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

var sbatchTemplate = template.Must(template.New("proj.sbatch").Funcs(sprig.TxtFuncMap()).Parse(sbatchTemplateText))

type sbatchTemplateData struct {
	Task      Task
	Env       calibration.EnvironmentConfig
	OutputDir string
	JobArgs   string
}

// NewSetupTask returns the handler mackenzie's agent invokes to install
// a projection task's run directory and sbatch script. Grounded on
// projection_handler.py's setup_task() / projection_setup.py's
// setup_projection(). Shares its partition-cache lookups with
// calibration's handler — both task types were pre-partitioned by the
// same out-of-scope external tool, keyed only by (place, multiplier).
func NewSetupTask(outputRoot string, env calibration.EnvironmentConfig) func(setupRoot string, data json.RawMessage) (string, int, int, error) {
	return func(setupRoot string, data json.RawMessage) (string, int, int, error) {
		var task Task
		if err := json.Unmarshal(data, &task); err != nil {
			return "", 0, 0, fmt.Errorf("parsing projection task: %w", err)
		}

		outputDir := filepath.Join(outputRoot, task.OutputDir)
		if err := outputdir.Prepare(outputDir); err != nil {
			return "", 0, 0, fmt.Errorf("preparing output dir %s: %w", outputDir, err)
		}

		taskDataPath := filepath.Join(outputDir, "taskData.json")
		if err := os.WriteFile(taskDataPath, data, 0644); err != nil {
			return "", 0, 0, fmt.Errorf("writing task data: %w", err)
		}

		load, err := calibration.GetLoad(env, task.TaskData.Place, task.TaskData.Multiplier)
		if err != nil {
			return "", 0, 0, err
		}
		jobArgs, err := calibration.GetJobSbatchArgs(env, task.TaskData.Place, task.TaskData.Multiplier)
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
// projection job finishes. Unlike calibration there is no objective to
// extract — a projection run succeeds or it doesn't. Grounded on
// projection_handler.py's get_task_result().
func NewGetTaskResult(outputRoot string, env calibration.EnvironmentConfig) func(setupRoot string, data json.RawMessage) (json.RawMessage, bool, error) {
	return func(setupRoot string, data json.RawMessage) (json.RawMessage, bool, error) {
		var task Task
		if err := json.Unmarshal(data, &task); err != nil {
			return nil, false, fmt.Errorf("parsing projection task: %w", err)
		}
		outputDir := filepath.Join(outputRoot, task.OutputDir)

		if !calibration.CheckEpihiperSuccessful(outputDir) {
			return nil, false, nil
		}

		result, err := json.Marshal(Result{Cluster: env.Cluster, OutputDir: outputDir})
		if err != nil {
			return nil, false, fmt.Errorf("marshaling projection result: %w", err)
		}
		return result, true, nil
	}
}
