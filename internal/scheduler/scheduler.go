// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package scheduler is the shell-based driver over the batch
// scheduler CLI of spec.md §4.3: submit, list-running, accounting
// fetch, each wrapped in a bounded retry envelope. Grounded on
// original_source/mackenzie/src/mackenzie/agent/slurm_pipeline.py's
// do_get_running_jobids/do_get_sacct_info/do_submit_sbatch_job retry
// wrappers, with the command-invocation style of
// Lens/modules/exporters/slurm-exporter/pkg/slurm/slurm.go (os/exec +
// tab/whitespace-separated output parsing).
package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/vanavreddy/mackenzie/internal/errs"
	"github.com/vanavreddy/mackenzie/internal/logging"
)

// These are package vars rather than consts solely so tests can shrink
// them; production code never reassigns them.
var (
	retryTime      = 30 * time.Minute
	interRetry     = 30 * time.Second
	perCallTimeout = 5 * time.Minute
)

var log = logging.Component("scheduler")

// Adaptor drives the batch scheduler CLI. SubmitExe/ListExe/AcctExe
// default to sbatch/squeue/sacct, overridable the way the original
// honored SBATCH_EXE/SQUEUE_EXE/SACCT_EXE.
type Adaptor struct {
	SubmitExe string
	ListExe   string
	AcctExe   string
	User      string
}

// New builds an Adaptor reading the *_EXE overrides and USER from the
// environment, matching the original's module-level defaults.
func New() (*Adaptor, error) {
	user := os.Getenv("USER")
	if user == "" {
		return nil, fmt.Errorf("USER must be set in the environment")
	}
	return &Adaptor{
		SubmitExe: envOr("SBATCH_EXE", "sbatch"),
		ListExe:   envOr("SQUEUE_EXE", "squeue"),
		AcctExe:   envOr("SACCT_EXE", "sacct"),
		User:      user,
	}, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// withRetry runs op repeatedly on a constant backoff of interRetry,
// until it succeeds or the retryTime budget since the first attempt is
// exhausted, at which point the last error is returned wrapped as
// errs.Transient (spec.md §4.3/§7). Grounded on
// AMD-AGI-Primus-SaFE/SaFE/utils's cenkalti/backoff/v4 dependency:
// ConstantBackOff bounded by WithMaxElapsedTime is the library's stock
// composition for a fixed-interval, bounded-budget retry envelope.
func withRetry[T any](ctx context.Context, label string, op func(context.Context) (T, error)) (T, error) {
	var result T
	attempt := func() error {
		callCtx, cancel := context.WithTimeout(ctx, perCallTimeout)
		defer cancel()
		r, err := op(callCtx)
		if err != nil {
			logCommandFailure(label, err)
			return err
		}
		result = r
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxElapsedTime(backoff.NewConstantBackOff(interRetry), retryTime), ctx)
	notify := func(error, time.Duration) {
		log.WithField("op", label).Warn("retrying after transient failure")
	}
	if err := backoff.RetryNotify(attempt, policy, notify); err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		return result, errs.NewTransient(label+" exhausted retry budget", err)
	}
	return result, nil
}

func logCommandFailure(label string, err error) {
	var exitErr *exec.ExitError
	if ee, ok := err.(*exec.ExitError); ok {
		exitErr = ee
		log.WithFields(logging.Fields{
			"op": label, "stderr": string(exitErr.Stderr),
		}).Warn("command failed")
		return
	}
	log.WithField("op", label).WithError(err).Warn("command failed")
}

// ListRunning returns the set of batch job ids currently running for
// this adaptor's user, spec.md §4.3 list_running.
func (a *Adaptor) ListRunning(ctx context.Context) (map[int64]struct{}, error) {
	ids, err := withRetry(ctx, "list_running", func(ctx context.Context) ([]int64, error) {
		out, err := runCommand(ctx, nil, a.ListExe, "-u", a.User, "--noheader", "-o", "%A")
		if err != nil {
			return nil, err
		}
		return parseIDs(out)
	})
	if err != nil {
		return nil, err
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func parseIDs(out string) ([]int64, error) {
	var ids []int64
	for _, f := range strings.Fields(out) {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing job id %q: %w", f, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// FetchAccounting returns the opaque accounting text blob for a
// completed batch job, spec.md §4.3 fetch_accounting.
func (a *Adaptor) FetchAccounting(ctx context.Context, batchID int64) (string, error) {
	return withRetry(ctx, "fetch_accounting", func(ctx context.Context) (string, error) {
		return runCommand(ctx, nil, a.AcctExe, "-j", strconv.FormatInt(batchID, 10), "-o", "ALL", "-P")
	})
}

// Submit submits scriptPath and returns the assigned batch job id,
// spec.md §4.3 submit. Only USER, HOME, PATH, and envOverrides are
// propagated to the child process — any inherited batch-scheduler
// environment (e.g. from a wrapping job context) is deliberately
// stripped.
func (a *Adaptor) Submit(ctx context.Context, scriptPath string, envOverrides map[string]string) (int64, error) {
	env := []string{
		"USER=" + os.Getenv("USER"),
		"HOME=" + os.Getenv("HOME"),
		"PATH=" + os.Getenv("PATH"),
	}
	for k, v := range envOverrides {
		env = append(env, k+"="+v)
	}
	return withRetry(ctx, "submit", func(ctx context.Context) (int64, error) {
		out, err := runCommand(ctx, env, a.SubmitExe, scriptPath)
		if err != nil {
			return 0, err
		}
		fields := strings.Fields(out)
		if len(fields) == 0 {
			return 0, fmt.Errorf("submit produced no output")
		}
		return strconv.ParseInt(fields[len(fields)-1], 10, 64)
	})
}

func runCommand(ctx context.Context, env []string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if env != nil {
		cmd.Env = env
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			ee.Stderr = stderr.Bytes()
			return "", ee
		}
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}
