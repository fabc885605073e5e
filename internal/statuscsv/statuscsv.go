// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package statuscsv writes the task sources' status.csv, spec.md
// §4.6/SPEC_FULL.md §C.2: one row per minimizer, overwritten every
// loop iteration so a reader always sees the latest snapshot.
package statuscsv

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/vanavreddy/mackenzie/internal/tasksource/bayes"
	"github.com/vanavreddy/mackenzie/internal/tasksource/csm"
)

// pointJSON encodes a point as a JSON float array, or "" for a nil/empty
// point (no best-seen/best-predicted value yet). The post-optimizer task
// source reads this column back via json.Unmarshal.
func pointJSON(x []float64) (string, error) {
	if len(x) == 0 {
		return "", nil
	}
	b, err := json.Marshal(x)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func writeAtomic(path string, write func(w *csv.Writer) error) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmp, err)
	}
	w := csv.NewWriter(f)
	if err := write(w); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// WriteCSM overwrites path with the convex-scalar task source's status
// rows.
func WriteCSM(path string, rows []csm.StatusRow) error {
	return writeAtomic(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"run", "setup", "cell", "place", "best_x", "best_param", "best_y", "n_evals", "state"}); err != nil {
			return err
		}
		for _, r := range rows {
			if err := w.Write([]string{
				r.Run, r.Setup, r.Cell, r.Place,
				strconv.FormatFloat(r.BestX, 'g', -1, 64),
				strconv.FormatFloat(r.BestParam, 'g', -1, 64),
				strconv.FormatFloat(r.BestY, 'g', -1, 64),
				strconv.Itoa(r.NEvals),
				r.State,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteBayes overwrites path with the Bayesian task source's status
// rows.
func WriteBayes(path string, rows []bayes.StatusRow) error {
	return writeAtomic(path, func(w *csv.Writer) error {
		if err := w.Write([]string{
			"run", "setup", "cell", "place",
			"best_seen_x", "best_seen_params", "best_seen_y",
			"best_pred_x", "best_pred_params", "best_pred_y",
			"points_probed", "points_seen", "state",
		}); err != nil {
			return err
		}
		for _, r := range rows {
			bestSeenX, err := pointJSON(r.BestSeenX)
			if err != nil {
				return fmt.Errorf("encoding best_seen_x for %s/%s/%s: %w", r.Setup, r.Cell, r.Place, err)
			}
			bestPredX, err := pointJSON(r.BestPredX)
			if err != nil {
				return fmt.Errorf("encoding best_pred_x for %s/%s/%s: %w", r.Setup, r.Cell, r.Place, err)
			}
			if err := w.Write([]string{
				r.Run, r.Setup, r.Cell, r.Place,
				bestSeenX, r.BestSeenParams, strconv.FormatFloat(r.BestSeenY, 'g', -1, 64),
				bestPredX, r.BestPredParams, strconv.FormatFloat(r.BestPredY, 'g', -1, 64),
				strconv.Itoa(r.PointsProbed), strconv.Itoa(r.PointsSeen),
				r.State,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
