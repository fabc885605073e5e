// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package setupparser walks a calibration setup directory tree into
// the CalibrationSetup/Cell/Place shape of spec.md §3. Grounded on
// original_source/epihiper_setup_utils/.../calibration_setup_parser.py.
package setupparser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ParamRange is one calibratable parameter's bounds.
type ParamRange struct {
	Name string  `json:"name"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Place is a leaf run configuration directory, spec.md §3's place.
type Place struct {
	Name     string
	Priority int
}

// Cell is a parameter-range plus the places calibrated against it.
type Cell struct {
	Name         string
	ParamRanges  []ParamRange
	Places       []Place
}

// Setup is a parsed calibration setup tree.
type Setup struct {
	Name  string
	Cells []Cell
}

const defaultPriority = 1

// Parse walks dirPath and returns its CalibrationSetup shape.
func Parse(dirPath string) (Setup, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return Setup{}, fmt.Errorf("reading setup dir %s: %w", dirPath, err)
	}

	setup := Setup{Name: filepath.Base(dirPath)}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		cellPath := filepath.Join(dirPath, e.Name())
		if !isCalibrationCellDir(cellPath) {
			continue
		}
		cell, err := parseCell(cellPath)
		if err != nil {
			return Setup{}, err
		}
		setup.Cells = append(setup.Cells, cell)
	}
	sort.Slice(setup.Cells, func(i, j int) bool { return setup.Cells[i].Name < setup.Cells[j].Name })
	return setup, nil
}

func isCalibrationCellDir(p string) bool {
	return exists(filepath.Join(p, "range.json")) &&
		exists(filepath.Join(p, "objective")) &&
		exists(filepath.Join(p, "updateParameter"))
}

func isEpihiperConfigDir(p string) bool {
	return exists(filepath.Join(p, "traits")) &&
		exists(filepath.Join(p, "initialization")) &&
		exists(filepath.Join(p, "intervention")) &&
		exists(filepath.Join(p, "diseaseModel")) &&
		exists(filepath.Join(p, "runParameters.json"))
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func parseCell(cellPath string) (Cell, error) {
	cell := Cell{Name: filepath.Base(cellPath)}

	raw, err := os.ReadFile(filepath.Join(cellPath, "range.json"))
	if err != nil {
		return Cell{}, fmt.Errorf("reading range.json for cell %s: %w", cell.Name, err)
	}
	var ranges struct {
		Parameters []ParamRange `json:"parameters"`
	}
	if err := json.Unmarshal(raw, &ranges); err != nil {
		return Cell{}, fmt.Errorf("parsing range.json for cell %s: %w", cell.Name, err)
	}
	cell.ParamRanges = ranges.Parameters

	entries, err := os.ReadDir(cellPath)
	if err != nil {
		return Cell{}, fmt.Errorf("reading cell dir %s: %w", cellPath, err)
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
