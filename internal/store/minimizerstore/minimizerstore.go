// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package minimizerstore is the task source's durable record of each
// optimizer instance, spec.md §3/§4.6: opaque state plus the context
// the task source uses to re-create tasks for that minimizer.
package minimizerstore

import (
	"errors"

	"github.com/vanavreddy/mackenzie/internal/store"
	"gorm.io/gorm"
)

// Type selects which adaptor parses Minimizer.State.
type Type string

const (
	ConvexScalar Type = "csm"
	Bayesian     Type = "bayes"
)

// Minimizer is the persisted row. MinID is {run}:{setup}:{cell}:{place}.
type Minimizer struct {
	MinID   string `gorm:"primaryKey"`
	Type    Type   `gorm:"not null"`
	State   string `gorm:"not null"` // opaque JSON
	Context string `gorm:"not null"` // opaque JSON
}

func (Minimizer) TableName() string { return "minimizers" }

// Store is the minimizer store.
type Store struct {
	db *store.DB
}

// Open opens (or creates) the minimizer table in the database at path.
func Open(path string) (*Store, error) {
	db, err := store.Open(path, &Minimizer{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Create inserts a new minimizer record if minID is not already
// present; it is a no-op otherwise, matching spec.md §4.6's
// "create a minimizer instance ... if not already present".
func (s *Store) Create(minID string, typ Type, state, context string) error {
	return s.db.Write(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Minimizer{}).Where("min_id = ?", minID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return tx.Create(&Minimizer{MinID: minID, Type: typ, State: state, Context: context}).Error
	})
}

// Get loads a minimizer by id, or (nil, nil) if absent.
func (s *Store) Get(minID string) (*Minimizer, error) {
	var row Minimizer
	err := s.db.First(&row, "min_id = ?", minID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// SaveState persists minimizer state after every mutation, per
// spec.md §4.6 ("persist minimizer state after every mutation").
func (s *Store) SaveState(minID, state string) error {
	return s.db.Write(func(tx *gorm.DB) error {
		return tx.Model(&Minimizer{}).Where("min_id = ?", minID).Update("state", state).Error
	})
}

// All lists every known minimizer, for status.csv emission.
func (s *Store) All() ([]Minimizer, error) {
	var rows []Minimizer
	err := s.db.Order("min_id asc").Find(&rows).Error
	return rows, err
}

// ByType lists every known minimizer of the given type.
func (s *Store) ByType(typ Type) ([]Minimizer, error) {
	var rows []Minimizer
	err := s.db.Where("type = ?", typ).Order("min_id asc").Find(&rows).Error
	return rows, err
}
