// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package setupstore is the content-addressed setup catalog of
// spec.md §3/§4.1: one row per setup name bound to the SHA-256 of its
// tar bytes, immutable once written.
package setupstore

import (
	"errors"

	"github.com/vanavreddy/mackenzie/internal/errs"
	"github.com/vanavreddy/mackenzie/internal/store"
	"gorm.io/gorm"
)

// Setup is the persisted catalog row.
type Setup struct {
	Name    string `gorm:"primaryKey"`
	TarHash string `gorm:"not null"`
}

func (Setup) TableName() string { return "setups" }

// Store is the setup catalog.
type Store struct {
	db *store.DB
}

// Open opens (or creates) the setup table in the database at path.
func Open(path string) (*Store, error) {
	db, err := store.Open(path, &Setup{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Upsert inserts (name, hash) if absent. If name already exists with a
// different hash, it returns an errs.Conflict error; if it exists with
// the same hash, the call is a silent no-op — the idempotence spec.md
// §4.1 add_setup requires.
func (s *Store) Upsert(name, hash string) error {
	return s.db.Write(func(tx *gorm.DB) error {
		var existing Setup
		err := tx.First(&existing, "name = ?", name).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&Setup{Name: name, TarHash: hash}).Error
		case err != nil:
			return err
		case existing.TarHash != hash:
			return errs.NewConflict("setup " + name + " already bound to a different tar hash")
		default:
			return nil
		}
	})
}

// Hash returns the recorded hash for name, or ("", errs.NotFound).
func (s *Store) Hash(name string) (string, error) {
	var row Setup
	err := s.db.First(&row, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errs.NewNotFound("setup " + name + " not found")
	}
	if err != nil {
		return "", err
	}
	return row.TarHash, nil
}

// Names returns every known setup name.
func (s *Store) Names() ([]string, error) {
	var rows []Setup
	if err := s.db.Order("name asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	return names, nil
}

// Has reports whether name is already in the catalog.
func (s *Store) Has(name string) (bool, error) {
	var count int64
	if err := s.db.Model(&Setup{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
