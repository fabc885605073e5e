// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package taskqueue is the controller's durable ordered task store of
// spec.md §3/§4.1: tasks keyed by id, tracking state, priority,
// assignment metadata, and result payload.
package taskqueue

import (
	"errors"
	"time"

	"github.com/vanavreddy/mackenzie/internal/errs"
	"github.com/vanavreddy/mackenzie/internal/store"
	"gorm.io/gorm"
)

// State is a task's lifecycle state, spec.md §3.
type State string

const (
	Available State = "available"
	Assigned  State = "assigned"
	Completed State = "completed"
	Failed    State = "failed"
	Processed State = "processed"
)

// Task is the persisted row. AssignedTo/AssignedAt/Result are pointers
// so nil maps cleanly onto spec.md §3's "non-null iff" invariants.
type Task struct {
	ID         string `gorm:"primaryKey"`
	Type       string `gorm:"not null"`
	Data       string `gorm:"not null"` // opaque JSON
	Priority   int    `gorm:"not null;index"`
	State      State  `gorm:"not null;index"`
	AssignedTo *string
	AssignedAt *int64
	Result     *string

	// Seq breaks ties in priority order by insertion order, spec.md §3
	// ("ties broken by insertion order").
	Seq uint `gorm:"autoIncrement"`
}

func (Task) TableName() string { return "tasks" }

// Store is the task queue.
type Store struct {
	db *store.DB
}

// Open opens (or creates) the task table in the database at path.
func Open(path string) (*Store, error) {
	db, err := store.Open(path, &Task{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// AddNew inserts a new task in the available state. A duplicate id is
// a conflict error that task sources may catch and ignore, per
// spec.md §4.1 add_new_task and §9 Open Questions.
func (s *Store) AddNew(id, typ, data string, priority int) error {
	return s.db.Write(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Task{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errs.NewConflict("task " + id + " already exists")
		}
		return tx.Create(&Task{ID: id, Type: typ, Data: data, Priority: priority, State: Available}).Error
	})
}

// AvailableTask is what get_single_available_task returns.
type AvailableTask struct {
	ID       string
	Type     string
	Data     string
	Priority int
}

// ReclaimTimedOut resets every assigned task whose lease (assigned_at)
// is older than timeout back to available, per spec.md §4.1
// ("reclaim any task whose state=assigned and assigned_at < now -
// task_timeout"). Returns the reclaimed ids for logging.
func (s *Store) ReclaimTimedOut(now time.Time, timeout time.Duration) ([]string, error) {
	deadline := now.Add(-timeout).Unix()
	var ids []string
	err := s.db.Write(func(tx *gorm.DB) error {
		var rows []Task
		if err := tx.Where("state = ? AND assigned_at < ?", Assigned, deadline).Find(&rows).Error; err != nil {
			return err
		}
		for _, r := range rows {
			ids = append(ids, r.ID)
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Model(&Task{}).
			Where("state = ? AND assigned_at < ?", Assigned, deadline).
			Updates(map[string]any{"state": Available, "assigned_to": nil, "assigned_at": nil}).Error
	})
	return ids, err
}

// GetSingleAvailable reclaims timed-out leases, then assigns the
// highest-priority available task (ties by insertion order) to
// cluster. Returns (nil, nil) if none is available.
func (s *Store) GetSingleAvailable(cluster string, now time.Time, taskTimeout time.Duration) (*AvailableTask, error) {
	if _, err := s.ReclaimTimedOut(now, taskTimeout); err != nil {
		return nil, err
	}
	var out *AvailableTask
	err := s.db.Write(func(tx *gorm.DB) error {
		var row Task
		err := tx.Where("state = ?", Available).
			Order("priority desc, seq asc").
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		assignedAt := now.Unix()
		if err := tx.Model(&Task{}).Where("id = ?", row.ID).Updates(map[string]any{
			"state":       Assigned,
			"assigned_to": cluster,
			"assigned_at": assignedAt,
		}).Error; err != nil {
			return err
		}
		out = &AvailableTask{ID: row.ID, Type: row.Type, Data: row.Data, Priority: row.Priority}
		return nil
	})
	return out, err
}

// SetCompleted transitions a task to completed with a result,
// regardless of its current state (spec.md §4.1: "the controller
// accepts the late completion... double-completion [is] a no-op").
func (s *Store) SetCompleted(id, resultJSON string) error {
	return s.db.Write(func(tx *gorm.DB) error {
		return tx.Model(&Task{}).Where("id = ?", id).Updates(map[string]any{
			"state":  Completed,
			"result": resultJSON,
		}).Error
	})
}

// SetFailed transitions a task to failed.
func (s *Store) SetFailed(id string) error {
	return s.db.Write(func(tx *gorm.DB) error {
		return tx.Model(&Task{}).Where("id = ?", id).Update("state", Failed).Error
	})
}

// SetProcessed acks a completed task so it stops being returned by
// AllCompleted (spec.md §4.1 set_task_processed).
func (s *Store) SetProcessed(id string) error {
	return s.db.Write(func(tx *gorm.DB) error {
		return tx.Model(&Task{}).Where("id = ? AND state = ?", id, Completed).Update("state", Processed).Error
	})
}

// CompletedTask is a drain-able completion record.
type CompletedTask struct {
	ID     string
	Type   string
	Data   string
	Result string
}

// CountByState reports how many tasks currently sit in state, for the
// controller's task_queue_depth gauge.
func (s *Store) CountByState(state State) (int64, error) {
	var count int64
	err := s.db.Model(&Task{}).Where("state = ?", state).Count(&count).Error
	return count, err
}

// AllCompleted lists every task still in the completed state, for
// task sources to drain via get_all_completed_tasks.
func (s *Store) AllCompleted() ([]CompletedTask, error) {
	var rows []Task
	if err := s.db.Where("state = ?", Completed).Order("seq asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]CompletedTask, 0, len(rows))
	for _, r := range rows {
		result := ""
		if r.Result != nil {
			result = *r.Result
		}
		out = append(out, CompletedTask{ID: r.ID, Type: r.Type, Data: r.Data, Result: result})
	}
	return out, nil
}
