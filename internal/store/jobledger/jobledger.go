// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package jobledger is the agent-side mirror of a task in flight,
// spec.md §3/§4.2: the five-state job lifecycle plus the batch-job
// submission records.
//
// The original job ledger's completion update used a SQL statement of
// the shape `SET job_state = 'completed' AND job_result = ?`, which
// only ever updated job_state (spec.md §9 Open Questions flags this as
// a bug whose intent is "set both"). SetCompleted here uses a proper
// two-column SET list.
package jobledger

import (
	"errors"

	"github.com/vanavreddy/mackenzie/internal/store"
	"gorm.io/gorm"
)

// State is a job's lifecycle state, spec.md §3.
type State string

const (
	Ready     State = "ready"
	Running   State = "running"
	Failed    State = "failed"
	Completed State = "completed"
	Aborted   State = "aborted"
	Processed State = "processed"
)

// Job is the persisted agent-side job row.
type Job struct {
	JobID            string `gorm:"primaryKey"` // == task id
	Type             string `gorm:"not null"`
	Data             string `gorm:"not null"`
	Priority         int    `gorm:"not null;index"`
	SbatchScriptPath string
	Load             int `gorm:"not null"`
	MaxFails         int `gorm:"not null"`
	Result           *string
	BatchJobID       *int64
	State            State `gorm:"not null;index"`
	FailureCount     int   `gorm:"not null"`

	Seq uint `gorm:"autoIncrement"`
}

func (Job) TableName() string { return "jobs" }

// BatchJob is one submission attempt of a Job, many-to-one with Job.
type BatchJob struct {
	BatchJobID     int64 `gorm:"primaryKey;autoIncrement:false"`
	JobID          string `gorm:"not null;index"`
	StartTime      int64  `gorm:"not null"`
	EndTime        *int64
	AccountingBlob *string
}

func (BatchJob) TableName() string { return "batch_jobs" }

// Store is the job ledger.
type Store struct {
	db *store.DB
}

// Open opens (or creates) the job and batch_job tables in the database
// at path.
func Open(path string) (*Store, error) {
	db, err := store.Open(path, &Job{}, &BatchJob{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Insert creates a new job in the ready state with failure_count=0,
// spec.md §4.2 "process new".
func (s *Store) Insert(j Job) error {
	j.State = Ready
	j.FailureCount = 0
	return s.db.Write(func(tx *gorm.DB) error { return tx.Create(&j).Error })
}

// Get loads a job by id.
func (s *Store) Get(jobID string) (*Job, error) {
	var row Job
	err := s.db.First(&row, "job_id = ?", jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ByState lists every job in the given state, ordered by priority
// descending then load descending then id ascending — the order
// spec.md §4.2 "process ready" submits in.
func (s *Store) ByState(state State) ([]Job, error) {
	var rows []Job
	err := s.db.Where("state = ?", state).
		Order("priority desc, load desc, job_id asc").
		Find(&rows).Error
	return rows, err
}

// SetRunning transitions a job to running and records its batch id.
func (s *Store) SetRunning(jobID string, batchJobID int64) error {
	return s.db.Write(func(tx *gorm.DB) error {
		return tx.Model(&Job{}).Where("job_id = ?", jobID).Updates(map[string]any{
			"state":        Running,
			"batch_job_id": batchJobID,
		}).Error
	})
}

// SetCompleted transitions a job to completed and records its result
// in one statement — the fixed form of the original's job_state/AND
// bug.
func (s *Store) SetCompleted(jobID, resultJSON string) error {
	return s.db.Write(func(tx *gorm.DB) error {
		return tx.Model(&Job{}).Where("job_id = ?", jobID).Updates(map[string]any{
			"state":  Completed,
			"result": resultJSON,
		}).Error
	})
}

// SetFailed transitions a job to failed and increments its failure
// count (spec.md §4.2 "process running": "otherwise mark failed").
func (s *Store) SetFailed(jobID string) error {
	return s.db.Write(func(tx *gorm.DB) error {
		return tx.Model(&Job{}).Where("job_id = ?", jobID).Updates(map[string]any{
			"state":         Failed,
			"failure_count": gorm.Expr("failure_count + 1"),
		}).Error
	})
}

// SetReady transitions a failed job back to ready after its setup
// handler re-ran (spec.md §4.2 "process failed").
func (s *Store) SetReady(jobID, scriptPath string, load int) error {
	return s.db.Write(func(tx *gorm.DB) error {
		return tx.Model(&Job{}).Where("job_id = ?", jobID).Updates(map[string]any{
			"state":              Ready,
			"sbatch_script_path": scriptPath,
			"load":               load,
		}).Error
	})
}

// SetAborted transitions a failed job whose failure budget is
// exhausted to aborted.
func (s *Store) SetAborted(jobID string) error {
	return s.db.Write(func(tx *gorm.DB) error {
		return tx.Model(&Job{}).Where("job_id = ?", jobID).Update("state", Aborted).Error
	})
}

// SetProcessed acks a completed job so it is not re-drained.
func (s *Store) SetProcessed(jobID string) error {
	return s.db.Write(func(tx *gorm.DB) error {
		return tx.Model(&Job{}).Where("job_id = ?", jobID).Update("state", Processed).Error
	})
}

// LoadSum sums job.load over the given states — the two load
// definitions of spec.md §4.2: live_load over
// {ready,running,failed} and running_load over {running}.
func (s *Store) LoadSum(states ...State) (int, error) {
	var total int64
	err := s.db.Model(&Job{}).Where("state IN ?", states).
		Select("COALESCE(SUM(load), 0)").Row().Scan(&total)
	return int(total), err
}

// AddBatchJob records a new submission attempt.
func (s *Store) AddBatchJob(b BatchJob) error {
	return s.db.Write(func(tx *gorm.DB) error { return tx.Create(&b).Error })
}

// SetBatchJobCompletionInfo fills in end_time and the accounting blob
// once a batch job has left the scheduler's running set.
func (s *Store) SetBatchJobCompletionInfo(batchJobID, endTime int64, accounting string) error {
	return s.db.Write(func(tx *gorm.DB) error {
		return tx.Model(&BatchJob{}).Where("batch_job_id = ?", batchJobID).Updates(map[string]any{
			"end_time":        endTime,
			"accounting_blob": accounting,
		}).Error
	})
}
