package models

import (
	"fmt"

	"gorm.io/gorm"
)

// JobCreatedAtField is the database field name for the job creation timestamp
const JobCreatedAtField = "created_at"

// JobStatus represents the current state of a scrape job
type JobStatus string

// Job status constants
const (
	// JobStatusQueued indicates the job is waiting for its first slice
	JobStatusQueued JobStatus = "queued"
	// JobStatusProcessing indicates the job has more work and should be re-invoked
	JobStatusProcessing JobStatus = "processing"
	// JobStatusPaused indicates the job cannot proceed until a credential becomes eligible again
	JobStatusPaused JobStatus = "paused"
	// JobStatusCompleted indicates the job reached its target result count
	JobStatusCompleted JobStatus = "completed"
	// JobStatusCancelled indicates the job was stopped by the user
	JobStatusCancelled JobStatus = "cancelled"
)

// RunnableStatuses are the statuses from which the engine may pick up a job,
// in no particular order. Queued and paused are both re-entrant starting
// points; processing means a prior slice ran out of budget mid-job.
var RunnableStatuses = []JobStatus{JobStatusQueued, JobStatusProcessing, JobStatusPaused}

// ParseJobStatus converts a string representation of a job status to JobStatus type
func ParseJobStatus(str string) (JobStatus, error) {
	switch JobStatus(str) {
	case JobStatusQueued, JobStatusProcessing, JobStatusPaused, JobStatusCompleted, JobStatusCancelled:
		return JobStatus(str), nil
	}
	return "", fmt.Errorf("invalid job status: %s", str)
}

// Terminal reports whether the status can never change again.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// ScrapeJob represents one user-initiated scrape request. All resumption
// state lives on this row: CityIndex is the coarse cursor into the planned
// location sequence and PageToken the fine cursor within the current city.
type ScrapeJob struct {
	gorm.Model
	SearchTerm string    `json:"search_term" gorm:"not null"`
	Location   string    `json:"location" gorm:"not null;index"`
	Limit      int       `json:"limit" gorm:"column:result_limit;not null"`
	Status     JobStatus `json:"status" gorm:"index"`
	FoundCount int       `json:"found_count" gorm:"not null;default:0"`
	CityIndex  int       `json:"city_index" gorm:"not null;default:0"`
	PageToken  string    `json:"page_token,omitempty"`
}

// Runnable reports whether the engine may pick this job up.
func (j *ScrapeJob) Runnable() bool {
	return !j.Status.Terminal()
}
