package model

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusCanceled  JobStatus = "canceled"
	// JobStatusFailed means the job's records could not be loaded; nothing
	// was resolved.
	JobStatusFailed JobStatus = "failed"
)

func (s JobStatus) Finished() bool {
	return s == JobStatusCompleted || s == JobStatusCanceled || s == JobStatusFailed
}

type Job struct {
	ID         uuid.UUID  `json:"id"`
	Status     JobStatus  `json:"status"`
	Total      int        `json:"total"`
	Processed  int        `json:"processed"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	Dropped    int        `json:"dropped"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type JobProgress struct {
	JobID     uuid.UUID `json:"job_id"`
	Status    JobStatus `json:"status"`
	Total     int       `json:"total"`
	Processed int       `json:"processed"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Percent   int       `json:"percent"`
}

func (j Job) Progress() JobProgress {
	percent := 0
	if j.Total > 0 {
		percent = j.Processed * 100 / j.Total
	}
	return JobProgress{
		JobID:     j.ID,
		Status:    j.Status,
		Total:     j.Total,
		Processed: j.Processed,
		Succeeded: j.Succeeded,
		Failed:    j.Failed,
		Percent:   percent,
	}
}
