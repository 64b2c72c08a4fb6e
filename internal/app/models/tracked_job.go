package models

import "time"

// TrackedJob is a job submitted through the gateway whose progress is kept in
// redis so it can be re-attached after a restart.
type TrackedJob struct {
	JobID            string         `json:"job_id"`
	Operation        string         `json:"operation"`
	Level            string         `json:"level,omitempty"`
	ResourceID       string         `json:"resource_id,omitempty"`
	LockKey          string         `json:"lock_key,omitempty"`
	LockValue        string         `json:"lock_value,omitempty"`
	State            string         `json:"state"`
	Subject          string         `json:"subject,omitempty"`
	RequestID        string         `json:"request_id,omitempty"`
	ErrorCode        int            `json:"error_code,omitempty"`
	ErrorDescription string         `json:"error_description,omitempty"`
	Content          map[string]any `json:"content,omitempty"`
	SubmittedAt      time.Time      `json:"submitted_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
}
