package models

import "time"

type JobEvent struct {
	ID               string         `json:"id"`
	JobID            string         `json:"job_id"`
	Operation        string         `json:"operation"`
	Level            string         `json:"level,omitempty"`
	ResourceID       string         `json:"resource_id,omitempty"`
	State            string         `json:"state"`
	ErrorCode        int            `json:"error_code,omitempty"`
	ErrorDescription string         `json:"error_description,omitempty"`
	Content          map[string]any `json:"content,omitempty"`
	OccurredAt       time.Time      `json:"occurred_at"`
}
