package responses

import "time"

type AuditEvent struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	JobID     string         `json:"job_id,omitempty"`
	Subject   string         `json:"subject,omitempty"`
	Outcome   string         `json:"outcome"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
