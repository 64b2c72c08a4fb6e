package responses

import "time"

type Job struct {
	ID               string         `json:"id"`
	State            string         `json:"state"`
	Operation        string         `json:"operation,omitempty"`
	Level            string         `json:"level,omitempty"`
	ResourceID       string         `json:"resource_id,omitempty"`
	Tracked          bool           `json:"tracked"`
	ErrorCode        int            `json:"error_code,omitempty"`
	ErrorDescription string         `json:"error_description,omitempty"`
	Content          map[string]any `json:"content,omitempty"`
	SubmittedAt      *time.Time     `json:"submitted_at,omitempty"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
}
