package responses

import "time"

type Resource struct {
	ID          string         `json:"id"`
	Level       string         `json:"level"`
	IsStable    *bool          `json:"is_stable,omitempty"`
	LastUpdate  *time.Time     `json:"last_update,omitempty"`
	Labels      []string       `json:"labels"`
	Information map[string]any `json:"information"`
}

type ResourceReference struct {
	ID    string `json:"id"`
	Level string `json:"level"`
}
