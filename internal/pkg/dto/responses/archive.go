package responses

import "time"

type Archive struct {
	Level      string    `json:"level"`
	ResourceID string    `json:"resource_id"`
	BucketName string    `json:"bucket_name"`
	ObjectName string    `json:"object_name"`
	Size       int       `json:"size"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expires_at"`
}
