package models

// AuditEvent records one mutating operation issued through the gateway.
type AuditEvent struct {
	ID         string         `json:"id" bson:"_id,omitempty"`
	Action     string         `json:"action" bson:"action"`
	Level      string         `json:"level,omitempty" bson:"level,omitempty"`
	ResourceID string         `json:"resourceId,omitempty" bson:"resourceId,omitempty"`
	JobID      string         `json:"jobId,omitempty" bson:"jobId,omitempty"`
	Subject    string         `json:"subject,omitempty" bson:"subject,omitempty"`
	RequestID  string         `json:"requestId,omitempty" bson:"requestId,omitempty"`
	Outcome    string         `json:"outcome" bson:"outcome"`
	Details    map[string]any `json:"details,omitempty" bson:"details,omitempty"`
	TimeModel  `bson:",inline"`
}
