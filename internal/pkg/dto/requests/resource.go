package requests

// AnonymizeResource is the body of POST /{level}/{resource_id}/anonymize.
type AnonymizeResource struct {
	Remove          []string          `json:"remove" validate:"omitempty,dive,required"`
	Replace         map[string]string `json:"replace"`
	Keep            []string          `json:"keep" validate:"omitempty,dive,required"`
	Force           bool              `json:"force"`
	KeepPrivateTags bool              `json:"keep_private_tags"`
	// KeepSource defaults to true when omitted.
	KeepSource   *bool  `json:"keep_source"`
	Priority     int    `json:"priority" validate:"gte=0"`
	Permissive   bool   `json:"permissive"`
	DicomVersion string `json:"dicom_version"`
}

// ModifyResource is the body of POST /{level}/{resource_id}/modify.
type ModifyResource struct {
	Replace           map[string]string `json:"replace" validate:"required_without=Remove"`
	Remove            []string          `json:"remove" validate:"omitempty,dive,required"`
	Keep              []string          `json:"keep" validate:"omitempty,dive,required"`
	Force             bool              `json:"force"`
	RemovePrivateTags bool              `json:"remove_private_tags"`
	KeepSource        *bool             `json:"keep_source"`
	Priority          int               `json:"priority" validate:"gte=0"`
	Permissive        bool              `json:"permissive"`
	Transcode         string            `json:"transcode"`
}

type FindResources struct {
	Level         string            `json:"level" validate:"required,dicom_level"`
	Query         map[string]string `json:"query"`
	CaseSensitive bool              `json:"case_sensitive"`
	Limit         int               `json:"limit" validate:"gte=0"`
	Since         int               `json:"since" validate:"gte=0"`
	Labels        []string          `json:"labels"`
	// LabelsConstraint is one of All, Any or None.
	LabelsConstraint string `json:"labels_constraint" validate:"omitempty,oneof=All Any None"`
}

type ResourceParams struct {
	Level      string `validate:"required,dicom_level"`
	ResourceID string `validate:"required,orthanc_id"`
}

type LabelParams struct {
	ResourceParams
	Label string `validate:"required,max=64,excludesrune=/"`
}
