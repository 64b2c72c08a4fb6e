package constvars

const (
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	ResourcesListedSuccess    = "resources listed successfully"
	ResourceFoundSuccess      = "resource retrieved successfully"
	ResourceDeletedSuccess    = "resource deleted successfully"
	ChildrenListedSuccess     = "child resources listed successfully"
	LabelsListedSuccess       = "labels listed successfully"
	LabelAddedSuccess         = "label added successfully"
	LabelRemovedSuccess       = "label removed successfully"
	JobSubmittedSuccess       = "job submitted successfully"
	JobFoundSuccess           = "job retrieved successfully"
	JobTransitionSuccess      = "job state transition requested successfully"
	JobCompletedSuccess       = "job completed successfully"
	QueryCreatedSuccess       = "modality query created successfully"
	QueryAnswersListedSuccess = "query answers listed successfully"
	QueryAnswerFoundSuccess   = "query answer retrieved successfully"
	ArchiveExportedSuccess    = "archive exported successfully"
	AuditTrailFoundSuccess    = "audit trail retrieved successfully"
	ModalitiesListedSuccess   = "modalities listed successfully"
	ModalityEchoSuccess       = "modality answered the echo request"
	JobsListedSuccess         = "jobs listed successfully"
)
