package constvars

import "time"

// Orthanc REST collections. The first four double as resource level names.
const (
	OrthancPathPatients   = "patients"
	OrthancPathStudies    = "studies"
	OrthancPathSeries     = "series"
	OrthancPathInstances  = "instances"
	OrthancPathJobs       = "jobs"
	OrthancPathQueries    = "queries"
	OrthancPathModalities = "modalities"
	OrthancPathTools      = "tools"
)

const (
	OrthancActionAnonymize     = "anonymize"
	OrthancActionModify        = "modify"
	OrthancActionArchive       = "archive"
	OrthancActionLabels        = "labels"
	OrthancActionProtected     = "protected"
	OrthancActionModule        = "module"
	OrthancActionOrderedSlices = "ordered-slices"
	OrthancActionFile          = "file"
	OrthancActionTags          = "tags"
	OrthancActionSimplified    = "simplified-tags"
	OrthancActionContent       = "content"
	OrthancActionPreview       = "preview"
	OrthancActionAnswers       = "answers"
	OrthancActionRetrieve      = "retrieve"
	OrthancActionQuery         = "query"
	OrthancActionEcho          = "echo"
	OrthancActionStore         = "store"
	OrthancActionCancel        = "cancel"
	OrthancActionPause         = "pause"
	OrthancActionResume        = "resume"
	OrthancActionResubmit      = "resubmit"
	OrthancActionFind          = "find"
)

// Keys of the main information documents returned by Orthanc.
const (
	OrthancKeyID                        = "ID"
	OrthancKeyPath                      = "Path"
	OrthancKeyType                      = "Type"
	OrthancKeyMainDicomTags             = "MainDicomTags"
	OrthancKeyPatientMainDicomTags      = "PatientMainDicomTags"
	OrthancKeyStudies                   = "Studies"
	OrthancKeySeries                    = "Series"
	OrthancKeyInstances                 = "Instances"
	OrthancKeyParentPatient             = "ParentPatient"
	OrthancKeyParentStudy               = "ParentStudy"
	OrthancKeyParentSeries              = "ParentSeries"
	OrthancKeyIsStable                  = "IsStable"
	OrthancKeyLastUpdate                = "LastUpdate"
	OrthancKeyLabels                    = "Labels"
	OrthancKeyFileSize                  = "FileSize"
	OrthancKeyIndexInSeries             = "IndexInSeries"
	OrthancKeyExpectedNumberOfInstances = "ExpectedNumberOfInstances"
	OrthancKeySlicesShort               = "SlicesShort"
)

// Orthanc job states.
const (
	OrthancJobStatePending = "Pending"
	OrthancJobStateRunning = "Running"
	OrthancJobStateSuccess = "Success"
	OrthancJobStateFailure = "Failure"
	OrthancJobStatePaused  = "Paused"
	OrthancJobStateRetry   = "Retry"
)

const (
	OrthancDefaultJobPollInterval = 2 * time.Second
	OrthancDefaultJobWaitTimeout  = time.Hour
	OrthancDefaultRequestTimeout  = 60 * time.Second
)
