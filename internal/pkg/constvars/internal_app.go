package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_SUBJECT_KEY              ContextKey = "subject"
)

const (
	REQUEST_ID_PREFIX = "ORTHANC_SVC_"
)

const (
	AppEnvDevelopment = "development"
	AppEnvProduction  = "production"
)

// Redis keyspace.
const (
	RedisKeyTrackedJobPrefix   = "orthanc:job:"
	RedisKeyTrackedJobSet      = "orthanc:jobs:tracked"
	RedisKeyResourceLockPrefix = "orthanc:lock:"
	RedisKeyJobWatcherLock     = "orthanc:job-watcher:lock"
	RedisKeyModalityLimiter    = "orthanc:modality-limiter:"
	RedisKeyArchiveRetention   = "orthanc:archive-retention:lock"
)

const (
	AuditActionAnonymize = "anonymize"
	AuditActionModify    = "modify"
	AuditActionArchive   = "archive"
	AuditActionDelete    = "delete"
	AuditActionRetrieve  = "retrieve"
	AuditActionLabel     = "label"
	AuditActionStore     = "store"
	AuditActionEcho      = "echo"
)

const (
	AuditOutcomeSubmitted = "submitted"
	AuditOutcomeSucceeded = "succeeded"
	AuditOutcomeFailed    = "failed"
)
