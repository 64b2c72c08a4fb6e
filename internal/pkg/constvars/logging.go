package constvars

const (
	LoggingRequestIDKey       = "request_id"
	LoggingMethodKey          = "method"
	LoggingEndpointKey        = "endpoint"
	LoggingRemoteAddrKey      = "remote_addr"
	LoggingUserAgentKey       = "user_agent"
	LoggingQueryKey           = "query"
	LoggingStatusCodeKey      = "status_code"
	LoggingDurationKey        = "duration"
	LoggingSuccessKey         = "success"
	LoggingErrorTypeKey       = "error_type"
	LoggingPathKey            = "path"
	LoggingContentTypeKey     = "content_type"
	LoggingResponseLenKey     = "response_length"
	LoggingResourceIDKey      = "resource_id"
	LoggingResourceLevelKey   = "resource_level"
	LoggingJobIDKey           = "job_id"
	LoggingJobStateKey        = "job_state"
	LoggingJobCountKey        = "job_count"
	LoggingQueryIDKey         = "query_id"
	LoggingModalityKey        = "modality"
	LoggingAnswerIndexKey     = "answer_index"
	LoggingRedisKey           = "redis_key"
	LoggingLockValueKey       = "lock_value"
	LoggingBucketNameKey      = "bucket_name"
	LoggingObjectNameKey      = "object_name"
	LoggingQueueNameKey       = "queue_name"
	LoggingAuditIDKey         = "audit_id"
	LoggingOperationKey       = "operation"
	LoggingErrorCodeKey       = "error_code"
	LoggingErrorMessageKey    = "error_message"
	LoggingLockExpirationKey  = "lock_expiration"
	LoggingLockStoredValueKey = "lock_stored_value"
	LoggingSubjectKey         = "subject"
	LoggingFetchedCountKey    = "fetched_count"
)
