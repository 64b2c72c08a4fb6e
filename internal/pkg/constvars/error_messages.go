package constvars

// Validation messages for users, map it with respective tag field
var CustomValidationErrorMessages = map[string]string{
	"required":         "is required",
	"alphanum":         "must contain only alphanumeric characters",
	"min":              "must be at least %s",
	"max":              "maximum at %s",
	"gt":               "must be greater than %s",
	"gte":              "must be greater than or equal to %s",
	"lt":               "must be less than %s",
	"lte":              "must be less than or equal to %s",
	"oneof":            "must be one of the following: %s",
	"dicom_level":      "must be one of the following: patients, studies, series, instances",
	"job_action":       "must be one of the following: cancel, pause, resume, resubmit",
	"orthanc_id":       "must be a valid orthanc identifier",
	"excludesrune":     "must not contain %s",
	"required_with":    "is required when %s is present",
	"required_without": "is required when %s is missing",
}

// Tags that carry a parameter which has to be rendered into the message
var TagsWithParams = map[string]bool{
	"min":              true,
	"max":              true,
	"gt":               true,
	"gte":              true,
	"lt":               true,
	"lte":              true,
	"oneof":            true,
	"excludesrune":     true,
	"required_with":    true,
	"required_without": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientNotLoggedIn                   = "your session ended, please login again"
	ErrClientResourceNotFound              = "the requested imaging resource does not exist"
	ErrClientImagingServerUnavailable      = "the imaging server could not be reached"
	ErrClientImagingServerLongRespond      = "the imaging server is taking too long, submit the operation as a job instead"
	ErrClientResourceBusy                  = "the resource is being processed by another operation, try again later"
	ErrClientJobFailed                     = "the imaging job has failed"
	ErrClientJobInvalidState               = "the imaging job cannot perform this action in its current state"
	ErrClientJobTimeout                    = "the imaging job did not complete in time"
	ErrClientTagDoesNotExist               = "the requested DICOM tag does not exist on this resource"
	ErrClientModalityRateLimited           = "too many requests to this modality, try again in %d seconds"
)

// Error messages for developers
const (
	ErrDevInvalidInput           = "invalid input"
	ErrDevCannotParseJSON        = "cannot parse JSON into struct or other data types"
	ErrDevCannotMarshalJSON      = "cannot convert struct or other data types to JSON"
	ErrDevCannotParseTime        = "cannot parse time into the given format"
	ErrDevInvalidFormat          = "invalid %s format"
	ErrDevBuildRequest           = "encountering error while building request DTO"
	ErrDevCreateHTTPRequest      = "failed to create HTTP request"
	ErrDevSendHTTPRequest        = "failed to send HTTP request"
	ErrDevValidationFailed       = "validation failed"
	ErrDevURLParamValidation     = "parameter %s validation failed"
	ErrDevUnsupportedLevel       = "unsupported resource level %s"
	ErrDevUnsupportedJobAction   = "unsupported job action %s"
	ErrDevAnswerIndexOutOfBounds = "answer index %d is out of bounds"
	ErrDevMissingRequestID       = "request ID not found in context"

	// Orthanc messages
	ErrDevOrthancRequest          = "request to orthanc %s %s failed"
	ErrDevOrthancStatus           = "orthanc %s %s responded with status %d"
	ErrDevOrthancDecodeResponse   = "failed to decode orthanc response from %s"
	ErrDevOrthancResourceNotFound = "orthanc resource %s does not exist"
	ErrDevOrthancTagDoesNotExist  = "tag %s does not exist on resource %s"
	ErrDevOrthancJobFailed        = "orthanc job %s failed"
	ErrDevOrthancJobInvalidState  = "orthanc job %s cannot %s"
	ErrDevOrthancJobTimeout       = "orthanc job %s did not complete within %s"
	ErrDevOrthancReadTimeout      = "orthanc read timeout"

	// Authentication messages
	ErrDevAuthSigningMethod         = "unexpected signing method"
	ErrDevAuthTokenInvalidOrExpired = "invalid or expired token"
	ErrDevAuthTokenMissing          = "token missing"
	ErrDevAuthGenerateToken         = "failed to generate token"
	ErrDevAuthForbidden             = "subject %s may not %s %s"
	ErrDevAuthorizerInit            = "failed to initialize the RBAC enforcer"
	ErrDevAuthorizerEnforce         = "failed to evaluate the RBAC policy"

	// Database messages
	ErrDevDBFailedToInsertDocument = "failed to insert document into database"
	ErrDevDBFailedToFindDocument   = "failed when do find document on database"
	ErrDevDBConnectionFailed       = "failed to connect to database"

	// Minio messages
	ErrDevMinioFailedToCreateObject          = "failed to create object into minio storage with bucket name '%s'"
	ErrDevMinioFailedToGetObjectPresignedURL = "failed to get object URL from minio storage with bucket name '%s'"
	ErrDevMinioFailedToListObjects           = "failed to list objects from minio storage with bucket name '%s'"
	ErrDevMinioFailedToRemoveObject          = "failed to remove object '%s' from minio storage with bucket name '%s'"

	// Redis messages
	ErrDevRedisSetData    = "failed to SET data into redis"
	ErrDevRedisGetData    = "failed to GET data from redis"
	ErrDevRedisGetNoData  = "failed to GET data from redis, there is no data associated with key %s"
	ErrDevRedisDeleteData = "failed to DELETE data from redis"
	ErrDevRedisSAdd       = "failed to SAdd data into set in redis"
	ErrDevRedisSRem       = "failed to SRem data from set in redis"
	ErrDevRedisSMembers   = "failed to SMembers data from set in redis"
	ErrDevRedisIncrement  = "failed to INCR counter in redis"
	ErrDevRedisLock       = "failed to acquire lock on key %s"
	ErrDevRedisUnlock     = "failed to release lock on key %s"
	ErrDevRedisExpire     = "failed to EXPIRE key in redis"

	// Modality messages
	ErrDevModalityRateLimited = "modality %s exceeded %d requests per %d seconds"

	// RabbitMQ messages
	ErrDevRabbitMQPublish = "failed to publish message into queue %s"

	// Server messages
	ErrDevServerProcess          = "server failed to process something related to machine system"
	ErrDevServerNotFound         = "resource not found"
	ErrDevServerDeadlineExceeded = "deadline exceeded"
	ErrDevServerPanic            = "recovered from panic"
)

const (
	ErrFileLocationUnknown = "file location unknown"
	ErrLineLocationUnknown = "line location unknown"
	ErrFunctionNameUnknown = "function name unknown"
)

const (
	ErrEnvParsing     = "Error parsing %s: %v, will use default value"
	ErrEnvKeyNotExist = "Error getting env key: %s, will use default value"
)
