package config

import (
	"orthanc-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "orthanc_service"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", ":8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			Address:                    utils.GetEnvString("APP_ADDRESS", "localhost"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "UTC"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			AllowedOrigins:             utils.GetEnvStringSlice("APP_ALLOWED_ORIGINS", []string{"*"}),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 100),
			MaxTimeRequestsPerSeconds:  utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 60),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 6),
		},
		Orthanc: AppOrthanc{
			BaseUrl:          utils.GetEnvString("ORTHANC_BASE_URL", "http://localhost:8042"),
			Username:         utils.GetEnvString("ORTHANC_USERNAME", "orthanc"),
			Password:         utils.GetEnvString("ORTHANC_PASSWORD", "orthanc"),
			TimeoutInSeconds: utils.GetEnvInt("ORTHANC_TIMEOUT_IN_SECONDS", 60),
			LockResources:    utils.GetEnvBool("ORTHANC_LOCK_RESOURCES", false),
		},
		Jobs: AppJobs{
			PollIntervalInMilliseconds: utils.GetEnvInt("JOB_POLL_INTERVAL_IN_MILLISECONDS", 2000),
			WaitTimeoutInSeconds:       utils.GetEnvInt("JOB_WAIT_TIMEOUT_IN_SECONDS", 3600),
			WatcherIntervalInSeconds:   utils.GetEnvInt("JOB_WATCHER_INTERVAL_IN_SECONDS", 10),
			WatcherMaxJobsPerTick:      utils.GetEnvInt("JOB_WATCHER_MAX_JOBS_PER_TICK", 50),
			WatcherRequestsPerSecond:   utils.GetEnvInt("JOB_WATCHER_REQUESTS_PER_SECOND", 5),
			ResourceLockTTLInSeconds:   utils.GetEnvInt("JOB_RESOURCE_LOCK_TTL_IN_SECONDS", 3600),
			TrackedJobTTLInHours:       utils.GetEnvInt("JOB_TRACKED_TTL_IN_HOURS", 72),
		},
		JWT: AppJWT{
			Secret:        utils.GetEnvString("JWT_SECRET", "anyjwt"),
			ExpTimeInHour: utils.GetEnvInt("JWT_EXP_TIME_IN_HOUR", 1),
		},
		Archive: AppArchive{
			BucketName:                      utils.GetEnvString("ARCHIVE_BUCKET_NAME", "orthanc-archives"),
			PreSignedUrlExpiryTimeInMinutes: utils.GetEnvInt("ARCHIVE_PRE_SIGNED_URL_EXPIRY_TIME_IN_MINUTES", 60),
			RetentionInHours:                utils.GetEnvInt("ARCHIVE_RETENTION_IN_HOURS", 24),
			RetentionCronSpec:               utils.GetEnvString("ARCHIVE_RETENTION_CRON_SPEC", "@hourly"),
		},
		RabbitMQ: AppRabbitMQ{
			JobEventsQueue: utils.GetEnvString("APP_RABBITMQ_JOB_EVENTS_QUEUE", "orthanc.job.events"),
		},
		RBAC: AppRBAC{
			OperatorSubjects: utils.GetEnvStringSlice("RBAC_OPERATOR_SUBJECTS", []string{}),
			PolicyPath:       utils.GetEnvString("RBAC_POLICY_PATH", ""),
		},
		Modality: AppModality{
			MaxRequestsPerWindow: utils.GetEnvInt("MODALITY_MAX_REQUESTS_PER_WINDOW", 30),
			WindowInSeconds:      utils.GetEnvInt("MODALITY_WINDOW_IN_SECONDS", 60),
		},
		MongoDB: AppMongoDB{
			AuditDBName:         utils.GetEnvString("MONGODB_AUDIT_DB_NAME", "orthanc_service"),
			AuditCollectionName: utils.GetEnvString("MONGODB_AUDIT_COLLECTION_NAME", "audit_events"),
		},
	}
}
