package config

type InternalConfig struct {
	App      App         `mapstructure:"app"`
	Orthanc  AppOrthanc  `mapstructure:"orthanc"`
	Jobs     AppJobs     `mapstructure:"jobs"`
	JWT      AppJWT      `mapstructure:"jwt"`
	Archive  AppArchive  `mapstructure:"archive"`
	RabbitMQ AppRabbitMQ `mapstructure:"rabbitmq"`
	MongoDB  AppMongoDB  `mapstructure:"mongodb"`
	RBAC     AppRBAC     `mapstructure:"rbac"`
	// Modality bounds DICOM network operations per remote modality, shared across replicas
	Modality AppModality `mapstructure:"modality"`
}

type App struct {
	Env                        string   `mapstructure:"env"`
	Port                       string   `mapstructure:"port"`
	Version                    string   `mapstructure:"version"`
	Address                    string   `mapstructure:"address"`
	Timezone                   string   `mapstructure:"timezone"`
	EndpointPrefix             string   `mapstructure:"endpoint_prefix"`
	AllowedOrigins             []string `mapstructure:"allowed_origins"`
	MaxRequests                int      `mapstructure:"max_requests"`
	MaxTimeRequestsPerSeconds  int      `mapstructure:"max_time_requests_per_seconds"`
	ShutdownTimeoutInSeconds   int      `mapstructure:"shutdown_timeout_in_seconds"`
	RequestBodyLimitInMegabyte int      `mapstructure:"request_body_limit_in_megabyte"`
}

// AppOrthanc holds how the service reaches the Orthanc server.
type AppOrthanc struct {
	BaseUrl          string `mapstructure:"base_url"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	TimeoutInSeconds int    `mapstructure:"timeout_in_seconds"`
	// LockResources makes resource handles cache their server data after the first read.
	LockResources bool `mapstructure:"lock_resources"`
}

type AppJobs struct {
	PollIntervalInMilliseconds int `mapstructure:"poll_interval_in_milliseconds"`
	WaitTimeoutInSeconds       int `mapstructure:"wait_timeout_in_seconds"`
	// WatcherIntervalInSeconds is how often the watcher refreshes tracked jobs
	WatcherIntervalInSeconds int `mapstructure:"watcher_interval_in_seconds"`
	// WatcherMaxJobsPerTick bounds the number of tracked jobs refreshed per tick
	WatcherMaxJobsPerTick int `mapstructure:"watcher_max_jobs_per_tick"`
	// WatcherRequestsPerSecond throttles the watcher calls against Orthanc
	WatcherRequestsPerSecond int `mapstructure:"watcher_requests_per_second"`
	ResourceLockTTLInSeconds int `mapstructure:"resource_lock_ttl_in_seconds"`
	TrackedJobTTLInHours     int `mapstructure:"tracked_job_ttl_in_hours"`
}

type AppJWT struct {
	Secret        string `mapstructure:"secret"`
	ExpTimeInHour int    `mapstructure:"exp_time_in_hour"`
}

type AppArchive struct {
	BucketName                      string `mapstructure:"bucket_name"`
	PreSignedUrlExpiryTimeInMinutes int    `mapstructure:"pre_signed_url_expiry_time_in_minutes"`
	// RetentionInHours is how long exported archives are kept, zero keeps them forever
	RetentionInHours                int    `mapstructure:"retention_in_hours"`
	RetentionCronSpec               string `mapstructure:"retention_cron_spec"`
}

type AppRabbitMQ struct {
	JobEventsQueue string `mapstructure:"job_events_queue"`
}

type AppMongoDB struct {
	AuditDBName         string `mapstructure:"audit_db_name"`
	AuditCollectionName string `mapstructure:"audit_collection_name"`
}

type AppModality struct {
	MaxRequestsPerWindow int `mapstructure:"max_requests_per_window"`
	WindowInSeconds      int `mapstructure:"window_in_seconds"`
}

// AppRBAC decides which authenticated subjects may mutate the archive.
type AppRBAC struct {
	OperatorSubjects []string `mapstructure:"operator_subjects"`
	// PolicyPath points to a casbin policy CSV replacing the built-in policies
	PolicyPath string `mapstructure:"policy_path"`
}
