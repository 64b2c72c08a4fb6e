package requests

type JobTransition struct {
	JobID  string `validate:"required,orthanc_id"`
	Action string `validate:"required,job_action"`
}

// WaitJob is the body of POST /jobs/{job_id}/wait. Zero values fall back to
// the configured poll interval and wait timeout.
type WaitJob struct {
	PollIntervalInMilliseconds int `json:"poll_interval_in_milliseconds" validate:"gte=0"`
	TimeoutInSeconds           int `json:"timeout_in_seconds" validate:"gte=0,lte=3600"`
}
