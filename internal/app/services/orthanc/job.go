package orthanc

import (
	"context"
	"errors"
	"net/http"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/exceptions"
	"orthanc-service/internal/pkg/orthanc_dto"
	"time"
)

type JobState string

const (
	JobStatePending JobState = constvars.OrthancJobStatePending
	JobStateRunning JobState = constvars.OrthancJobStateRunning
	JobStateSuccess JobState = constvars.OrthancJobStateSuccess
	JobStateFailure JobState = constvars.OrthancJobStateFailure
	JobStatePaused  JobState = constvars.OrthancJobStatePaused
	JobStateRetry   JobState = constvars.OrthancJobStateRetry
)

// Terminal reports whether the job can no longer progress on its own.
func (s JobState) Terminal() bool {
	return s == JobStateSuccess || s == JobStateFailure
}

// Job is a handle on an Orthanc job. It keeps no state besides its ID.
type Job struct {
	id     string
	client *Client
}

func NewJob(id string, client *Client) *Job {
	return &Job{id: id, client: client}
}

func (j *Job) ID() string {
	return j.id
}

// Info fetches the job document.
func (j *Job) Info(ctx context.Context) (Information, error) {
	payload, err := j.client.get(ctx, buildPath(constvars.OrthancPathJobs, j.id), nil)
	if err != nil {
		return nil, notFound(err, constvars.OrthancPathJobs, j.id)
	}
	return objectFromPayload(payload)
}

// State always asks the server.
func (j *Job) State(ctx context.Context) (JobState, error) {
	info, err := j.Info(ctx)
	if err != nil {
		return "", err
	}
	return jobState(info), nil
}

// Content is the job output, for example the ID of an anonymized resource.
// Its fields are only meaningful once the job succeeded.
func (j *Job) Content(ctx context.Context) (Information, error) {
	info, err := j.Info(ctx)
	if err != nil {
		return nil, err
	}
	return Information(info.Map("Content")), nil
}

// WaitUntilCompletion polls the job until it succeeds, fails or timeout elapses.
// Zero durations use the client defaults. On timeout the remote job keeps
// running and the same ID can be waited on again.
func (j *Job) WaitUntilCompletion(ctx context.Context, pollInterval, timeout time.Duration) error {
	if pollInterval <= 0 {
		pollInterval = j.client.jobPollInterval
	}
	if timeout <= 0 {
		timeout = j.client.jobWaitTimeout
	}
	deadline := time.Now().Add(timeout)

	for {
		info, err := j.Info(ctx)
		if err != nil {
			return err
		}

		state := jobState(info)
		switch state {
		case JobStateSuccess:
			return nil
		case JobStateFailure:
			return jobFailedError(j.id, info)
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return &exceptions.JobTimeoutError{JobID: j.id, Wait: timeout, LastState: string(state)}
		}

		wait := pollInterval
		if remaining < wait {
			wait = remaining
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Cancel moves a pending, running or paused job to Failure.
func (j *Job) Cancel(ctx context.Context) error {
	return j.transition(ctx, constvars.OrthancActionCancel)
}

func (j *Job) Pause(ctx context.Context) error {
	return j.transition(ctx, constvars.OrthancActionPause)
}

func (j *Job) Resume(ctx context.Context) error {
	return j.transition(ctx, constvars.OrthancActionResume)
}

// Resubmit restarts a failed job from the beginning.
func (j *Job) Resubmit(ctx context.Context) error {
	return j.transition(ctx, constvars.OrthancActionResubmit)
}

// Transition runs one of cancel, pause, resume or resubmit by name.
func (j *Job) Transition(ctx context.Context, action string) error {
	switch action {
	case constvars.OrthancActionCancel, constvars.OrthancActionPause, constvars.OrthancActionResume, constvars.OrthancActionResubmit:
		return j.transition(ctx, action)
	}
	return &exceptions.InvalidJobStateError{JobID: j.id, Action: action}
}

func (j *Job) transition(ctx context.Context, action string) error {
	_, err := j.client.post(ctx, buildPath(constvars.OrthancPathJobs, j.id, action), struct{}{})
	if err == nil {
		return nil
	}

	var transportErr *exceptions.TransportError
	if errors.As(err, &transportErr) {
		switch transportErr.StatusCode {
		case http.StatusBadRequest, http.StatusConflict:
			return &exceptions.InvalidJobStateError{JobID: j.id, Action: action, Err: err}
		case http.StatusNotFound:
			return &exceptions.ResourceNotFoundError{Level: constvars.OrthancPathJobs, ID: j.id, Err: err}
		}
	}
	return err
}

func jobState(info Information) JobState {
	state, _ := info.String("State")
	return JobState(state)
}

func jobFailedError(id string, info Information) error {
	code, _ := info.Int("ErrorCode")
	description, _ := info.String("ErrorDescription")
	details, _ := info.String("ErrorDetails")
	return &exceptions.JobFailedError{JobID: id, ErrorCode: code, ErrorDescription: description, Details: details}
}

// jobFromPayload reads the {"ID": ..., "Path": ...} answer of an asynchronous call.
func (c *Client) jobFromPayload(payload *orthanc_dto.Payload) (*Job, error) {
	info, err := objectFromPayload(payload)
	if err != nil {
		return nil, err
	}
	id, err := requiredString(info, constvars.OrthancKeyID, "")
	if err != nil {
		return nil, err
	}
	return NewJob(id, c), nil
}
