package exceptions

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"orthanc-service/internal/pkg/constvars"
	"time"
)

// TransportError is returned by the Orthanc transport for network failures
// and non-2xx responses. StatusCode is zero when no response was received.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		msg := fmt.Sprintf(constvars.ErrDevOrthancStatus, e.Method, e.Path, e.StatusCode)
		if e.Body != "" {
			msg = fmt.Sprintf("%s: %s", msg, e.Body)
		}
		return msg
	}
	msg := fmt.Sprintf(constvars.ErrDevOrthancRequest, e.Method, e.Path)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err.Error())
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request failed because the client gave up waiting.
func (e *TransportError) Timeout() bool {
	if e.Err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(e.Err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(e.Err, context.DeadlineExceeded)
}

func (e *TransportError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

type ResourceNotFoundError struct {
	Level string
	ID    string
	Err   error
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf(constvars.ErrDevOrthancResourceNotFound, e.Level+"/"+e.ID)
}

func (e *ResourceNotFoundError) Unwrap() error {
	return e.Err
}

type TagDoesNotExistError struct {
	Tag        string
	ResourceID string
}

func (e *TagDoesNotExistError) Error() string {
	return fmt.Sprintf(constvars.ErrDevOrthancTagDoesNotExist, e.Tag, e.ResourceID)
}

// JobFailedError carries the failure reason reported by Orthanc for a job
// that reached the Failure state.
type JobFailedError struct {
	JobID            string
	ErrorCode        int
	ErrorDescription string
	Details          string
}

func (e *JobFailedError) Error() string {
	msg := fmt.Sprintf(constvars.ErrDevOrthancJobFailed, e.JobID)
	if e.ErrorDescription != "" {
		msg = fmt.Sprintf("%s: %s (code %d)", msg, e.ErrorDescription, e.ErrorCode)
	}
	if e.Details != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Details)
	}
	return msg
}

type InvalidJobStateError struct {
	JobID  string
	Action string
	Err    error
}

func (e *InvalidJobStateError) Error() string {
	msg := fmt.Sprintf(constvars.ErrDevOrthancJobInvalidState, e.JobID, e.Action)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err.Error())
	}
	return msg
}

func (e *InvalidJobStateError) Unwrap() error {
	return e.Err
}

// JobTimeoutError means the local wait gave up. The remote job keeps running.
type JobTimeoutError struct {
	JobID     string
	Wait      time.Duration
	LastState string
}

func (e *JobTimeoutError) Error() string {
	return fmt.Sprintf(constvars.ErrDevOrthancJobTimeout, e.JobID, e.Wait)
}

func (e *JobTimeoutError) Timeout() bool {
	return true
}

// ReadTimeoutError replaces a transport read timeout on a synchronous
// mutation with a message pointing to the job based variant.
type ReadTimeoutError struct {
	Message string
	Err     error
}

func (e *ReadTimeoutError) Error() string {
	if e.Message == "" {
		return constvars.ErrDevOrthancReadTimeout
	}
	return e.Message
}

func (e *ReadTimeoutError) Unwrap() error {
	return e.Err
}

func (e *ReadTimeoutError) Timeout() bool {
	return true
}

// FromOrthancError maps errors surfaced by the orthanc package onto a CustomError
// carrying the matching HTTP status for the gateway.
func FromOrthancError(err error) *CustomError {
	if err == nil {
		return nil
	}

	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr
	}

	var (
		notFoundErr     *ResourceNotFoundError
		tagErr          *TagDoesNotExistError
		jobFailedErr    *JobFailedError
		invalidStateErr *InvalidJobStateError
		jobTimeoutErr   *JobTimeoutError
		readTimeoutErr  *ReadTimeoutError
		transportErr    *TransportError
	)

	switch {
	case errors.As(err, &notFoundErr):
		return ErrOrthancResourceNotFound(err)
	case errors.As(err, &tagErr):
		return ErrOrthancTagDoesNotExist(err)
	case errors.As(err, &jobFailedErr):
		return ErrOrthancJobFailed(err)
	case errors.As(err, &invalidStateErr):
		return ErrOrthancJobInvalidState(err)
	case errors.As(err, &jobTimeoutErr):
		return ErrOrthancJobTimeout(err)
	case errors.As(err, &readTimeoutErr):
		return ErrOrthancReadTimeout(err)
	case errors.As(err, &transportErr):
		if transportErr.Timeout() {
			return ErrOrthancReadTimeout(err)
		}
		if transportErr.NotFound() {
			return ErrOrthancResourceNotFound(err)
		}
		return ErrOrthancUnavailable(err)
	case errors.Is(err, context.DeadlineExceeded):
		return ErrServerDeadlineExceeded(err)
	}

	return ErrServerProcess(err)
}
