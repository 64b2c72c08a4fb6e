package orthanc

import (
	"context"
	"errors"
	"fmt"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/exceptions"
	"orthanc-service/internal/pkg/orthanc_dto"
)

// AnonymizeOptions configures an anonymization. The zero value keeps the
// source resources on the server.
type AnonymizeOptions struct {
	Remove          []string
	Replace         map[string]string
	Keep            []string
	Force           bool
	KeepPrivateTags bool
	// RemoveSource deletes the original resources once the copy exists.
	RemoveSource bool
	// Priority of the job, lower runs first.
	Priority     int
	Permissive   bool
	DicomVersion string
}

func DefaultAnonymizeOptions() *AnonymizeOptions {
	return &AnonymizeOptions{}
}

func (o *AnonymizeOptions) request(asynchronous bool) *orthanc_dto.AnonymizeRequest {
	if o == nil {
		o = DefaultAnonymizeOptions()
	}
	return &orthanc_dto.AnonymizeRequest{
		Asynchronous:    asynchronous,
		Remove:          nonNilStrings(o.Remove),
		Replace:         nonNilMap(o.Replace),
		Keep:            nonNilStrings(o.Keep),
		Force:           o.Force,
		KeepPrivateTags: o.KeepPrivateTags,
		KeepSource:      !o.RemoveSource,
		Priority:        o.Priority,
		Permissive:      o.Permissive,
		DicomVersion:    o.DicomVersion,
	}
}

// ModifyOptions configures a modification. The zero value keeps the source
// resources on the server.
type ModifyOptions struct {
	Replace           map[string]string
	Remove            []string
	Keep              []string
	Force             bool
	RemovePrivateTags bool
	RemoveSource      bool
	Priority          int
	Permissive        bool
	// Transcode is a transfer syntax UID to convert to, empty keeps the original.
	Transcode string
}

func DefaultModifyOptions() *ModifyOptions {
	return &ModifyOptions{}
}

func (o *ModifyOptions) request(asynchronous bool) *orthanc_dto.ModifyRequest {
	if o == nil {
		o = DefaultModifyOptions()
	}
	return &orthanc_dto.ModifyRequest{
		Asynchronous:      asynchronous,
		Replace:           nonNilMap(o.Replace),
		Remove:            nonNilStrings(o.Remove),
		Keep:              nonNilStrings(o.Keep),
		Force:             o.Force,
		RemovePrivateTags: o.RemovePrivateTags,
		KeepSource:        !o.RemoveSource,
		Priority:          o.Priority,
		Permissive:        o.Permissive,
		Transcode:         o.Transcode,
	}
}

type mutation struct {
	action string
	noun   string
	method string
}

var (
	anonymization = mutation{action: constvars.OrthancActionAnonymize, noun: "anonymization", method: "AnonymizeAsJob"}
	modification  = mutation{action: constvars.OrthancActionModify, noun: "modification", method: "ModifyAsJob"}
)

// submitSynchronousMutation posts a blocking anonymize or modify call. A read
// timeout is replaced by a ReadTimeoutError naming the job based variant.
func (r *resource) submitSynchronousMutation(ctx context.Context, m mutation, body any) (*orthanc_dto.Payload, error) {
	payload, err := r.client.post(ctx, r.path(m.action), body)
	if err == nil {
		return payload, nil
	}

	var transportErr *exceptions.TransportError
	if errors.As(err, &transportErr) && transportErr.Timeout() {
		message := fmt.Sprintf("%s %s is too long to process. Use `%s` or increase the client timeout.", r.level, m.noun, m.method)
		if r.level == LevelInstance {
			// Instances have no job based variant.
			message = fmt.Sprintf("%s %s is too long to process. Increase the client timeout.", r.level, m.noun)
		}
		return nil, &exceptions.ReadTimeoutError{Message: message, Err: err}
	}
	return nil, r.notFound(err)
}

// mutateToID runs a synchronous mutation and returns the ID of the new resource.
func (r *resource) mutateToID(ctx context.Context, m mutation, body any) (string, error) {
	payload, err := r.submitSynchronousMutation(ctx, m, body)
	if err != nil {
		return "", err
	}
	info, err := objectFromPayload(payload)
	if err != nil {
		return "", err
	}
	return requiredString(info, constvars.OrthancKeyID, r.id)
}

func (r *resource) submitMutationJob(ctx context.Context, m mutation, body any) (*Job, error) {
	payload, err := r.client.post(ctx, r.path(m.action), body)
	if err != nil {
		return nil, r.notFound(err)
	}
	return r.client.jobFromPayload(payload)
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nonNilMap(values map[string]string) map[string]string {
	if values == nil {
		return map[string]string{}
	}
	return values
}
