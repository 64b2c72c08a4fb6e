// Package orthanc models the resources, jobs and queries of an Orthanc server
// as lazily loaded client side objects.
//
// Resources built in lock mode cache their main information and children after
// the first fetch and never refresh them. Resources built without lock fetch on
// every access. Shared lock mode objects may race on their first fetch; the
// fetch then happens more than once and the last result is kept.
package orthanc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"orthanc-service/internal/app/contracts"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/exceptions"
	"orthanc-service/internal/pkg/orthanc_dto"
	"strings"
	"time"
)

type Client struct {
	requester       contracts.OrthancRequester
	jobPollInterval time.Duration
	jobWaitTimeout  time.Duration
}

type ClientOption func(*Client)

func WithJobPollInterval(interval time.Duration) ClientOption {
	return func(c *Client) {
		if interval > 0 {
			c.jobPollInterval = interval
		}
	}
}

func WithJobWaitTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.jobWaitTimeout = timeout
		}
	}
}

func NewClient(requester contracts.OrthancRequester, opts ...ClientOption) *Client {
	client := &Client{
		requester:       requester,
		jobPollInterval: constvars.OrthancDefaultJobPollInterval,
		jobWaitTimeout:  constvars.OrthancDefaultJobWaitTimeout,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Resource builds the node for id at the given level without fetching it.
func (c *Client) Resource(level Level, id string, lock bool) (Resource, error) {
	switch level {
	case LevelPatient:
		return NewPatient(id, c, lock), nil
	case LevelStudy:
		return NewStudy(id, c, lock), nil
	case LevelSeries:
		return NewSeries(id, c, lock), nil
	case LevelInstance:
		return NewInstance(id, c, lock), nil
	}
	return nil, fmt.Errorf(constvars.ErrDevUnsupportedLevel, level)
}

// Container builds the node for a level that has children. Instances are rejected.
func (c *Client) Container(level Level, id string, lock bool) (Container, error) {
	resource, err := c.Resource(level, id, lock)
	if err != nil {
		return nil, err
	}
	container, ok := resource.(Container)
	if !ok {
		return nil, fmt.Errorf(constvars.ErrDevUnsupportedLevel, level)
	}
	return container, nil
}

func (c *Client) Patients(ctx context.Context, lock bool) ([]*Patient, error) {
	ids, err := c.listIDs(ctx, constvars.OrthancPathPatients)
	if err != nil {
		return nil, err
	}
	patients := make([]*Patient, 0, len(ids))
	for _, id := range ids {
		patients = append(patients, NewPatient(id, c, lock))
	}
	return patients, nil
}

func (c *Client) Studies(ctx context.Context, lock bool) ([]*Study, error) {
	ids, err := c.listIDs(ctx, constvars.OrthancPathStudies)
	if err != nil {
		return nil, err
	}
	studies := make([]*Study, 0, len(ids))
	for _, id := range ids {
		studies = append(studies, NewStudy(id, c, lock))
	}
	return studies, nil
}

func (c *Client) SeriesList(ctx context.Context, lock bool) ([]*Series, error) {
	ids, err := c.listIDs(ctx, constvars.OrthancPathSeries)
	if err != nil {
		return nil, err
	}
	series := make([]*Series, 0, len(ids))
	for _, id := range ids {
		series = append(series, NewSeries(id, c, lock))
	}
	return series, nil
}

func (c *Client) Instances(ctx context.Context, lock bool) ([]*Instance, error) {
	ids, err := c.listIDs(ctx, constvars.OrthancPathInstances)
	if err != nil {
		return nil, err
	}
	instances := make([]*Instance, 0, len(ids))
	for _, id := range ids {
		instances = append(instances, NewInstance(id, c, lock))
	}
	return instances, nil
}

// ListIDs returns the IDs of every resource of a level, in server order.
func (c *Client) ListIDs(ctx context.Context, level Level) ([]string, error) {
	collection := level.Collection()
	if collection == "" {
		return nil, fmt.Errorf(constvars.ErrDevUnsupportedLevel, level)
	}
	return c.listIDs(ctx, collection)
}

// Find runs /tools/find and returns the matching resources. Expand is forced
// off so the server answers with IDs only.
func (c *Client) Find(ctx context.Context, request *orthanc_dto.FindRequest, lock bool) ([]Resource, error) {
	level, err := ParseLevel(request.Level)
	if err != nil {
		return nil, err
	}
	body := *request
	body.Level = level.String()
	body.Expand = false
	if body.Query == nil {
		body.Query = map[string]string{}
	}

	payload, err := c.post(ctx, buildPath(constvars.OrthancPathTools, constvars.OrthancActionFind), &body)
	if err != nil {
		return nil, err
	}
	ids, err := stringsFromPayload(payload)
	if err != nil {
		return nil, err
	}

	resources := make([]Resource, 0, len(ids))
	for _, id := range ids {
		resource, err := c.Resource(level, id, lock)
		if err != nil {
			return nil, err
		}
		resources = append(resources, resource)
	}
	return resources, nil
}

// UploadInstance stores a DICOM file and returns the created or existing instance.
func (c *Client) UploadInstance(ctx context.Context, dicom []byte) (*Instance, error) {
	payload, err := c.requester.Request(ctx, &orthanc_dto.Request{
		Method:  http.MethodPost,
		Path:    buildPath(constvars.OrthancPathInstances),
		Headers: http.Header{constvars.HeaderContentType: []string{constvars.MIMEApplicationDICOM}},
		Body:    dicom,
	})
	if err != nil {
		return nil, err
	}
	info, err := objectFromPayload(payload)
	if err != nil {
		return nil, err
	}
	id, err := requiredString(info, constvars.OrthancKeyID, "")
	if err != nil {
		return nil, err
	}
	return NewInstance(id, c, false), nil
}

func (c *Client) Jobs(ctx context.Context) ([]*Job, error) {
	ids, err := c.listIDs(ctx, constvars.OrthancPathJobs)
	if err != nil {
		return nil, err
	}
	jobs := make([]*Job, 0, len(ids))
	for _, id := range ids {
		jobs = append(jobs, NewJob(id, c))
	}
	return jobs, nil
}

// Job re-attaches to a job by ID.
func (c *Client) Job(id string) *Job {
	return NewJob(id, c)
}

// Query re-attaches to a query by ID. Answers cached by an earlier handle are not shared.
func (c *Client) Query(id string) *Query {
	return NewQuery(id, c)
}

func (c *Client) Modality(name string) *Modality {
	return NewModality(name, c)
}

func (c *Client) Modalities(ctx context.Context) ([]string, error) {
	return c.listIDs(ctx, constvars.OrthancPathModalities)
}

func (c *Client) listIDs(ctx context.Context, collection string) ([]string, error) {
	payload, err := c.get(ctx, buildPath(collection), nil)
	if err != nil {
		return nil, err
	}
	return stringsFromPayload(payload)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*orthanc_dto.Payload, error) {
	return c.requester.Request(ctx, &orthanc_dto.Request{Method: http.MethodGet, Path: path, Query: query})
}

func (c *Client) post(ctx context.Context, path string, body any) (*orthanc_dto.Payload, error) {
	return c.requester.Request(ctx, &orthanc_dto.Request{Method: http.MethodPost, Path: path, Body: body})
}

func (c *Client) put(ctx context.Context, path string, body any) (*orthanc_dto.Payload, error) {
	return c.requester.Request(ctx, &orthanc_dto.Request{Method: http.MethodPut, Path: path, Body: body})
}

func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.requester.Request(ctx, &orthanc_dto.Request{Method: http.MethodDelete, Path: path})
	return err
}

// buildPath joins escaped segments. IDs are opaque and only ever used as segments.
func buildPath(segments ...string) string {
	var builder strings.Builder
	for _, segment := range segments {
		builder.WriteByte('/')
		builder.WriteString(url.PathEscape(segment))
	}
	return builder.String()
}

// notFound turns a 404 from the transport into a ResourceNotFoundError.
func notFound(err error, collection, id string) error {
	var transportErr *exceptions.TransportError
	if errors.As(err, &transportErr) && transportErr.NotFound() {
		return &exceptions.ResourceNotFoundError{Level: collection, ID: id, Err: err}
	}
	return err
}

func objectFromPayload(payload *orthanc_dto.Payload) (Information, error) {
	object, ok := payload.Object()
	if !ok {
		return nil, unexpectedPayload(payload, "object")
	}
	return Information(object), nil
}

func stringsFromPayload(payload *orthanc_dto.Payload) ([]string, error) {
	array, ok := payload.Array()
	if !ok {
		return nil, unexpectedPayload(payload, "array")
	}
	result := make([]string, 0, len(array))
	for _, item := range array {
		s, ok := item.(string)
		if !ok {
			return nil, unexpectedPayload(payload, "array of strings")
		}
		result = append(result, s)
	}
	return result, nil
}

func bytesFromPayload(payload *orthanc_dto.Payload) []byte {
	if payload == nil {
		return nil
	}
	return payload.Raw
}

func unexpectedPayload(payload *orthanc_dto.Payload, expected string) error {
	kind := "empty"
	if payload != nil {
		kind = payload.Kind.String()
	}
	return fmt.Errorf("unexpected orthanc payload: expected JSON %s, got %s", expected, kind)
}
