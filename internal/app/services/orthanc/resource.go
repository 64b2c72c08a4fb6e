package orthanc

import (
	"context"
	"errors"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/exceptions"
	"orthanc-service/internal/pkg/utils"
	"reflect"
	"time"
)

// Node identifies a remote resource.
type Node interface {
	ID() string
	Level() Level
}

// SameResource reports whether a and b point at the same remote resource.
// Nil nodes, typed or not, match nothing.
func SameResource(a, b Node) bool {
	if isNilNode(a) || isNilNode(b) {
		return false
	}
	return a.Level() == b.Level() && a.ID() == b.ID()
}

func isNilNode(n Node) bool {
	if n == nil {
		return true
	}
	value := reflect.ValueOf(n)
	return value.Kind() == reflect.Pointer && value.IsNil()
}

// Resource is the behaviour shared by every hierarchy level.
type Resource interface {
	Node
	Lock() bool
	MainInformation(ctx context.Context) (Information, error)
	Labels(ctx context.Context) ([]string, error)
	AddLabel(ctx context.Context, label string) error
	RemoveLabel(ctx context.Context, label string) error
	Delete(ctx context.Context) error
}

// Container is a resource with children one level down.
type Container interface {
	Resource
	ChildResources(ctx context.Context) ([]Resource, error)
	GetZip(ctx context.Context) ([]byte, error)
	AnonymizeAsJob(ctx context.Context, options *AnonymizeOptions) (*Job, error)
	ModifyAsJob(ctx context.Context, options *ModifyOptions) (*Job, error)
}

type resource struct {
	id          string
	level       Level
	lock        bool
	client      *Client
	information lazy[Information]
}

func (r *resource) ID() string {
	return r.id
}

func (r *resource) Level() Level {
	return r.level
}

func (r *resource) Lock() bool {
	return r.lock
}

func (r *resource) Client() *Client {
	return r.client
}

func (r *resource) path(segments ...string) string {
	return buildPath(append([]string{r.level.Collection(), r.id}, segments...)...)
}

func (r *resource) notFound(err error) error {
	return notFound(err, r.level.Collection(), r.id)
}

// MainInformation returns the main information document of the resource.
// In lock mode the first successful fetch is kept and returned from then on.
func (r *resource) MainInformation(ctx context.Context) (Information, error) {
	if r.lock {
		if info, ok := r.information.Load(); ok {
			return info, nil
		}
	}

	payload, err := r.client.get(ctx, r.path(), nil)
	if err != nil {
		return nil, r.notFound(err)
	}
	info, err := objectFromPayload(payload)
	if err != nil {
		return nil, err
	}

	if r.lock {
		r.information.Store(info)
	}
	return info, nil
}

func (r *resource) mainDicomTag(ctx context.Context, tag string) (string, error) {
	info, err := r.MainInformation(ctx)
	if err != nil {
		return "", err
	}
	return tagValue(info.MainDicomTags(), tag, r.id)
}

func (r *resource) mainDicomTagInt(ctx context.Context, tag string) (int, error) {
	info, err := r.MainInformation(ctx)
	if err != nil {
		return 0, err
	}
	return tagInt(info.MainDicomTags(), tag, r.id)
}

// dicomDate combines a DA tag with its optional TM tag. Without a usable time
// the result is midnight.
func (r *resource) dicomDate(ctx context.Context, dateTag, timeTag string) (time.Time, error) {
	info, err := r.MainInformation(ctx)
	if err != nil {
		return time.Time{}, err
	}
	tags := info.MainDicomTags()

	date, err := tagValue(tags, dateTag, r.id)
	if err != nil {
		return time.Time{}, err
	}

	var clock string
	if timeTag != "" {
		clock, err = tagValue(tags, timeTag, r.id)
		var tagErr *exceptions.TagDoesNotExistError
		if err != nil && !errors.As(err, &tagErr) {
			return time.Time{}, err
		}
	}

	return utils.MakeDatetimeFromDicomDate(date, clock)
}

func (r *resource) stringField(ctx context.Context, key string) (string, error) {
	info, err := r.MainInformation(ctx)
	if err != nil {
		return "", err
	}
	return requiredString(info, key, r.id)
}

func (r *resource) IsStable(ctx context.Context) (bool, error) {
	info, err := r.MainInformation(ctx)
	if err != nil {
		return false, err
	}
	stable, ok := info.Bool(constvars.OrthancKeyIsStable)
	if !ok {
		return false, &exceptions.TagDoesNotExistError{Tag: constvars.OrthancKeyIsStable, ResourceID: r.id}
	}
	return stable, nil
}

func (r *resource) LastUpdate(ctx context.Context) (time.Time, error) {
	value, err := r.stringField(ctx, constvars.OrthancKeyLastUpdate)
	if err != nil {
		return time.Time{}, err
	}
	return utils.ParseOrthancTimestamp(value)
}

// Labels always asks the server. The cached main information is left alone.
func (r *resource) Labels(ctx context.Context) ([]string, error) {
	payload, err := r.client.get(ctx, r.path(constvars.OrthancActionLabels), nil)
	if err != nil {
		return nil, r.notFound(err)
	}
	return stringsFromPayload(payload)
}

func (r *resource) AddLabel(ctx context.Context, label string) error {
	_, err := r.client.put(ctx, r.path(constvars.OrthancActionLabels, label), "")
	return r.notFound(err)
}

func (r *resource) RemoveLabel(ctx context.Context, label string) error {
	return r.notFound(r.client.delete(ctx, r.path(constvars.OrthancActionLabels, label)))
}

// Delete removes the remote resource. Cached state on this node is kept.
func (r *resource) Delete(ctx context.Context) error {
	return r.notFound(r.client.delete(ctx, r.path()))
}

func (r *resource) getZip(ctx context.Context) ([]byte, error) {
	payload, err := r.client.get(ctx, r.path(constvars.OrthancActionArchive), nil)
	if err != nil {
		return nil, r.notFound(err)
	}
	return bytesFromPayload(payload), nil
}

// childIDs lists the children recorded in the main information.
func (r *resource) childIDs(ctx context.Context) ([]string, error) {
	info, err := r.MainInformation(ctx)
	if err != nil {
		return nil, err
	}
	return info.StringList(r.level.childrenKey()), nil
}

// materialize returns the children of r. In lock mode the first result is
// cached and later calls return the very same slice and nodes.
func materialize[C any](ctx context.Context, r *resource, cache *lazy[[]C], build func(id string) C) ([]C, error) {
	if r.lock {
		if children, ok := cache.Load(); ok {
			return children, nil
		}
	}

	ids, err := r.childIDs(ctx)
	if err != nil {
		return nil, err
	}
	children := make([]C, 0, len(ids))
	for _, id := range ids {
		children = append(children, build(id))
	}

	if r.lock {
		cache.Store(children)
	}
	return children, nil
}
