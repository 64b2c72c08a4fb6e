package orthanc

import (
	"context"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/exceptions"
	"time"
)

type Series struct {
	resource
	instances lazy[[]*Instance]
}

func NewSeries(id string, client *Client, lock bool) *Series {
	return &Series{resource: resource{id: id, level: LevelSeries, lock: lock, client: client}}
}

func (s *Series) UID(ctx context.Context) (string, error) {
	return s.mainDicomTag(ctx, "SeriesInstanceUID")
}

func (s *Series) Modality(ctx context.Context) (string, error) {
	return s.mainDicomTag(ctx, "Modality")
}

func (s *Series) Description(ctx context.Context) (string, error) {
	return s.mainDicomTag(ctx, "SeriesDescription")
}

func (s *Series) Manufacturer(ctx context.Context) (string, error) {
	return s.mainDicomTag(ctx, "Manufacturer")
}

func (s *Series) SeriesNumber(ctx context.Context) (int, error) {
	return s.mainDicomTagInt(ctx, "SeriesNumber")
}

func (s *Series) Date(ctx context.Context) (time.Time, error) {
	return s.dicomDate(ctx, "SeriesDate", "SeriesTime")
}

func (s *Series) BodyPartExamined(ctx context.Context) (string, error) {
	return s.mainDicomTag(ctx, "BodyPartExamined")
}

// ExpectedNumberOfInstances is null on the server when it cannot be inferred.
func (s *Series) ExpectedNumberOfInstances(ctx context.Context) (int, error) {
	info, err := s.MainInformation(ctx)
	if err != nil {
		return 0, err
	}
	return requiredInt(info, constvars.OrthancKeyExpectedNumberOfInstances, s.id)
}

func (s *Series) ParentStudy(ctx context.Context) (*Study, error) {
	id, err := s.stringField(ctx, constvars.OrthancKeyParentStudy)
	if err != nil {
		return nil, err
	}
	return NewStudy(id, s.client, s.lock), nil
}

func (s *Series) Instances(ctx context.Context) ([]*Instance, error) {
	return materialize(ctx, &s.resource, &s.instances, func(id string) *Instance {
		return NewInstance(id, s.client, s.lock)
	})
}

// OrderedInstances returns the instances sorted along the slice axis as computed
// by Orthanc. The result is a new slice owned by the caller. Cached instance
// nodes are reused when the instances were already loaded.
func (s *Series) OrderedInstances(ctx context.Context) ([]*Instance, error) {
	payload, err := s.client.get(ctx, s.path(constvars.OrthancActionOrderedSlices), nil)
	if err != nil {
		return nil, s.notFound(err)
	}
	info, err := objectFromPayload(payload)
	if err != nil {
		return nil, err
	}
	slices, ok := info[constvars.OrthancKeySlicesShort].([]any)
	if !ok {
		return nil, &exceptions.TagDoesNotExistError{Tag: constvars.OrthancKeySlicesShort, ResourceID: s.id}
	}

	known := map[string]*Instance{}
	if cachedInstances, ok := s.instances.Load(); ok {
		for _, instance := range cachedInstances {
			if instance != nil {
				known[instance.ID()] = instance
			}
		}
	}

	ordered := make([]*Instance, 0, len(slices))
	for _, slice := range slices {
		entry, ok := slice.([]any)
		if !ok || len(entry) == 0 {
			return nil, unexpectedPayload(payload, "slice entry")
		}
		id, ok := entry[0].(string)
		if !ok {
			return nil, unexpectedPayload(payload, "slice entry")
		}
		if instance, ok := known[id]; ok {
			ordered = append(ordered, instance)
			continue
		}
		ordered = append(ordered, NewInstance(id, s.client, s.lock))
	}
	return ordered, nil
}

func (s *Series) ChildResources(ctx context.Context) ([]Resource, error) {
	instances, err := s.Instances(ctx)
	if err != nil {
		return nil, err
	}
	children := make([]Resource, 0, len(instances))
	for _, instance := range instances {
		children = append(children, instance)
	}
	return children, nil
}

func (s *Series) Anonymize(ctx context.Context, options *AnonymizeOptions) (*Series, error) {
	id, err := s.mutateToID(ctx, anonymization, options.request(false))
	if err != nil {
		return nil, err
	}
	return NewSeries(id, s.client, false), nil
}

func (s *Series) AnonymizeAsJob(ctx context.Context, options *AnonymizeOptions) (*Job, error) {
	return s.submitMutationJob(ctx, anonymization, options.request(true))
}

func (s *Series) Modify(ctx context.Context, options *ModifyOptions) (*Series, error) {
	id, err := s.mutateToID(ctx, modification, options.request(false))
	if err != nil {
		return nil, err
	}
	return NewSeries(id, s.client, false), nil
}

func (s *Series) ModifyAsJob(ctx context.Context, options *ModifyOptions) (*Job, error) {
	return s.submitMutationJob(ctx, modification, options.request(true))
}

func (s *Series) GetZip(ctx context.Context) ([]byte, error) {
	return s.getZip(ctx)
}

// RemoveEmptyInstances drops nil entries from the cached instance list.
// It never calls the server.
func (s *Series) RemoveEmptyInstances() {
	instances, ok := s.instances.Load()
	if !ok {
		return
	}

	kept := make([]*Instance, 0, len(instances))
	for _, instance := range instances {
		if instance != nil {
			kept = append(kept, instance)
		}
	}
	s.instances.Store(kept)
}

// hasEmptyCache reports whether the instance list was loaded and is empty.
func (s *Series) hasEmptyCache() bool {
	instances, ok := s.instances.Load()
	return ok && len(instances) == 0
}
