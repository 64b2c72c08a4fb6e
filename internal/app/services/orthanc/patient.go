package orthanc

import (
	"context"
	"net/url"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/utils"
	"strings"
	"time"
)

type Patient struct {
	resource
	studies lazy[[]*Study]
}

func NewPatient(id string, client *Client, lock bool) *Patient {
	return &Patient{resource: resource{id: id, level: LevelPatient, lock: lock, client: client}}
}

func (p *Patient) Name(ctx context.Context) (string, error) {
	return p.mainDicomTag(ctx, "PatientName")
}

func (p *Patient) PatientID(ctx context.Context) (string, error) {
	return p.mainDicomTag(ctx, "PatientID")
}

func (p *Patient) BirthDate(ctx context.Context) (time.Time, error) {
	value, err := p.mainDicomTag(ctx, "PatientBirthDate")
	if err != nil {
		return time.Time{}, err
	}
	return utils.MakeDatetimeFromDicomDate(value, "")
}

func (p *Patient) Sex(ctx context.Context) (string, error) {
	return p.mainDicomTag(ctx, "PatientSex")
}

func (p *Patient) OtherPatientIDs(ctx context.Context) (string, error) {
	return p.mainDicomTag(ctx, "OtherPatientIDs")
}

// Protected reports whether the patient is protected against recycling.
func (p *Patient) Protected(ctx context.Context) (bool, error) {
	payload, err := p.client.get(ctx, p.path(constvars.OrthancActionProtected), nil)
	if err != nil {
		return false, p.notFound(err)
	}
	return strings.TrimSpace(payload.Text) == "1", nil
}

func (p *Patient) SetProtected(ctx context.Context, protected bool) error {
	value := "0"
	if protected {
		value = "1"
	}
	_, err := p.client.put(ctx, p.path(constvars.OrthancActionProtected), value)
	return p.notFound(err)
}

// GetPatientModule returns the patient module tags of the patient.
func (p *Patient) GetPatientModule(ctx context.Context, simplify bool) (Information, error) {
	var query url.Values
	if simplify {
		query = url.Values{constvars.URLQueryParamSimplify: []string{""}}
	}
	payload, err := p.client.get(ctx, p.path(constvars.OrthancActionModule), query)
	if err != nil {
		return nil, p.notFound(err)
	}
	return objectFromPayload(payload)
}

func (p *Patient) Studies(ctx context.Context) ([]*Study, error) {
	return materialize(ctx, &p.resource, &p.studies, func(id string) *Study {
		return NewStudy(id, p.client, p.lock)
	})
}

func (p *Patient) ChildResources(ctx context.Context) ([]Resource, error) {
	studies, err := p.Studies(ctx)
	if err != nil {
		return nil, err
	}
	children := make([]Resource, 0, len(studies))
	for _, study := range studies {
		children = append(children, study)
	}
	return children, nil
}

func (p *Patient) Anonymize(ctx context.Context, options *AnonymizeOptions) (*Patient, error) {
	id, err := p.mutateToID(ctx, anonymization, options.request(false))
	if err != nil {
		return nil, err
	}
	return NewPatient(id, p.client, false), nil
}

func (p *Patient) AnonymizeAsJob(ctx context.Context, options *AnonymizeOptions) (*Job, error) {
	return p.submitMutationJob(ctx, anonymization, options.request(true))
}

func (p *Patient) Modify(ctx context.Context, options *ModifyOptions) (*Patient, error) {
	id, err := p.mutateToID(ctx, modification, options.request(false))
	if err != nil {
		return nil, err
	}
	return NewPatient(id, p.client, false), nil
}

func (p *Patient) ModifyAsJob(ctx context.Context, options *ModifyOptions) (*Job, error) {
	return p.submitMutationJob(ctx, modification, options.request(true))
}

func (p *Patient) GetZip(ctx context.Context) ([]byte, error) {
	return p.getZip(ctx)
}

// RemoveEmptyStudies prunes the cached study list, recursing into each study.
// It never calls the server and does nothing when the studies were never loaded.
func (p *Patient) RemoveEmptyStudies() {
	studies, ok := p.studies.Load()
	if !ok {
		return
	}

	kept := make([]*Study, 0, len(studies))
	for _, study := range studies {
		if study == nil {
			continue
		}
		study.RemoveEmptySeries()
		if study.hasEmptyCache() {
			continue
		}
		kept = append(kept, study)
	}
	p.studies.Store(kept)
}
