package orthanc

import (
	"context"
	"orthanc-service/internal/pkg/constvars"
	"time"
)

type Study struct {
	resource
	series lazy[[]*Series]
}

func NewStudy(id string, client *Client, lock bool) *Study {
	return &Study{resource: resource{id: id, level: LevelStudy, lock: lock, client: client}}
}

func (s *Study) ReferringPhysicianName(ctx context.Context) (string, error) {
	return s.mainDicomTag(ctx, "ReferringPhysicianName")
}

func (s *Study) RequestingPhysician(ctx context.Context) (string, error) {
	return s.mainDicomTag(ctx, "RequestingPhysician")
}

// Date combines StudyDate and StudyTime.
func (s *Study) Date(ctx context.Context) (time.Time, error) {
	return s.dicomDate(ctx, "StudyDate", "StudyTime")
}

func (s *Study) StudyID(ctx context.Context) (string, error) {
	return s.mainDicomTag(ctx, "StudyID")
}

func (s *Study) UID(ctx context.Context) (string, error) {
	return s.mainDicomTag(ctx, "StudyInstanceUID")
}

func (s *Study) AccessionNumber(ctx context.Context) (string, error) {
	return s.mainDicomTag(ctx, "AccessionNumber")
}

func (s *Study) Description(ctx context.Context) (string, error) {
	return s.mainDicomTag(ctx, "StudyDescription")
}

func (s *Study) InstitutionName(ctx context.Context) (string, error) {
	return s.mainDicomTag(ctx, "InstitutionName")
}

func (s *Study) RequestedProcedureDescription(ctx context.Context) (string, error) {
	return s.mainDicomTag(ctx, "RequestedProcedureDescription")
}

// PatientIdentifier is the Orthanc ID of the parent patient.
func (s *Study) PatientIdentifier(ctx context.Context) (string, error) {
	return s.stringField(ctx, constvars.OrthancKeyParentPatient)
}

func (s *Study) PatientInformation(ctx context.Context) (map[string]any, error) {
	info, err := s.MainInformation(ctx)
	if err != nil {
		return nil, err
	}
	return info.PatientMainDicomTags(), nil
}

// ParentPatient builds the parent node with this study's lock mode.
func (s *Study) ParentPatient(ctx context.Context) (*Patient, error) {
	id, err := s.PatientIdentifier(ctx)
	if err != nil {
		return nil, err
	}
	return NewPatient(id, s.client, s.lock), nil
}

func (s *Study) Series(ctx context.Context) ([]*Series, error) {
	return materialize(ctx, &s.resource, &s.series, func(id string) *Series {
		return NewSeries(id, s.client, s.lock)
	})
}

func (s *Study) ChildResources(ctx context.Context) ([]Resource, error) {
	series, err := s.Series(ctx)
	if err != nil {
		return nil, err
	}
	children := make([]Resource, 0, len(series))
	for _, child := range series {
		children = append(children, child)
	}
	return children, nil
}

// Anonymize blocks until Orthanc has anonymized the study and returns the new study.
func (s *Study) Anonymize(ctx context.Context, options *AnonymizeOptions) (*Study, error) {
	id, err := s.mutateToID(ctx, anonymization, options.request(false))
	if err != nil {
		return nil, err
	}
	return NewStudy(id, s.client, false), nil
}

func (s *Study) AnonymizeAsJob(ctx context.Context, options *AnonymizeOptions) (*Job, error) {
	return s.submitMutationJob(ctx, anonymization, options.request(true))
}

func (s *Study) Modify(ctx context.Context, options *ModifyOptions) (*Study, error) {
	id, err := s.mutateToID(ctx, modification, options.request(false))
	if err != nil {
		return nil, err
	}
	return NewStudy(id, s.client, false), nil
}

func (s *Study) ModifyAsJob(ctx context.Context, options *ModifyOptions) (*Job, error) {
	return s.submitMutationJob(ctx, modification, options.request(true))
}

func (s *Study) GetZip(ctx context.Context) ([]byte, error) {
	return s.getZip(ctx)
}

// RemoveEmptySeries prunes the cached series list. It never calls the server
// and does nothing when the series were never loaded.
func (s *Study) RemoveEmptySeries() {
	series, ok := s.series.Load()
	if !ok {
		return
	}

	kept := make([]*Series, 0, len(series))
	for _, child := range series {
		if child == nil {
			continue
		}
		child.RemoveEmptyInstances()
		if child.hasEmptyCache() {
			continue
		}
		kept = append(kept, child)
	}
	s.series.Store(kept)
}

// hasEmptyCache reports whether the series list was loaded and is empty.
func (s *Study) hasEmptyCache() bool {
	series, ok := s.series.Load()
	return ok && len(series) == 0
}
