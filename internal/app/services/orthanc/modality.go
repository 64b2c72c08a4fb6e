package orthanc

import (
	"context"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/orthanc_dto"
)

// Modality is a remote DICOM node declared in the Orthanc configuration.
type Modality struct {
	name   string
	client *Client
}

func NewModality(name string, client *Client) *Modality {
	return &Modality{name: name, client: client}
}

func (m *Modality) Name() string {
	return m.name
}

// Echo issues a C-ECHO.
func (m *Modality) Echo(ctx context.Context) error {
	_, err := m.client.post(ctx, m.path(constvars.OrthancActionEcho), struct{}{})
	return notFound(err, constvars.OrthancPathModalities, m.name)
}

// Query issues a C-FIND and returns a handle on its answers.
func (m *Modality) Query(ctx context.Context, level Level, query map[string]string) (*Query, error) {
	if query == nil {
		query = map[string]string{}
	}
	payload, err := m.client.post(ctx, m.path(constvars.OrthancActionQuery), &orthanc_dto.QueryRequest{
		Level: level.String(),
		Query: query,
	})
	if err != nil {
		return nil, notFound(err, constvars.OrthancPathModalities, m.name)
	}
	info, err := objectFromPayload(payload)
	if err != nil {
		return nil, err
	}
	id, err := requiredString(info, constvars.OrthancKeyID, m.name)
	if err != nil {
		return nil, err
	}
	return NewQuery(id, m.client), nil
}

// Store sends local resources to the modality with C-STORE and waits for it.
func (m *Modality) Store(ctx context.Context, resourceIDs []string) (Information, error) {
	payload, err := m.client.post(ctx, m.path(constvars.OrthancActionStore), &orthanc_dto.StoreRequest{
		Resources:   nonNilStrings(resourceIDs),
		Synchronous: true,
	})
	if err != nil {
		return nil, notFound(err, constvars.OrthancPathModalities, m.name)
	}
	return objectFromPayload(payload)
}

func (m *Modality) StoreAsJob(ctx context.Context, resourceIDs []string) (*Job, error) {
	payload, err := m.client.post(ctx, m.path(constvars.OrthancActionStore), &orthanc_dto.StoreRequest{
		Resources:   nonNilStrings(resourceIDs),
		Synchronous: false,
	})
	if err != nil {
		return nil, notFound(err, constvars.OrthancPathModalities, m.name)
	}
	return m.client.jobFromPayload(payload)
}

func (m *Modality) path(action string) string {
	return buildPath(constvars.OrthancPathModalities, m.name, action)
}
