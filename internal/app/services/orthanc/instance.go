package orthanc

import (
	"context"
	"orthanc-service/internal/pkg/constvars"
	"time"
)

// Instance is a single DICOM file, the leaf of the hierarchy.
type Instance struct {
	resource
}

func NewInstance(id string, client *Client, lock bool) *Instance {
	return &Instance{resource: resource{id: id, level: LevelInstance, lock: lock, client: client}}
}

func (i *Instance) UID(ctx context.Context) (string, error) {
	return i.mainDicomTag(ctx, "SOPInstanceUID")
}

func (i *Instance) InstanceNumber(ctx context.Context) (int, error) {
	return i.mainDicomTagInt(ctx, "InstanceNumber")
}

func (i *Instance) CreationDate(ctx context.Context) (time.Time, error) {
	return i.dicomDate(ctx, "InstanceCreationDate", "InstanceCreationTime")
}

func (i *Instance) FileSize(ctx context.Context) (int, error) {
	info, err := i.MainInformation(ctx)
	if err != nil {
		return 0, err
	}
	return requiredInt(info, constvars.OrthancKeyFileSize, i.id)
}

// IndexInSeries is null on the server for instances without an InstanceNumber.
func (i *Instance) IndexInSeries(ctx context.Context) (int, error) {
	info, err := i.MainInformation(ctx)
	if err != nil {
		return 0, err
	}
	return requiredInt(info, constvars.OrthancKeyIndexInSeries, i.id)
}

func (i *Instance) ParentSeries(ctx context.Context) (*Series, error) {
	id, err := i.stringField(ctx, constvars.OrthancKeyParentSeries)
	if err != nil {
		return nil, err
	}
	return NewSeries(id, i.client, i.lock), nil
}

// FileContent downloads the DICOM file.
func (i *Instance) FileContent(ctx context.Context) ([]byte, error) {
	return i.getBytes(ctx, constvars.OrthancActionFile)
}

// Tags returns the full DICOM dataset keyed by tag ("0010,0010").
func (i *Instance) Tags(ctx context.Context) (Information, error) {
	return i.getObject(ctx, constvars.OrthancActionTags)
}

// SimplifiedTags returns the dataset keyed by tag name.
func (i *Instance) SimplifiedTags(ctx context.Context) (Information, error) {
	return i.getObject(ctx, constvars.OrthancActionSimplified)
}

// ContentByTag reads the raw value at a tag path such as "0008-1140", "0", "0008-1150".
func (i *Instance) ContentByTag(ctx context.Context, tagPath ...string) ([]byte, error) {
	return i.getBytes(ctx, append([]string{constvars.OrthancActionContent}, tagPath...)...)
}

// Preview returns the PNG rendering of the first frame.
func (i *Instance) Preview(ctx context.Context) ([]byte, error) {
	return i.getBytes(ctx, constvars.OrthancActionPreview)
}

// Anonymize returns the anonymized DICOM file. Nothing is stored on the server.
func (i *Instance) Anonymize(ctx context.Context, options *AnonymizeOptions) ([]byte, error) {
	body := options.request(false)
	payload, err := i.submitSynchronousMutation(ctx, anonymization, body)
	if err != nil {
		return nil, err
	}
	return bytesFromPayload(payload), nil
}

// Modify returns the modified DICOM file. Nothing is stored on the server.
func (i *Instance) Modify(ctx context.Context, options *ModifyOptions) ([]byte, error) {
	body := options.request(false)
	payload, err := i.submitSynchronousMutation(ctx, modification, body)
	if err != nil {
		return nil, err
	}
	return bytesFromPayload(payload), nil
}

func (i *Instance) getBytes(ctx context.Context, segments ...string) ([]byte, error) {
	payload, err := i.client.get(ctx, i.path(segments...), nil)
	if err != nil {
		return nil, i.notFound(err)
	}
	return bytesFromPayload(payload), nil
}

func (i *Instance) getObject(ctx context.Context, segments ...string) (Information, error) {
	payload, err := i.client.get(ctx, i.path(segments...), nil)
	if err != nil {
		return nil, i.notFound(err)
	}
	return objectFromPayload(payload)
}
