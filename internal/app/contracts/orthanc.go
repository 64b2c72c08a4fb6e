package contracts

import (
	"context"
	"orthanc-service/internal/pkg/orthanc_dto"
)

// OrthancRequester performs a single call against the Orthanc REST API and
// returns the decoded payload, or an *exceptions.TransportError.
type OrthancRequester interface {
	Request(ctx context.Context, request *orthanc_dto.Request) (*orthanc_dto.Payload, error)
}
