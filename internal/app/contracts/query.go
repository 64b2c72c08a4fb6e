package contracts

import (
	"context"
	"orthanc-service/internal/pkg/dto/requests"
	"orthanc-service/internal/pkg/dto/responses"
)

type QueryUsecase interface {
	ListModalities(ctx context.Context) ([]string, error)
	EchoModality(ctx context.Context, modality string) error
	CreateQuery(ctx context.Context, modality string, request *requests.ModalityQuery) (*responses.Query, error)
	StoreToModality(ctx context.Context, modality string, request *requests.StoreToModality) (*responses.Job, error)
	ListAnswers(ctx context.Context, queryID string) ([]responses.QueryAnswer, error)
	GetAnswer(ctx context.Context, queryID string, index int) (*responses.QueryAnswer, error)
	RetrieveAnswers(ctx context.Context, queryID string, request *requests.RetrieveAnswers) (*responses.Job, error)
}
