package contracts

import "context"

type ModalityLimiter interface {
	// Allow returns a 429 CustomError once the modality used up its window quota
	Allow(ctx context.Context, modality string) error
}
