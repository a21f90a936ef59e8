package usecases_port

import "context"

// RecordViewUseCase applies a view event delivered through the queue.
type RecordViewUseCase interface {
	Execute(ctx context.Context, propertyID string) error
}
