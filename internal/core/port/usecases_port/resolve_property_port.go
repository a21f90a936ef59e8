package usecases_port

import (
	"context"
	"property-service/internal/core/domain"
)

type ResolvePropertyUseCase interface {
	Execute(ctx context.Context, slugOrID string, hint domain.ResolveHint) (*domain.Property, error)
}
