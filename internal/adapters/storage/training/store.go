package training

import (
	"context"

	domain "capacitaciones/internal/domain/training"
)

// SlotName is the storage slot holding the training registry payload.
const SlotName = "trainings"

// Store persists the full training registry as a single record set.
type Store interface {
	Load(ctx context.Context) ([]domain.Training, error)
	Save(ctx context.Context, records []domain.Training) error
	Clear(ctx context.Context) error
}
