package projections

import (
	"context"

	"capacitaciones/internal/domain/training"
)

// TrainingSource is the read side of the record store needed by projections.
type TrainingSource interface {
	Load(ctx context.Context) ([]training.Training, error)
}
