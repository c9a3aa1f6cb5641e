package orchestrators

import (
	"context"
	"log/slog"

	trainingStore "capacitaciones/internal/adapters/storage/training"
)

// ClearTrainingsDeps holds external dependencies for the clear orchestrator.
type ClearTrainingsDeps struct {
	Trainings trainingStore.Store
}

// ExecuteClearTrainings removes every record from the registry.
// The confirmation dialog lives in the UI; by the time this runs the
// destruction is intended.
// PRE: Deps are wired
// POST: Subsequent loads return an empty registry
func ExecuteClearTrainings(ctx context.Context, deps ClearTrainingsDeps) error {
	if err := deps.Trainings.Clear(ctx); err != nil {
		return err
	}
	slog.Info("trainings_cleared")
	return nil
}
