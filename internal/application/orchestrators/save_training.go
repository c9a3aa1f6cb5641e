package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	trainingStore "capacitaciones/internal/adapters/storage/training"
	domain "capacitaciones/internal/domain/training"
)

// ErrTrainingNotFound is returned when an operation targets a record id that
// is not present in the registry.
var ErrTrainingNotFound = errors.New("capacitación no encontrada")

// SaveTrainingInput carries the record to create or edit.
// An empty Record.ID means create; a non-empty ID means edit in place.
// RosterText is an optional pasted participant batch (one "id,name" or bare
// "name" per line) appended to the record's roster before cleaning.
type SaveTrainingInput struct {
	Record     domain.Training
	RosterText string
}

// SaveTrainingDeps holds external dependencies for the save orchestrator.
type SaveTrainingDeps struct {
	Trainings  trainingStore.Store
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteSaveTraining validates and persists one training record.
// PRE: Deps are wired; Record carries the form fields as submitted
// POST: On create the record gets a fresh id and today's dateAdded and is
//
//	prepended to the registry; on edit the stored dateAdded is preserved
//	and the record is replaced in place
//
// INVARIANT: Participants are cleaned before validation; a record with no
// named participant is never persisted
func ExecuteSaveTraining(ctx context.Context, input SaveTrainingInput, deps SaveTrainingDeps) (domain.Training, error) {
	record := input.Record
	if input.RosterText != "" {
		record.Participants = append(record.Participants, domain.ParseRosterLines(input.RosterText)...)
	}
	record.Participants = domain.CleanParticipants(record.Participants)
	if err := record.Validate(); err != nil {
		return domain.Training{}, err
	}

	records, err := deps.Trainings.Load(ctx)
	if err != nil {
		return domain.Training{}, err
	}

	if record.ID == "" {
		record.ID = deps.GenerateID()
		record.DateAdded = deps.Now().Format(domain.DateAddedLayout)
		records = append([]domain.Training{record}, records...)
	} else {
		found := false
		for i := range records {
			if records[i].ID == record.ID {
				record.DateAdded = records[i].DateAdded
				records[i] = record
				found = true
				break
			}
		}
		if !found {
			return domain.Training{}, ErrTrainingNotFound
		}
	}

	if err := deps.Trainings.Save(ctx, records); err != nil {
		return domain.Training{}, err
	}

	slog.Info("training_saved",
		"id", record.ID,
		"name", record.TrainingName,
		"area", record.RequestingArea,
		"participants", len(record.Participants),
	)
	return record, nil
}
