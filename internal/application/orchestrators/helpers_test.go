package orchestrators

import (
	"context"
	"fmt"
	"time"

	emailAdapter "capacitaciones/internal/adapters/email"
	domain "capacitaciones/internal/domain/training"
)

// mockTrainingStore implements trainingStore.Store in memory for testing.
type mockTrainingStore struct {
	records  []domain.Training
	loadErr  error
	saveErr  error
	clearErr error
	saves    int
}

// Load implements trainingStore.Store.
// PRE: none
// POST: returns the stored records or loadErr
func (m *mockTrainingStore) Load(_ context.Context) ([]domain.Training, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.records, nil
}

// Save implements trainingStore.Store.
// PRE: records are valid
// POST: the registry is replaced, saves counter incremented
func (m *mockTrainingStore) Save(_ context.Context, records []domain.Training) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = records
	m.saves++
	return nil
}

// Clear implements trainingStore.Store.
// PRE: none
// POST: the registry is emptied
func (m *mockTrainingStore) Clear(_ context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.records = nil
	return nil
}

// mockSender captures outgoing emails instead of delivering them.
type mockSender struct {
	sent    []emailAdapter.SendRequest
	sendErr error
}

func (m *mockSender) Send(_ context.Context, req emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	if m.sendErr != nil {
		return emailAdapter.SendResult{}, m.sendErr
	}
	m.sent = append(m.sent, req)
	return emailAdapter.SendResult{MessageID: "msg-1", SentAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}, nil
}

func (m *mockSender) SendBatch(ctx context.Context, reqs []emailAdapter.SendRequest) ([]emailAdapter.SendResult, error) {
	var results []emailAdapter.SendResult
	for _, req := range reqs {
		res, err := m.Send(ctx, req)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// sequenceID returns a deterministic id generator: gen-1, gen-2, ...
func sequenceID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
}

// fixedNow is the deterministic clock used by orchestrator tests.
func fixedNow() time.Time {
	return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
}

// validRecord returns a record that passes Validate.
func validRecord(id, name string) domain.Training {
	return domain.Training{
		ID:             id,
		TrainingName:   name,
		TrainerName:    "Laura Méndez",
		Objective:      "Refuerzo de seguridad",
		Duration:       4,
		Investment:     1200,
		RequestingArea: domain.AreaProduccion,
		Location:       "Sala 2",
		ScheduledDate:  "2026-09-15",
		Participants: []domain.Participant{
			{ID: "101", Name: "Juan Pérez"},
		},
		DateAdded: "01/08/2026",
	}
}
