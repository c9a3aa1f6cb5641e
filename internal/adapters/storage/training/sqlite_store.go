package training

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"capacitaciones/internal/adapters/storage"
	domain "capacitaciones/internal/domain/training"
)

// SQLiteStore implements Store on top of a single storage_slot row.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new training Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load reads the full training registry.
// PRE: ctx is valid
// POST: Returns stored records, or an empty slice when the slot is
// missing or its payload cannot be decoded
func (s *SQLiteStore) Load(ctx context.Context) ([]domain.Training, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT payload FROM storage_slot WHERE slot = ?", SlotName)

	var payload string
	err := row.Scan(&payload)
	if err == sql.ErrNoRows {
		return []domain.Training{}, nil
	}
	if err != nil {
		return nil, err
	}

	var records []domain.Training
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		// A corrupt payload degrades to an empty registry instead of
		// taking the whole application down.
		slog.Warn("training_slot_corrupt", "slot", SlotName, "error", err)
		return []domain.Training{}, nil
	}
	if records == nil {
		records = []domain.Training{}
	}
	return records, nil
}

// Save replaces the full training registry.
// PRE: records have been validated
// POST: Slot holds the JSON encoding of records
func (s *SQLiteStore) Save(ctx context.Context, records []domain.Training) error {
	if records == nil {
		records = []domain.Training{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := "INSERT INTO storage_slot (slot, payload, updated_at) VALUES (?, ?, ?) " +
		"ON CONFLICT(slot) DO UPDATE SET payload=excluded.payload, updated_at=excluded.updated_at"
	_, err = tx.ExecContext(ctx, query, SlotName, string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Clear removes the training registry slot.
// PRE: ctx is valid
// POST: Subsequent Load returns an empty slice
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM storage_slot WHERE slot = ?", SlotName)
	return err
}
