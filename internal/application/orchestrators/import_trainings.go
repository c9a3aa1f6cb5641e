package orchestrators

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	trainingStore "capacitaciones/internal/adapters/storage/training"
	"capacitaciones/internal/domain/export"
	domain "capacitaciones/internal/domain/training"
)

// requiredColumns are the header names an import file must carry. Column
// order does not matter and extra columns are ignored.
var requiredColumns = []string{
	"trainingName", "trainerName", "objective", "duration", "investment",
	"requestingArea", "location", "scheduledDate", "participants",
}

// columnAliases maps the report's Spanish display headers onto the canonical
// column names, so an exported report re-imports without editing. The
// report's leading ID column has no alias: ids are re-minted on import.
var columnAliases = func() map[string]string {
	m := make(map[string]string, len(requiredColumns))
	for i, col := range requiredColumns {
		m[export.Header[i+1]] = col
	}
	return m
}()

// ImportTrainingsInput carries the uploaded CSV stream.
// PRE: Reader is a CSV stream with a header row.
// POST: Accepted rows are prepended to the registry; rejected rows are
// reported with a reason and never persisted.
type ImportTrainingsInput struct {
	Reader io.Reader
}

// ImportTrainingsResult holds aggregate counts and per-row errors from an import run.
type ImportTrainingsResult struct {
	Total    int
	Accepted int
	Errors   []ImportTrainingsRowError
	Imported []domain.Training
}

// ImportTrainingsRowError describes why a single CSV row was rejected.
type ImportTrainingsRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportTrainingsDeps holds external dependencies for the import orchestrator.
type ImportTrainingsDeps struct {
	Trainings  trainingStore.Store
	GenerateID func() string
	Now        func() time.Time
}

// ImportTrainingsValidationError is returned when the file structure itself is
// invalid: a required column is missing or no row survives validation.
type ImportTrainingsValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ImportTrainingsValidationError) Error() string {
	return e.Message
}

// ExecuteImportTrainings parses a CSV stream and prepends the valid rows to the registry.
// PRE: Input.Reader contains a CSV with the required header columns
// POST: Valid rows become new records (fresh ids, today's dateAdded) inserted
//
//	as a block before the existing records, keeping file order within the
//	block; invalid rows are dropped and reported
//
// INVARIANT: Existing records are never modified or removed by an import
func ExecuteImportTrainings(ctx context.Context, input ImportTrainingsInput, deps ImportTrainingsDeps) (ImportTrainingsResult, error) {
	cr := csv.NewReader(input.Reader)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return ImportTrainingsResult{}, &ImportTrainingsValidationError{Message: "el archivo CSV está vacío o es inválido"}
	}
	// Strip a UTF-8 BOM so exported reports re-import cleanly.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if canon, ok := columnAliases[h]; ok {
			h = canon
		}
		colIdx[h] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			return ImportTrainingsResult{}, &ImportTrainingsValidationError{
				Message: "el archivo CSV no tiene la columna requerida: " + col,
			}
		}
	}

	getCol := func(row []string, col string) string {
		i, ok := colIdx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	dateAdded := deps.Now().Format(domain.DateAddedLayout)
	var result ImportTrainingsResult
	rowNum := 1

	for {
		row, err := cr.Read()
		if err != nil {
			break
		}
		rowNum++
		result.Total++

		reject := func(msg string) {
			result.Errors = append(result.Errors, ImportTrainingsRowError{Row: rowNum, Message: msg})
		}

		name := getCol(row, "trainingName")
		trainer := getCol(row, "trainerName")
		scheduled := getCol(row, "scheduledDate")
		if name == "" {
			reject("el nombre de la capacitación es requerido")
			continue
		}
		if trainer == "" {
			reject("el capacitador es requerido")
			continue
		}
		if scheduled == "" {
			reject("la fecha programada es requerida")
			continue
		}

		duration, err := strconv.ParseFloat(getCol(row, "duration"), 64)
		if err != nil || duration <= 0 {
			reject("la duración debe ser un número mayor que cero")
			continue
		}
		investment, err := strconv.ParseFloat(getCol(row, "investment"), 64)
		if err != nil || investment < 0 {
			reject("la inversión debe ser un número no negativo")
			continue
		}

		record := domain.Training{
			ID:             deps.GenerateID(),
			TrainingName:   name,
			TrainerName:    trainer,
			Objective:      getCol(row, "objective"),
			Duration:       duration,
			Investment:     investment,
			RequestingArea: getCol(row, "requestingArea"),
			Location:       getCol(row, "location"),
			ScheduledDate:  scheduled,
			Participants:   parseParticipantsField(getCol(row, "participants")),
			DateAdded:      dateAdded,
		}
		result.Imported = append(result.Imported, record)
		result.Accepted++
	}

	if result.Accepted == 0 {
		return result, &ImportTrainingsValidationError{
			Message: "no se encontraron capacitaciones válidas en el archivo",
		}
	}

	records, err := deps.Trainings.Load(ctx)
	if err != nil {
		return result, err
	}
	records = append(append([]domain.Training{}, result.Imported...), records...)
	if err := deps.Trainings.Save(ctx, records); err != nil {
		return result, err
	}

	slog.Info("trainings_import",
		"total", result.Total,
		"accepted", result.Accepted,
		"rejected", len(result.Errors),
	)
	return result, nil
}

// parseParticipantsField decodes the "id:name|id:name" roster cell. Pieces
// with a blank id or name are dropped.
func parseParticipantsField(cell string) []domain.Participant {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	var out []domain.Participant
	for _, piece := range strings.Split(cell, "|") {
		id, name, found := strings.Cut(piece, ":")
		if !found {
			continue
		}
		id = strings.TrimSpace(id)
		name = strings.TrimSpace(name)
		if id == "" || name == "" {
			continue
		}
		out = append(out, domain.Participant{ID: id, Name: name})
	}
	return out
}
