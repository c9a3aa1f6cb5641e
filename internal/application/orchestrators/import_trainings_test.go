package orchestrators

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"capacitaciones/internal/domain/export"
	domain "capacitaciones/internal/domain/training"
)

func importDeps(store *mockTrainingStore) ImportTrainingsDeps {
	return ImportTrainingsDeps{
		Trainings:  store,
		GenerateID: sequenceID(),
		Now:        fixedNow,
	}
}

const importHeader = "id,trainingName,trainerName,objective,duration,investment,requestingArea,location,scheduledDate,participants\n"

// TestExecuteImportTrainings_AcceptsValidRows verifies valid rows become
// records with fresh ids, prepended as a block in file order.
func TestExecuteImportTrainings_AcceptsValidRows(t *testing.T) {
	store := &mockTrainingStore{records: []domain.Training{validRecord("t-old", "Excel")}}
	csv := importHeader +
		"x1,Seguridad Industrial,Laura Méndez,Normas básicas,4,1200,Produccion,Sala 2,2026-09-15,101:Juan Pérez|102:Ana Gómez\n" +
		"x2,Liderazgo,Marco Díaz,Equipos,8,2500.50,Administracion,Auditorio,2026-10-01,\n"

	result, err := ExecuteImportTrainings(context.Background(), ImportTrainingsInput{Reader: strings.NewReader(csv)}, importDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 2 || result.Accepted != 2 {
		t.Errorf("total/accepted = %d/%d, want 2/2", result.Total, result.Accepted)
	}
	if len(store.records) != 3 {
		t.Fatalf("len = %d, want 3", len(store.records))
	}
	if store.records[0].TrainingName != "Seguridad Industrial" || store.records[1].TrainingName != "Liderazgo" {
		t.Errorf("block order wrong: [%s %s]", store.records[0].TrainingName, store.records[1].TrainingName)
	}
	if store.records[2].ID != "t-old" {
		t.Errorf("existing record displaced: %s", store.records[2].ID)
	}
	// File ids are ignored, fresh ids are minted
	if store.records[0].ID != "gen-1" {
		t.Errorf("ID = %q, want gen-1", store.records[0].ID)
	}
	if store.records[0].DateAdded != "30/08/2026" {
		t.Errorf("DateAdded = %q, want 30/08/2026", store.records[0].DateAdded)
	}
	if store.records[1].Investment != 2500.50 {
		t.Errorf("Investment = %v, want 2500.50", store.records[1].Investment)
	}
	got := store.records[0].Participants
	if len(got) != 2 || got[1].ID != "102" || got[1].Name != "Ana Gómez" {
		t.Errorf("participants = %+v", got)
	}
}

// TestExecuteImportTrainings_RejectsInvalidRows verifies each rejection reason
// and that rejected rows never persist.
func TestExecuteImportTrainings_RejectsInvalidRows(t *testing.T) {
	store := &mockTrainingStore{}
	csv := importHeader +
		",,Laura,Obj,4,100,Produccion,Sala,2026-09-15,\n" + // blank name
		",Ventas,,Obj,4,100,Produccion,Sala,2026-09-15,\n" + // blank trainer
		",Ventas,Laura,Obj,4,100,Produccion,Sala,,\n" + // blank date
		",Ventas,Laura,Obj,0,100,Produccion,Sala,2026-09-15,\n" + // zero duration
		",Ventas,Laura,Obj,abc,100,Produccion,Sala,2026-09-15,\n" + // bad duration
		",Ventas,Laura,Obj,4,-5,Produccion,Sala,2026-09-15,\n" + // negative investment
		",Ventas,Laura,Obj,4,100,Produccion,Sala,2026-09-15,\n" // valid

	result, err := ExecuteImportTrainings(context.Background(), ImportTrainingsInput{Reader: strings.NewReader(csv)}, importDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 7 || result.Accepted != 1 {
		t.Errorf("total/accepted = %d/%d, want 7/1", result.Total, result.Accepted)
	}
	if len(result.Errors) != 6 {
		t.Fatalf("errors = %d, want 6: %v", len(result.Errors), result.Errors)
	}
	// Row numbers are 1-based including the header row
	if result.Errors[0].Row != 2 {
		t.Errorf("first error row = %d, want 2", result.Errors[0].Row)
	}
	if len(store.records) != 1 {
		t.Errorf("persisted = %d, want 1", len(store.records))
	}
}

// TestExecuteImportTrainings_MissingColumn verifies a structurally broken file
// fails whole without touching the store.
func TestExecuteImportTrainings_MissingColumn(t *testing.T) {
	store := &mockTrainingStore{}
	csv := "trainingName,trainerName\nVentas,Laura\n"

	_, err := ExecuteImportTrainings(context.Background(), ImportTrainingsInput{Reader: strings.NewReader(csv)}, importDeps(store))
	var verr *ImportTrainingsValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ImportTrainingsValidationError", err)
	}
	if !strings.Contains(verr.Message, "objective") {
		t.Errorf("message = %q, want missing column name", verr.Message)
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0", store.saves)
	}
}

// TestExecuteImportTrainings_ZeroAccepted verifies an import where every row
// is invalid fails whole.
func TestExecuteImportTrainings_ZeroAccepted(t *testing.T) {
	store := &mockTrainingStore{}
	csv := importHeader + ",,,,,,,,,\n"

	result, err := ExecuteImportTrainings(context.Background(), ImportTrainingsInput{Reader: strings.NewReader(csv)}, importDeps(store))
	var verr *ImportTrainingsValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ImportTrainingsValidationError", err)
	}
	if result.Total != 1 || result.Accepted != 0 {
		t.Errorf("total/accepted = %d/%d, want 1/0", result.Total, result.Accepted)
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0", store.saves)
	}
}

// TestExecuteImportTrainings_ReorderedAndExtraColumns verifies the header is
// matched by name, not position.
func TestExecuteImportTrainings_ReorderedAndExtraColumns(t *testing.T) {
	store := &mockTrainingStore{}
	csv := "scheduledDate,extra,trainerName,trainingName,objective,duration,investment,requestingArea,location,participants\n" +
		"2026-09-15,ignored,Laura Méndez,Seguridad,Obj,4,100,Produccion,Sala 2,\n"

	result, err := ExecuteImportTrainings(context.Background(), ImportTrainingsInput{Reader: strings.NewReader(csv)}, importDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Accepted != 1 {
		t.Fatalf("accepted = %d, want 1", result.Accepted)
	}
	if store.records[0].TrainingName != "Seguridad" || store.records[0].ScheduledDate != "2026-09-15" {
		t.Errorf("record = %+v", store.records[0])
	}
}

// TestExecuteImportTrainings_BOMHeader verifies exported reports re-import
// despite the UTF-8 BOM before the first header cell.
func TestExecuteImportTrainings_BOMHeader(t *testing.T) {
	store := &mockTrainingStore{}
	csv := "\uFEFFid,trainingName,trainerName,objective,duration,investment,requestingArea,location,scheduledDate,participants\n" +
		"x,Seguridad,Laura,Obj,4,100,Produccion,Sala,2026-09-15,\n"

	result, err := ExecuteImportTrainings(context.Background(), ImportTrainingsInput{Reader: strings.NewReader(csv)}, importDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Accepted != 1 {
		t.Errorf("accepted = %d, want 1", result.Accepted)
	}
}

// TestExecuteImportTrainings_ExportRoundTrip verifies a report produced by
// export.Report re-imports unchanged: the Spanish display headers alias the
// canonical column names and the report's ID column is ignored.
func TestExecuteImportTrainings_ExportRoundTrip(t *testing.T) {
	original := validRecord("t-1", "Seguridad Industrial")
	report := export.Report([]domain.Training{original})

	store := &mockTrainingStore{}
	result, err := ExecuteImportTrainings(context.Background(), ImportTrainingsInput{Reader: bytes.NewReader(report)}, importDeps(store))
	if err != nil {
		t.Fatalf("round-trip import failed: %v", err)
	}
	if result.Total != 1 || result.Accepted != 1 {
		t.Fatalf("total/accepted = %d/%d, want 1/1", result.Total, result.Accepted)
	}

	got := store.records[0]
	if got.ID == original.ID || got.ID == "" {
		t.Errorf("ID = %q, want a fresh id", got.ID)
	}
	original.ID = got.ID
	original.DateAdded = "30/08/2026" // re-imported records are dated today
	if !reflect.DeepEqual(got, original) {
		t.Errorf("round-tripped record = %+v, want %+v", got, original)
	}
}

// TestParseParticipantsField verifies the roster cell codec drops malformed
// pieces instead of failing the row.
func TestParseParticipantsField(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want int
	}{
		{"empty", "", 0},
		{"two valid", "101:Juan|102:Ana", 2},
		{"blank id dropped", ":Juan|102:Ana", 1},
		{"blank name dropped", "101:|102:Ana", 1},
		{"no separator dropped", "Juan|102:Ana", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseParticipantsField(tt.cell)
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d (%+v)", len(got), tt.want, got)
			}
		})
	}
}
