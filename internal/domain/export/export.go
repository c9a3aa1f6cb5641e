// Package export serializes training records to the fixed CSV report layout.
// The layout is part of the external interface: a UTF-8 byte-order marker,
// the Spanish header row, LF line endings, and always-quoted text fields, so
// rows are built by hand instead of through encoding/csv.
package export

import (
	"strconv"
	"strings"

	"capacitaciones/internal/domain/training"
)

// BOM precedes the CSV body so spreadsheet tools reopen extended characters
// correctly.
const BOM = "\uFEFF"

// ReportFilename is the suggested download name for the report.
const ReportFilename = "reporte_capacitaciones.csv"

// TemplateFilename is the suggested download name for the import template.
const TemplateFilename = "plantilla_capacitaciones.csv"

// Header is the fixed report header row.
var Header = []string{
	"ID",
	"Nombre Capacitación",
	"Capacitador",
	"Objetivo",
	"Duración (hrs)",
	"Inversión ($)",
	"Área Solicitante",
	"Lugar",
	"Fecha Programada",
	"Participantes",
}

// Report serializes the given records (the caller's currently filtered set)
// to CSV. One row per record in input order.
// PRE: records have passed the save or import validation path
// POST: Returns the BOM-prefixed CSV document
func Report(records []training.Training) []byte {
	var b strings.Builder
	b.WriteString(BOM)
	b.WriteString(strings.Join(Header, ","))

	for _, t := range records {
		row := []string{
			t.ID,
			quote(t.TrainingName),
			quote(t.TrainerName),
			quote(t.Objective),
			formatNumber(t.Duration),
			formatNumber(t.Investment),
			t.RequestingArea,
			quote(t.Location),
			t.ScheduledDate,
			quote(EncodeParticipants(t.Participants)),
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(row, ","))
	}
	return []byte(b.String())
}

// EncodeParticipants serializes a roster as id:name pairs joined by "|".
// A blank id produces ":name".
func EncodeParticipants(ps []training.Participant) string {
	pairs := make([]string, 0, len(ps))
	for _, p := range ps {
		pairs = append(pairs, p.ID+":"+p.Name)
	}
	return strings.Join(pairs, "|")
}

// Template returns the fixed single-example-row CSV offered as an import
// starting point. Not part of the codec's correctness surface.
func Template() []byte {
	header := "trainingName,trainerName,objective,duration,investment,requestingArea,location,scheduledDate,participants"
	example := `"Curso de Ejemplo","Entrenador Ejemplo","Objetivo de ejemplo",8,5000,"Produccion","Sala de Juntas","2025-01-15","101:Juan Perez|102:Maria Lopez"`
	return []byte(header + "\n" + example)
}

// quote wraps a text field in double quotes, doubling internal quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// formatNumber renders a metric without a trailing ".0" for whole values.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
