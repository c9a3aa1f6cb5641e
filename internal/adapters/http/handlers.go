package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"capacitaciones/internal/application/minutes"
	"capacitaciones/internal/application/orchestrators"
	"capacitaciones/internal/application/projections"
	"capacitaciones/internal/domain/export"
	domain "capacitaciones/internal/domain/training"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// userError maps a domain validation failure to a 400 with its Spanish
// message; anything else stays a generic 500.
func userError(w http.ResponseWriter, err error) {
	var importErr *orchestrators.ImportTrainingsValidationError
	switch {
	case errors.Is(err, domain.ErrIncompleteForm),
		errors.Is(err, domain.ErrNoParticipants),
		errors.Is(err, orchestrators.ErrNoRecipients),
		errors.As(err, &importErr):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
	case errors.Is(err, orchestrators.ErrTrainingNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		internalError(w, err)
	}
}

// registerRoutes wires the JSON API onto the mux.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/trainings", handleTrainings)
	mux.HandleFunc("/api/trainings/export", handleExportTrainings)
	mux.HandleFunc("/api/trainings/template", handleTemplateDownload)
	mux.HandleFunc("/api/trainings/import", handleImportTrainings)
	mux.HandleFunc("/api/trainings/", handleTrainingByID)
	mux.HandleFunc("/api/dashboard", handleDashboard)
	mux.HandleFunc("/api/participants", handleParticipants)
	mux.HandleFunc("/api/perf", handlePerfSnapshot)
}

// savePayload is the create/edit request body: the record fields plus an
// optional pasted participant batch parsed server-side.
type savePayload struct {
	domain.Training
	RosterText string `json:"rosterText"`
}

// parseFilter reads the shared filter query parameters.
func parseFilter(r *http.Request) projections.Filter {
	q := r.URL.Query()
	return projections.Filter{
		Area:            q.Get("area"),
		ParticipantName: q.Get("participant"),
		StartDate:       q.Get("start_date"),
		EndDate:         q.Get("end_date"),
		SearchText:      q.Get("q"),
	}
}

// handleTrainings handles /api/trainings:
// GET lists the filtered records, POST creates one, DELETE clears the registry.
func handleTrainings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		records, err := projections.QueryGetTrainingList(r.Context(),
			projections.GetTrainingListQuery{Filter: parseFilter(r)},
			projections.GetTrainingListDeps{Trainings: stores.TrainingStore})
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, records)

	case "POST":
		var payload savePayload
		if err := strictDecode(r, &payload); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		payload.Training.ID = "" // create path always mints the id
		saved, err := orchestrators.ExecuteSaveTraining(r.Context(),
			orchestrators.SaveTrainingInput{Record: payload.Training, RosterText: payload.RosterText},
			orchestrators.SaveTrainingDeps{
				Trainings:  stores.TrainingStore,
				GenerateID: generateID,
				Now:        timeNow,
			})
		if err != nil {
			userError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, saved)

	case "DELETE":
		err := orchestrators.ExecuteClearTrainings(r.Context(),
			orchestrators.ClearTrainingsDeps{Trainings: stores.TrainingStore})
		if err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleTrainingByID handles /api/trainings/{id} plus the per-record
// subresources {id}/minutes and {id}/invite.
func handleTrainingByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/trainings/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	switch sub {
	case "":
		switch r.Method {
		case "GET":
			record, ok, err := findTraining(r, id)
			if err != nil {
				internalError(w, err)
				return
			}
			if !ok {
				http.Error(w, orchestrators.ErrTrainingNotFound.Error(), http.StatusNotFound)
				return
			}
			writeJSON(w, record)
		case "PUT":
			var payload savePayload
			if err := strictDecode(r, &payload); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			payload.Training.ID = id
			saved, err := orchestrators.ExecuteSaveTraining(r.Context(),
				orchestrators.SaveTrainingInput{Record: payload.Training, RosterText: payload.RosterText},
				orchestrators.SaveTrainingDeps{
					Trainings:  stores.TrainingStore,
					GenerateID: generateID,
					Now:        timeNow,
				})
			if err != nil {
				userError(w, err)
				return
			}
			writeJSON(w, saved)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	case "minutes":
		handleMinutes(w, r, id)
	case "invite":
		handleInvite(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

// findTraining loads one record by id.
func findTraining(r *http.Request, id string) (domain.Training, bool, error) {
	records, err := stores.TrainingStore.Load(r.Context())
	if err != nil {
		return domain.Training{}, false, err
	}
	for _, record := range records {
		if record.ID == id {
			return record, true, nil
		}
	}
	return domain.Training{}, false, nil
}

// handleDashboard handles GET /api/dashboard?metric=...&<filter params>.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	result, err := projections.QueryGetDashboard(r.Context(),
		projections.GetDashboardQuery{
			Filter: parseFilter(r),
			Metric: r.URL.Query().Get("metric"),
		},
		projections.GetDashboardDeps{Trainings: stores.TrainingStore})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, result)
}

// handleParticipants handles GET /api/participants.
// Returns the deduplicated roster across all records for the filter picker.
func handleParticipants(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	participants, err := projections.QueryListParticipants(r.Context(),
		projections.ListParticipantsDeps{Trainings: stores.TrainingStore})
	if err != nil {
		internalError(w, err)
		return
	}
	if participants == nil {
		participants = []domain.Participant{}
	}
	writeJSON(w, participants)
}

// handleExportTrainings handles GET /api/trainings/export.
// The same filter parameters as the list endpoint select the exported rows.
func handleExportTrainings(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	records, err := projections.QueryGetTrainingList(r.Context(),
		projections.GetTrainingListQuery{Filter: parseFilter(r)},
		projections.GetTrainingListDeps{Trainings: stores.TrainingStore})
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.ReportFilename+`"`)
	w.Write(export.Report(records))
}

// handleTemplateDownload handles GET /api/trainings/template.
func handleTemplateDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.TemplateFilename+`"`)
	w.Write(export.Template())
}

// handleImportTrainings handles POST /api/trainings/import (multipart upload,
// field "file").
func handleImportTrainings(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "archivo CSV requerido", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := orchestrators.ExecuteImportTrainings(r.Context(),
		orchestrators.ImportTrainingsInput{Reader: file},
		orchestrators.ImportTrainingsDeps{
			Trainings:  stores.TrainingStore,
			GenerateID: generateID,
			Now:        timeNow,
		})
	if err != nil {
		userError(w, err)
		return
	}

	rowErrors := result.Errors
	if rowErrors == nil {
		rowErrors = []orchestrators.ImportTrainingsRowError{}
	}
	writeJSON(w, map[string]any{
		"total":    result.Total,
		"accepted": result.Accepted,
		"errors":   rowErrors,
	})
}

// handleMinutes handles GET /api/trainings/{id}/minutes.
// The rendered document opens in a new tab for printing.
func handleMinutes(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	record, ok, err := findTraining(r, id)
	if err != nil {
		internalError(w, err)
		return
	}
	if !ok {
		http.Error(w, orchestrators.ErrTrainingNotFound.Error(), http.StatusNotFound)
		return
	}
	doc, err := minutes.Render(record)
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(doc)
}

// handleInvite handles POST /api/trainings/{id}/invite.
// Always returns the mailto variant; delivers through the provider when a
// sender is configured.
func handleInvite(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var input struct {
		Emails string `json:"emails"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if emailSender != nil {
		result, err := orchestrators.ExecuteSendInvitation(r.Context(),
			orchestrators.SendInvitationInput{TrainingID: id, Emails: input.Emails},
			orchestrators.SendInvitationDeps{
				Trainings:   stores.TrainingStore,
				EmailSender: emailSender,
				FromAddress: emailFromAddress,
				ReplyTo:     emailReplyTo,
			})
		if err != nil {
			userError(w, err)
			return
		}
		writeJSON(w, map[string]any{
			"sent":      true,
			"messageId": result.MessageID,
			"mailto":    result.Invitation.MailtoURL(),
		})
		return
	}

	record, ok, err := findTraining(r, id)
	if err != nil {
		internalError(w, err)
		return
	}
	if !ok {
		http.Error(w, orchestrators.ErrTrainingNotFound.Error(), http.StatusNotFound)
		return
	}
	inv, err := orchestrators.ComposeInvitation(record, input.Emails)
	if err != nil {
		userError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"sent":   false,
		"mailto": inv.MailtoURL(),
	})
}

// handlePerfSnapshot handles GET /api/perf?minutes=N.
// Returns request and query timings from the in-memory collector.
func handlePerfSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if perfCollector == nil {
		http.Error(w, "perf collector disabled", http.StatusServiceUnavailable)
		return
	}
	window := 15 * time.Minute
	if v := r.URL.Query().Get("minutes"); v != "" {
		if d, err := time.ParseDuration(v + "m"); err == nil && d > 0 {
			window = d
		}
	}
	writeJSON(w, perfCollector.Snapshot(timeNow().Add(-window), 20))
}
