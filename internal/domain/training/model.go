package training

import (
	"errors"
	"strings"
	"time"
)

// Requesting area constants. Grouping and filtering use the raw stored value;
// the form surface only offers these three.
const (
	AreaAdministracion = "Administracion"
	AreaComercial      = "Comercial"
	AreaProduccion     = "Produccion"
)

// Chart metric constants.
const (
	MetricParticipants = "participants"
	MetricHours        = "hours"
	MetricInvestment   = "investment"
)

// DateAddedLayout is the display format of the creation timestamp (es-ES).
const DateAddedLayout = "02/01/2006"

// ScheduledDateLayout is the storage format of the scheduled date.
const ScheduledDateLayout = "2006-01-02"

// Domain errors.
var (
	ErrIncompleteForm = errors.New("por favor, complete todos los campos de la capacitación, incluyendo la fecha programada, el lugar y la inversión")
	ErrNoParticipants = errors.New("debe agregar al menos un participante válido (con nombre)")
)

// Participant is one roster entry. Identity for dedup purposes is the
// normalized name; the id is supplementary metadata and may be blank.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Training holds state for one scheduled training event.
// A Training owns its participant roster; participants never persist
// independently of a record.
type Training struct {
	ID             string        `json:"id"`
	TrainingName   string        `json:"trainingName"`
	TrainerName    string        `json:"trainerName"`
	Objective      string        `json:"objective"`
	Duration       float64       `json:"duration"`
	Investment     float64       `json:"investment"`
	RequestingArea string        `json:"requestingArea"`
	Location       string        `json:"location"`
	ScheduledDate  string        `json:"scheduledDate"`
	Participants   []Participant `json:"participants"`
	DateAdded      string        `json:"dateAdded"`
}

// Validate checks if the Training has valid data for the save path.
// PRE: Participants has already been cleaned with CleanParticipants
// POST: Returns a user-facing error if validation fails, nil otherwise
// INVARIANT: Duration > 0, Investment >= 0, at least one named participant
func (t *Training) Validate() error {
	if strings.TrimSpace(t.TrainingName) == "" ||
		strings.TrimSpace(t.TrainerName) == "" ||
		strings.TrimSpace(t.Objective) == "" ||
		strings.TrimSpace(t.RequestingArea) == "" ||
		strings.TrimSpace(t.Location) == "" ||
		strings.TrimSpace(t.ScheduledDate) == "" {
		return ErrIncompleteForm
	}
	if t.Duration <= 0 || t.Investment < 0 {
		return ErrIncompleteForm
	}
	if len(t.Participants) == 0 {
		return ErrNoParticipants
	}
	return nil
}

// ScheduledAt parses the scheduled date in the stored y-m-d layout.
// PRE: none
// POST: Returns the parsed date, or an error for blank/malformed input
func (t *Training) ScheduledAt() (time.Time, error) {
	return time.Parse(ScheduledDateLayout, t.ScheduledDate)
}

// CleanParticipants trims ids and names and drops entries whose name is blank
// after trimming. The original roster order is preserved.
// PRE: none
// POST: Returns a new slice; every entry has a non-blank Name
func CleanParticipants(ps []Participant) []Participant {
	out := make([]Participant, 0, len(ps))
	for _, p := range ps {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		out = append(out, Participant{ID: strings.TrimSpace(p.ID), Name: name})
	}
	return out
}

// ParseRosterLines parses a pasted participant batch, one entry per line.
// Accepted formats: "id,name" (remaining commas belong to the name) or a bare
// "name". Blank lines and lines without a name are skipped.
// PRE: none
// POST: Returns the parsed entries in input order
func ParseRosterLines(text string) []Participant {
	var out []Participant
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		id, name, found := strings.Cut(line, ",")
		if !found {
			name = id
			id = ""
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, Participant{ID: strings.TrimSpace(id), Name: name})
	}
	return out
}
