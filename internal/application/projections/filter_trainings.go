package projections

import (
	"context"
	"strings"
	"time"

	"capacitaciones/internal/application/textnorm"
	"capacitaciones/internal/domain/training"
)

// Filter carries the dashboard filter controls. Every field is optional and
// is a no-op when blank; active predicates are ANDed.
type Filter struct {
	Area            string // exact match against requestingArea
	ParticipantName string // normalized exact match against any roster name
	StartDate       string // inclusive lower bound, y-m-d
	EndDate         string // inclusive upper bound, y-m-d
	SearchText      string // normalized substring over training or trainer name
}

// Apply returns the records matching every active predicate, preserving the
// original relative order.
// PRE: none
// POST: Returns a new slice; the input is not mutated
func (f Filter) Apply(records []training.Training) []training.Training {
	participantKey := textnorm.Normalize(strings.TrimSpace(f.ParticipantName))
	searchKey := textnorm.Normalize(strings.TrimSpace(f.SearchText))
	start, hasStart := parseBound(f.StartDate)
	end, hasEnd := parseBound(f.EndDate)

	out := make([]training.Training, 0, len(records))
	for _, t := range records {
		if f.Area != "" && t.RequestingArea != f.Area {
			continue
		}
		if participantKey != "" && !rosterHasName(t.Participants, participantKey) {
			continue
		}
		if hasStart || hasEnd {
			scheduled, err := t.ScheduledAt()
			if err != nil {
				// A record without a parseable date never matches an active bound.
				continue
			}
			if hasStart && scheduled.Before(start) {
				continue
			}
			if hasEnd && scheduled.After(end) {
				continue
			}
		}
		if searchKey != "" &&
			!strings.Contains(textnorm.Normalize(t.TrainingName), searchKey) &&
			!strings.Contains(textnorm.Normalize(t.TrainerName), searchKey) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// parseBound parses a y-m-d filter bound; malformed or blank bounds are inert.
func parseBound(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(training.ScheduledDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func rosterHasName(ps []training.Participant, key string) bool {
	for _, p := range ps {
		if textnorm.Normalize(p.Name) == key {
			return true
		}
	}
	return false
}

// GetTrainingListQuery carries input for the filtered list projection.
type GetTrainingListQuery struct {
	Filter Filter
}

// GetTrainingListDeps holds dependencies for the list projection.
type GetTrainingListDeps struct {
	Trainings TrainingSource
}

// QueryGetTrainingList loads the record collection and applies the filter.
// PRE: deps.Trainings is non-nil
// POST: Returns the matching subset in stored order
func QueryGetTrainingList(ctx context.Context, query GetTrainingListQuery, deps GetTrainingListDeps) ([]training.Training, error) {
	records, err := deps.Trainings.Load(ctx)
	if err != nil {
		return nil, err
	}
	return query.Filter.Apply(records), nil
}
