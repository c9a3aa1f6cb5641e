package projections

import (
	"context"
	"sort"
	"strings"

	"capacitaciones/internal/application/textnorm"
	"capacitaciones/internal/domain/training"
)

// ListParticipantsDeps holds dependencies for the participant projection.
type ListParticipantsDeps struct {
	Trainings TrainingSource
}

// QueryListParticipants derives the global set of unique participants across
// all records for the filter picker.
// PRE: deps.Trainings is non-nil
// POST: One entry per normalized name, sorted by display name with Spanish
//
//	collation (base sensitivity)
func QueryListParticipants(ctx context.Context, deps ListParticipantsDeps) ([]training.Participant, error) {
	records, err := deps.Trainings.Load(ctx)
	if err != nil {
		return nil, err
	}
	return DedupeParticipants(records), nil
}

// DedupeParticipants merges participants by normalized name in record order.
// The first-seen display name is retained; a later occurrence carrying a
// non-blank id upgrades a stored id-less entry in place. Blank-name
// participants are skipped.
func DedupeParticipants(records []training.Training) []training.Participant {
	index := make(map[string]int)
	var out []training.Participant

	for _, t := range records {
		for _, p := range t.Participants {
			name := strings.TrimSpace(p.Name)
			if name == "" {
				continue
			}
			id := strings.TrimSpace(p.ID)
			key := textnorm.Normalize(name)

			i, seen := index[key]
			if !seen {
				index[key] = len(out)
				out = append(out, training.Participant{ID: id, Name: name})
				continue
			}
			if out[i].ID == "" && id != "" {
				out[i].ID = id
			}
		}
	}

	collator := textnorm.NewCollator()
	sort.SliceStable(out, func(i, j int) bool {
		return collator.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}
