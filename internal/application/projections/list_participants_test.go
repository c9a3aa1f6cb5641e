package projections

import (
	"context"
	"testing"

	"capacitaciones/internal/domain/training"
)

// TestDedupeParticipants_IDUpgrade verifies the stored entry's id is upgraded
// in place while the first-seen display name is retained.
func TestDedupeParticipants_IDUpgrade(t *testing.T) {
	records := []training.Training{
		{Participants: []training.Participant{{ID: "", Name: "Ana"}}},
		{Participants: []training.Participant{{ID: "7", Name: "ana"}}},
	}
	got := DedupeParticipants(records)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 (%+v)", len(got), got)
	}
	if got[0].ID != "7" || got[0].Name != "Ana" {
		t.Errorf("entry = %+v, want {7 Ana}", got[0])
	}
}

// TestDedupeParticipants_NameNotOverwritten verifies an id-bearing first
// occurrence keeps both id and name on repeat sightings.
func TestDedupeParticipants_NameNotOverwritten(t *testing.T) {
	records := []training.Training{
		{Participants: []training.Participant{{ID: "1", Name: "José"}}},
		{Participants: []training.Participant{{ID: "2", Name: "jose"}}},
	}
	got := DedupeParticipants(records)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].ID != "1" || got[0].Name != "José" {
		t.Errorf("entry = %+v, want {1 José}", got[0])
	}
}

// TestDedupeParticipants_SkipsBlankAndSorts covers blank skipping and the
// locale-collated output order.
func TestDedupeParticipants_SkipsBlankAndSorts(t *testing.T) {
	records := []training.Training{
		{Participants: []training.Participant{
			{ID: "3", Name: "Óscar"},
			{ID: "", Name: "  "},
			{ID: "1", Name: "beto"},
			{ID: "2", Name: "Ángela"},
		}},
	}
	got := DedupeParticipants(records)
	want := []string{"Ángela", "beto", "Óscar"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Name != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, got[i].Name, want[i])
		}
	}
}

// TestQueryListParticipants wires the source through the projection.
func TestQueryListParticipants(t *testing.T) {
	src := &mockTrainingSource{records: []training.Training{
		{Participants: []training.Participant{{ID: " 5 ", Name: " Carla "}}},
	}}
	got, err := QueryListParticipants(context.Background(), ListParticipantsDeps{Trainings: src})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "5" || got[0].Name != "Carla" {
		t.Errorf("got = %+v, want trimmed {5 Carla}", got)
	}
}
