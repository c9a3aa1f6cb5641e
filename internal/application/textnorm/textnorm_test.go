package textnorm_test

import (
	"sort"
	"testing"

	"capacitaciones/internal/application/textnorm"
)

// TestNormalize_AccentAndCaseFolding verifies Latin diacritics and case fold
// to the same key.
func TestNormalize_AccentAndCaseFolding(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"ÁÉÍÓÚ", "aeiou"},
		{"áéíóú", "aeiou"},
		{"Ñoño", "nono"},
		{"José PÉREZ", "jose perez"},
		{"Ümlaut Çedilla", "umlaut cedilla"},
		{"sin acentos", "sin acentos"},
	}
	for _, tt := range tests {
		if got := textnorm.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestNormalize_Idempotent verifies normalize(s) == normalize(normalize(s)).
func TestNormalize_Idempotent(t *testing.T) {
	for _, s := range []string{"Capacitación", "ÁÉÍ", "ana", ""} {
		once := textnorm.Normalize(s)
		if twice := textnorm.Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", s, once, twice)
		}
	}
}

// TestNewCollator_BaseSensitivity verifies accented names collate next to
// their unaccented forms.
func TestNewCollator_BaseSensitivity(t *testing.T) {
	names := []string{"Óscar", "Ana", "ángela", "Beto"}
	c := textnorm.NewCollator()
	sort.Slice(names, func(i, j int) bool {
		return c.CompareString(names[i], names[j]) < 0
	})
	want := []string{"Ana", "ángela", "Beto", "Óscar"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", names, want)
		}
	}
}
