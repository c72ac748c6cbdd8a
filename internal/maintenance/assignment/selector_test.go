package assignment

import (
	"testing"

	"github.com/google/uuid"
)

func techID(b byte) uuid.UUID {
	var id uuid.UUID
	id[15] = b
	return id
}

func TestEffectiveAvailableFiltersOfflineAndUnwilling(t *testing.T) {
	technicians := []Technician{
		{ID: techID(1), Online: true, Disponibilidade: true},
		{ID: techID(2), Online: false, Disponibilidade: true},
		{ID: techID(3), Online: true, Disponibilidade: false},
	}

	available := EffectiveAvailable(technicians, nil)
	if len(available) != 1 {
		t.Fatalf("expected 1 available technician, got %d", len(available))
	}
	if available[0].ID != techID(1) {
		t.Fatalf("expected technician 1, got %s", available[0].ID)
	}
}

func TestEffectiveAvailableExcludesBusy(t *testing.T) {
	technicians := []Technician{
		{ID: techID(1), Online: true, Disponibilidade: true},
		{ID: techID(2), Online: true, Disponibilidade: true},
	}
	busy := map[uuid.UUID]bool{techID(1): true}

	available := EffectiveAvailable(technicians, busy)
	if len(available) != 1 {
		t.Fatalf("expected 1 available technician, got %d", len(available))
	}
	if available[0].ID != techID(2) {
		t.Fatalf("busy technician was not excluded, got %s", available[0].ID)
	}
}

func TestSelectPrefersSpecialtyMatch(t *testing.T) {
	available := []Technician{
		{ID: techID(1), Specialty: "ar_condicionado", Rating: 5.0},
		{ID: techID(2), Specialty: "elevador", Rating: 3.0},
	}

	id, ok := Select("elevador", available)
	if !ok {
		t.Fatal("expected a selection")
	}
	if id != techID(2) {
		t.Fatalf("expected specialty match to win over rating, got %s", id)
	}
}

func TestSelectFallsBackToAllWhenNoSpecialtyMatches(t *testing.T) {
	available := []Technician{
		{ID: techID(1), Specialty: "ar_condicionado", Rating: 2.0},
		{ID: techID(2), Specialty: "elevador", Rating: 4.5},
	}

	id, ok := Select("gerador", available)
	if !ok {
		t.Fatal("expected a selection")
	}
	if id != techID(2) {
		t.Fatalf("expected highest rating on fallback, got %s", id)
	}
}

func TestSelectBreaksRatingTieByLowestID(t *testing.T) {
	available := []Technician{
		{ID: techID(9), Specialty: "elevador", Rating: 4.0},
		{ID: techID(3), Specialty: "elevador", Rating: 4.0},
	}

	id, ok := Select("elevador", available)
	if !ok {
		t.Fatal("expected a selection")
	}
	if id != techID(3) {
		t.Fatalf("expected lowest ID on tie, got %s", id)
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	available := []Technician{
		{ID: techID(5), Specialty: "elevador", Rating: 4.0},
		{ID: techID(2), Specialty: "elevador", Rating: 4.0},
		{ID: techID(7), Specialty: "gerador", Rating: 5.0},
	}

	first, ok := Select("elevador", available)
	if !ok {
		t.Fatal("expected a selection")
	}
	for i := 0; i < 10; i++ {
		id, ok := Select("elevador", available)
		if !ok || id != first {
			t.Fatalf("selection changed between runs: %s vs %s", first, id)
		}
	}
}

func TestSelectEmptySet(t *testing.T) {
	if _, ok := Select("elevador", nil); ok {
		t.Fatal("expected no selection from empty set")
	}
}
