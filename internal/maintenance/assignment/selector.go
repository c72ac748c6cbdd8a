// Package assignment decides which technician, if any, receives a generated
// maintenance ticket. Both the availability resolution and the selection are
// pure: callers supply the technician snapshot and the busy set.
package assignment

import (
	"bytes"
	"strings"

	"github.com/google/uuid"
)

// Technician is the slice of technician state the assignment logic needs.
type Technician struct {
	ID              uuid.UUID
	Specialty       string
	Rating          float64
	Online          bool
	Disponibilidade bool
}

// EffectiveAvailable computes the live availability set: technicians who are
// online, have the disponibilidade preference on, and have no ticket in
// progress. The busy set is keyed by technician ID.
//
// The workload condition is the reason this resolver exists: a technician who
// is online but mid-job must not receive a second assignment, and the stored
// availability flag alone cannot express that.
func EffectiveAvailable(technicians []Technician, busy map[uuid.UUID]bool) []Technician {
	available := make([]Technician, 0, len(technicians))
	for _, tech := range technicians {
		if !tech.Online || !tech.Disponibilidade {
			continue
		}
		if busy[tech.ID] {
			continue
		}
		available = append(available, tech)
	}
	return available
}

// Select picks the best candidate for a contract's product type from the
// effective-availability set. The order is total and deterministic:
//
//  1. technicians whose specialty matches the product type, when any match;
//  2. highest rating;
//  3. lowest technician ID, to break rating ties.
//
// Returns false when the set is empty; the caller then creates the ticket
// unassigned, which is a valid outcome, not an error.
func Select(productType string, available []Technician) (uuid.UUID, bool) {
	if len(available) == 0 {
		return uuid.Nil, false
	}

	candidates := matchingSpecialty(productType, available)
	if len(candidates) == 0 {
		candidates = available
	}

	best := candidates[0]
	for _, tech := range candidates[1:] {
		if tech.Rating > best.Rating {
			best = tech
			continue
		}
		if tech.Rating == best.Rating && bytes.Compare(tech.ID[:], best.ID[:]) < 0 {
			best = tech
		}
	}

	return best.ID, true
}

func matchingSpecialty(productType string, technicians []Technician) []Technician {
	var matched []Technician
	for _, tech := range technicians {
		if strings.EqualFold(tech.Specialty, productType) {
			matched = append(matched, tech)
		}
	}
	return matched
}
