package graph

import (
	"fmt"

	"github.com/OFFIS-RIT/famtree/backend/pkg/common"
)

// Validate checks the person table of a tree for dangling references.
//
// A missing father or mother is an error. A missing spouse or child is a
// warning. Messages follow the person table order. The relationships of the
// tree are not consulted, and nothing beyond existence is checked: no
// self-references, no parent cycles and no marriage reciprocity.
func Validate(tree *FamilyTree) common.ValidationReport {
	errs := []string{}
	warnings := []string{}

	for pair := tree.people.Oldest(); pair != nil; pair = pair.Next() {
		id, person := pair.Key, pair.Value

		if person.FatherID != "" && !tree.Has(person.FatherID) {
			errs = append(errs, fmt.Sprintf("Person %s references non-existent father %s", id, person.FatherID))
		}

		if person.MotherID != "" && !tree.Has(person.MotherID) {
			errs = append(errs, fmt.Sprintf("Person %s references non-existent mother %s", id, person.MotherID))
		}

		if person.MarriedWith != "" && !tree.Has(person.MarriedWith) {
			warnings = append(warnings, fmt.Sprintf("Person %s references non-existent spouse %s", id, person.MarriedWith))
		}

		for _, childID := range person.ChildrenIDs {
			if !tree.Has(childID) {
				warnings = append(warnings, fmt.Sprintf("Person %s references non-existent child %s", id, childID))
			}
		}
	}

	return common.ValidationReport{
		Valid:       len(errs) == 0,
		Errors:      errs,
		Warnings:    warnings,
		PersonCount: tree.Len(),
	}
}
