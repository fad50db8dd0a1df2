package graph

import (
	"github.com/OFFIS-RIT/famtree/backend/pkg/common"
)

// DeriveRelationships computes the relationship edges of a person table.
//
// People are visited in table order. For each person it emits, in this order,
// a father edge, a mother edge and a marriage edge, as long as the referenced
// ID exists in the table. Parent edges point from the parent to the child.
// A marriage edge points from the person to the spouse and is skipped when
// the same couple is already connected, whichever side declared it first.
//
// Only FatherID, MotherID and MarriedWith are inputs. ChildrenIDs never
// produce edges, even when they name existing people, and they are not
// reconciled with the children's own parent columns.
func DeriveRelationships(people *PersonTable) []common.Relationship {
	relationships := []common.Relationship{}
	couples := make(map[couple]struct{})

	exists := func(id string) bool {
		if id == "" {
			return false
		}
		_, ok := people.Get(id)
		return ok
	}

	for pair := people.Oldest(); pair != nil; pair = pair.Next() {
		id, person := pair.Key, pair.Value

		if exists(person.FatherID) {
			relationships = append(relationships, common.Relationship{
				Type: common.RelationshipParentChild,
				From: person.FatherID,
				To:   id,
			})
		}

		if exists(person.MotherID) {
			relationships = append(relationships, common.Relationship{
				Type: common.RelationshipParentChild,
				From: person.MotherID,
				To:   id,
			})
		}

		if exists(person.MarriedWith) {
			key := newCouple(id, person.MarriedWith)
			if _, seen := couples[key]; !seen {
				couples[key] = struct{}{}
				relationships = append(relationships, common.Relationship{
					Type: common.RelationshipMarriage,
					From: id,
					To:   person.MarriedWith,
				})
			}
		}
	}

	return relationships
}

// couple is an unordered pair of person IDs.
type couple struct {
	a, b string
}

func newCouple(x, y string) couple {
	if y < x {
		x, y = y, x
	}
	return couple{a: x, b: y}
}
