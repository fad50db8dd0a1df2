package graph

import (
	"encoding/json"
	"slices"

	"github.com/OFFIS-RIT/famtree/backend/pkg/common"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// PersonTable is the identity-keyed person table of a FamilyTree. It
// iterates in insertion order; overwriting an ID keeps its original slot.
type PersonTable = orderedmap.OrderedMap[string, common.Person]

// FamilyTree holds the people of one ingested table together with the
// relationships derived from them.
//
// A tree is filled with AddPerson, then BuildRelationships runs once. After
// that it is treated as immutable and handed to callers for serialization or
// validation. A FamilyTree is not safe for concurrent mutation; every
// ingestion builds its own.
type FamilyTree struct {
	people        *PersonTable
	relationships []common.Relationship
}

// NewFamilyTree creates an empty tree.
func NewFamilyTree() *FamilyTree {
	return &FamilyTree{
		people:        orderedmap.New[string, common.Person](),
		relationships: []common.Relationship{},
	}
}

// AddPerson stores p under its ID. A person already stored under the same ID
// is replaced without error (last write wins).
func (t *FamilyTree) AddPerson(p common.Person) {
	t.people.Set(p.ID, p)
}

// Person looks up a person by ID.
func (t *FamilyTree) Person(id string) (common.Person, bool) {
	return t.people.Get(id)
}

// Has reports whether a person with the given ID exists.
func (t *FamilyTree) Has(id string) bool {
	_, ok := t.people.Get(id)
	return ok
}

// Len returns the number of people in the tree.
func (t *FamilyTree) Len() int {
	return t.people.Len()
}

// IDs returns the person IDs in insertion order.
func (t *FamilyTree) IDs() []string {
	ids := make([]string, 0, t.people.Len())
	for pair := t.people.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Key)
	}
	return ids
}

// Relationships returns a copy of the derived relationships.
func (t *FamilyTree) Relationships() []common.Relationship {
	return slices.Clone(t.relationships)
}

// BuildRelationships discards all previously derived relationships and
// recomputes them from the current person table.
func (t *FamilyTree) BuildRelationships() {
	t.relationships = DeriveRelationships(t.people)
}

// Document is the exchange representation of a FamilyTree: the full person
// table keyed by ID and the derived relationships, nothing else.
type Document struct {
	People        *PersonTable          `json:"people"`
	Relationships []common.Relationship `json:"relationships"`
}

// Document returns the exchange representation of the tree. The returned
// value shares no mutable state with the tree.
func (t *FamilyTree) Document() Document {
	people := orderedmap.New[string, common.Person](orderedmap.WithCapacity[string, common.Person](t.people.Len()))
	for pair := t.people.Oldest(); pair != nil; pair = pair.Next() {
		p := pair.Value
		p.ChildrenIDs = slices.Clone(p.ChildrenIDs)
		people.Set(pair.Key, p)
	}
	return Document{
		People:        people,
		Relationships: t.Relationships(),
	}
}

// MarshalJSON encodes the tree in its exchange representation with people in
// insertion order.
func (t *FamilyTree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Document())
}
