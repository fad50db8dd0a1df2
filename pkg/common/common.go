package common

// RelationshipType names the kind of edge connecting two people.
type RelationshipType string

const (
	// RelationshipParentChild is a directed edge from a parent to a child.
	RelationshipParentChild RelationshipType = "parent-child"
	// RelationshipMarriage is a symmetric edge between two spouses. Only one
	// edge is kept per couple; its direction carries no meaning.
	RelationshipMarriage RelationshipType = "marriage"
)

// Person represents one individual of a family table. All fields are
// free-form text taken verbatim from the source row; dates and places are
// never parsed.
//
// FatherID, MotherID and MarriedWith reference other people by ID and drive
// relationship derivation. ChildrenIDs is carried as data only: it is checked
// for existence by the validator but never turned into edges.
type Person struct {
	ID                 string   `json:"id"`
	FirstName          string   `json:"first_name"`
	FamilyName         string   `json:"family_name"`
	FirstNameFurigana  string   `json:"first_name_furigana"`
	FamilyNameFurigana string   `json:"family_name_furigana"`
	BirthDate          string   `json:"birth_date"`
	DeathDate          string   `json:"death_date"`
	Gender             string   `json:"gender"`
	MarriedWith        string   `json:"married_with"`
	BirthPlace         string   `json:"birth_place"`
	DeathPlace         string   `json:"death_place"`
	Occupation         string   `json:"occupation"`
	Notes              string   `json:"notes"`
	FatherID           string   `json:"father_id"`
	MotherID           string   `json:"mother_id"`
	ChildrenIDs        []string `json:"children_ids"`
}

// Relationship represents a derived edge between two people.
type Relationship struct {
	Type RelationshipType `json:"type" jsonschema:"enum=parent-child,enum=marriage"`
	From string           `json:"from"`
	To   string           `json:"to"`
}

// ValidationReport is the outcome of checking a family tree for dangling
// references. Errors make the tree invalid, warnings never do.
type ValidationReport struct {
	Valid       bool     `json:"valid"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	PersonCount int      `json:"person_count"`
}
