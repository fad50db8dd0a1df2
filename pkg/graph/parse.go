package graph

import (
	"strings"

	"github.com/OFFIS-RIT/famtree/backend/pkg/common"
	"github.com/OFFIS-RIT/famtree/backend/pkg/loader/csv"
)

// ParseTable reads a CSV family table and returns a tree with its
// relationships already derived. Rows with a blank id are skipped. If the
// text cannot be tokenized, no tree is returned.
func ParseTable(text string) (*FamilyTree, error) {
	records, err := csv.ReadRecords(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	return BuildTree(records), nil
}

// BuildTree normalizes already tokenized rows into a tree and derives its
// relationships.
func BuildTree(records []csv.Record) *FamilyTree {
	tree := NewFamilyTree()
	for _, record := range records {
		if !hasID(record) {
			continue
		}
		tree.AddPerson(NewPersonFromRecord(record))
	}
	tree.BuildRelationships()
	return tree
}

// ValidateTable parses text and validates the resulting tree.
func ValidateTable(text string) (common.ValidationReport, error) {
	tree, err := ParseTable(text)
	if err != nil {
		return common.ValidationReport{}, err
	}
	return Validate(tree), nil
}
