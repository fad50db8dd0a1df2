package graph

import (
	"encoding/json"

	"github.com/OFFIS-RIT/famtree/backend/pkg/common"

	"github.com/invopop/jsonschema"
)

// documentShape mirrors Document with a plain map so the person table
// reflects as an object keyed by ID.
type documentShape struct {
	People        map[string]common.Person `json:"people"`
	Relationships []common.Relationship    `json:"relationships"`
}

// DocumentSchema returns the JSON Schema of the exchange representation
// produced by FamilyTree.MarshalJSON.
func DocumentSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		Anonymous:      true,
	}
	s := r.Reflect(&documentShape{})
	s.Title = "FamilyTree"
	s.Description = "People keyed by id and the relationships derived from them."
	return s
}

// ReportSchema returns the JSON Schema of a validation report.
func ReportSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		Anonymous:      true,
	}
	s := r.Reflect(&common.ValidationReport{})
	s.Title = "ValidationReport"
	return s
}

// MarshalSchemas encodes both schemas as one JSON object.
func MarshalSchemas(indent bool) ([]byte, error) {
	v := map[string]*jsonschema.Schema{
		"family_tree":       DocumentSchema(),
		"validation_report": ReportSchema(),
	}
	if indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
