package graph

import (
	"strconv"
	"strings"

	"github.com/OFFIS-RIT/famtree/backend/pkg/common"
)

// MaxChildren is the number of positional child columns probed per row.
const MaxChildren = 20

// ChildIDPrefix is the column name prefix of the positional child columns.
// Columns are numbered from 1, e.g. child_id1 .. child_id20.
const ChildIDPrefix = "child_id"

// IDColumn is the column holding a person's identity.
const IDColumn = "id"

// ChildIDColumns lists the positional child columns in scan order.
var ChildIDColumns = childIDColumns(ChildIDPrefix, MaxChildren)

func childIDColumns(prefix string, n int) []string {
	cols := make([]string, n)
	for i := range n {
		cols[i] = prefix + strconv.Itoa(i+1)
	}
	return cols
}

type personColumn struct {
	name string
	set  func(p *common.Person, v string)
}

// personColumns maps every recognized scalar column to its Person field.
var personColumns = []personColumn{
	{IDColumn, func(p *common.Person, v string) { p.ID = v }},
	{"first_name", func(p *common.Person, v string) { p.FirstName = v }},
	{"family_name", func(p *common.Person, v string) { p.FamilyName = v }},
	{"first_name_furigana", func(p *common.Person, v string) { p.FirstNameFurigana = v }},
	{"family_name_furigana", func(p *common.Person, v string) { p.FamilyNameFurigana = v }},
	{"birth_date", func(p *common.Person, v string) { p.BirthDate = v }},
	{"death_date", func(p *common.Person, v string) { p.DeathDate = v }},
	{"gender", func(p *common.Person, v string) { p.Gender = v }},
	{"married_with", func(p *common.Person, v string) { p.MarriedWith = v }},
	{"birth_place", func(p *common.Person, v string) { p.BirthPlace = v }},
	{"death_place", func(p *common.Person, v string) { p.DeathPlace = v }},
	{"occupation", func(p *common.Person, v string) { p.Occupation = v }},
	{"notes", func(p *common.Person, v string) { p.Notes = v }},
	{"father_id", func(p *common.Person, v string) { p.FatherID = v }},
	{"mother_id", func(p *common.Person, v string) { p.MotherID = v }},
}

// Columns returns every column name the normalizer reads, scalar columns
// first, followed by the positional child columns.
func Columns() []string {
	cols := make([]string, 0, len(personColumns)+len(ChildIDColumns))
	for _, c := range personColumns {
		cols = append(cols, c.name)
	}
	return append(cols, ChildIDColumns...)
}

// NewPersonFromRecord builds a Person from one raw row keyed by column name.
//
// Absent columns default to the empty string, including the id; deciding
// whether a blank id disqualifies the row is up to the caller. Scalar values
// are taken verbatim. Child columns are trimmed and blanks are skipped, but
// the full positional range is always scanned, so a gap never hides a later
// child. No cross-field consistency is checked here.
func NewPersonFromRecord(record map[string]string) common.Person {
	var p common.Person
	for _, c := range personColumns {
		c.set(&p, record[c.name])
	}

	p.ChildrenIDs = make([]string, 0)
	for _, col := range ChildIDColumns {
		if id := strings.TrimSpace(record[col]); id != "" {
			p.ChildrenIDs = append(p.ChildrenIDs, id)
		}
	}

	return p
}

// hasID reports whether a raw row carries a usable identity.
func hasID(record map[string]string) bool {
	return strings.TrimSpace(record[IDColumn]) != ""
}
