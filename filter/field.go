package filter

import (
	"strings"
)

// Field is one of the fixed set of record attributes a filter may reference.
// Matching from raw identifiers is case-insensitive; anything outside this
// set is rejected at parse time.
type Field string

const (
	FieldStatus  Field = "status"
	FieldDue     Field = "due"
	FieldTags    Field = "tags"
	FieldProject Field = "project"
	FieldArea    Field = "area"
	FieldName    Field = "name"
	FieldNotes   Field = "notes"
)

// Op is a comparison operator. LIKE and CONTAINS are synonyms on scalar
// string fields (both substring match); CONTAINS is the only comparison
// operator for the set-valued tags field.
type Op string

const (
	OpEquals    Op = "="
	OpNotEquals Op = "!="
	OpLess      Op = "<"
	OpGreater   Op = ">"
	OpLike      Op = "LIKE"
	OpContains  Op = "CONTAINS"
	OpIsNull    Op = "IS NULL"
)

// validOps is the parse-time validity table: each field admits only the
// operators listed here, so the evaluator never sees a nonsensical pair.
// IS NULL covers absent optional fields, the empty tag set, and empty notes.
var validOps = map[Field][]Op{
	FieldStatus:  {OpEquals, OpNotEquals},
	FieldDue:     {OpEquals, OpNotEquals, OpLess, OpGreater, OpIsNull},
	FieldTags:    {OpContains, OpIsNull},
	FieldProject: {OpEquals, OpNotEquals, OpLike, OpIsNull},
	FieldArea:    {OpEquals, OpNotEquals, OpLike, OpIsNull},
	FieldName:    {OpEquals, OpNotEquals, OpLike, OpContains},
	FieldNotes:   {OpEquals, OpNotEquals, OpLike, OpContains, OpIsNull},
}

// ParseField resolves a raw identifier to a Field, ignoring case.
func ParseField(s string) (Field, bool) {
	f := Field(strings.ToLower(s))
	if _, ok := validOps[f]; ok {
		return f, true
	}
	return "", false
}

// OpValidForField reports whether op may be applied to field.
func OpValidForField(f Field, op Op) bool {
	for _, valid := range validOps[f] {
		if valid == op {
			return true
		}
	}
	return false
}

func fieldNames() []string {
	return []string{
		string(FieldStatus), string(FieldDue), string(FieldTags),
		string(FieldProject), string(FieldArea), string(FieldName),
		string(FieldNotes),
	}
}
