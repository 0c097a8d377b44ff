package csvsvc

// Array op kinds, shared with the client wire format.
const (
	ArrayOpEnsureExists = "ENSURE_EXISTS"
	ArrayOpRemove       = "REMOVE"
)

// ArrayOp is a structural change to a list-valued frontmatter field.
type ArrayOp struct {
	FieldPath string `json:"fieldPath"`
	Operation string `json:"operation"`
	Value     string `json:"value"`
}

// Record is one parsed and validated CSV row.
type Record struct {
	Identifier       string         `json:"identifier"`
	PageExists       bool           `json:"pageExists"`
	Template         string         `json:"template,omitempty"`
	Frontmatter      map[string]any `json:"frontmatter,omitempty"`
	FieldsToDelete   []string       `json:"fieldsToDelete,omitempty"`
	ArrayOps         []ArrayOp      `json:"arrayOps,omitempty"`
	ValidationErrors []string       `json:"validationErrors,omitempty"`
	Warnings         []string       `json:"warnings,omitempty"`
}

// Valid reports whether the record passed validation.
func (r *Record) Valid() bool {
	return len(r.ValidationErrors) == 0
}

// Preview is the parse result for one file.
type Preview struct {
	Records       []Record `json:"records"`
	ParsingErrors []string `json:"parsingErrors,omitempty"`
	TotalRecords  int      `json:"totalRecords"`
	ErrorCount    int      `json:"errorCount"`
	UpdateCount   int      `json:"updateCount"`
	CreateCount   int      `json:"createCount"`
}

// ValidRecords returns the records that passed validation.
func (p *Preview) ValidRecords() []Record {
	valid := make([]Record, 0, len(p.Records))
	for _, r := range p.Records {
		if r.Valid() {
			valid = append(valid, r)
		}
	}
	return valid
}
