package wikisdk

// Array op kinds for list-valued frontmatter fields.
const (
	ArrayOpEnsureExists = "ENSURE_EXISTS"
	ArrayOpRemove       = "REMOVE"
)

// ArrayOp is a structural change to a list-valued frontmatter field.
type ArrayOp struct {
	FieldPath string `json:"fieldPath"`
	Operation string `json:"operation"` // ArrayOpEnsureExists or ArrayOpRemove
	Value     string `json:"value"`
}

// ImportRecord is one row of the parsed file, as produced by the server's
// validation pass. Records are immutable; re-validation regenerates the whole
// slice.
type ImportRecord struct {
	Identifier       string         `json:"identifier"`
	PageExists       bool           `json:"pageExists"` // true => update, false => create
	Template         string         `json:"template,omitempty"`
	Frontmatter      map[string]any `json:"frontmatter,omitempty"`
	FieldsToDelete   []string       `json:"fieldsToDelete,omitempty"`
	ArrayOps         []ArrayOp      `json:"arrayOps,omitempty"`
	ValidationErrors []string       `json:"validationErrors,omitempty"`
	Warnings         []string       `json:"warnings,omitempty"`
}

// Valid reports whether the record passed validation.
func (r *ImportRecord) Valid() bool {
	return len(r.ValidationErrors) == 0
}

// ImportStats are the aggregate counts for one parsed batch.
// Invariant: Errors <= Total.
type ImportStats struct {
	Total   int `json:"total"`
	Errors  int `json:"errors"`
	Updates int `json:"updates"`
	Creates int `json:"creates"`
}

// ParsePreviewRequest carries the raw file content to the preview service.
type ParsePreviewRequest struct {
	FileName string `json:"fileName"`
	Content  string `json:"content"`
}

// ParsePreviewResponse is the result of the CSV preview service.
type ParsePreviewResponse struct {
	Records       []ImportRecord `json:"records"`
	ParsingErrors []string       `json:"parsingErrors,omitempty"`
	TotalRecords  int            `json:"totalRecords"`
	ErrorCount    int            `json:"errorCount"`
	UpdateCount   int            `json:"updateCount"`
	CreateCount   int            `json:"createCount"`
}

// Stats derives the aggregate counts from the response.
func (r *ParsePreviewResponse) Stats() ImportStats {
	return ImportStats{
		Total:   r.TotalRecords,
		Errors:  r.ErrorCount,
		Updates: r.UpdateCount,
		Creates: r.CreateCount,
	}
}

// StartImportRequest carries the full original file content to the submission
// service. Submission is fire-once; the server excludes invalid records.
type StartImportRequest struct {
	FileName string `json:"fileName"`
	Content  string `json:"content"`
}

// StartImportResponse is the result of submitting an import job.
type StartImportResponse struct {
	Success     bool   `json:"success"`
	RecordCount int    `json:"recordCount"`
	ReportID    string `json:"reportId,omitempty"`
	ReportURL   string `json:"reportUrl,omitempty"`
	Error       string `json:"error,omitempty"`
}
