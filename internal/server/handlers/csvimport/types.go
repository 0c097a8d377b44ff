package csvimport

type PreviewRequest struct {
	FileName string `json:"fileName"`
	Content  string `json:"content" binding:"required"`
}

type StartRequest struct {
	FileName string `json:"fileName"`
	Content  string `json:"content" binding:"required"`
}

type StartResponse struct {
	Success     bool   `json:"success"`
	RecordCount int    `json:"recordCount"`
	ReportID    string `json:"reportId,omitempty"`
	ReportURL   string `json:"reportUrl,omitempty"`
	Error       string `json:"error,omitempty"`
}
