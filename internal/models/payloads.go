package models

// These structs define the JSON payloads for HTTP requests and responses
// between the web layer and the report-processor function.

// ProcessReportRequest is the input for the report-processor function.
type ProcessReportRequest struct {
	DocumentID string `json:"documentId"`
}

// ProcessReportResponse acknowledges that a pipeline run was dispatched.
// Completion is observed by polling the document record, not this response.
type ProcessReportResponse struct {
	Status     string `json:"status"`
	DocumentID string `json:"documentId"`
}
