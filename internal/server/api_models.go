package server

import "github.com/scanforge/scanforge/internal/report"

// submitScanRequest is the POST /scans body. Target defaults to the
// domain of Email when omitted.
type submitScanRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Target  string `json:"target,omitempty"`
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// scanDiffResponse wraps a scan-over-scan comparison.
type scanDiffResponse struct {
	Before string           `json:"before"`
	After  string           `json:"after"`
	Diff   *report.ScanDiff `json:"diff"`
}
