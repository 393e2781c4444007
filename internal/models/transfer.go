package models

// LineError is a single problem found on one line of an import file.
type LineError struct {
	Line    int    `json:"line"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult summarizes an NDJSON import.
type ImportResult struct {
	Resource   string      `json:"resource"`
	Total      int         `json:"total"`
	Successful int         `json:"successful"`
	Failed     int         `json:"failed"`
	Errors     []LineError `json:"errors,omitempty"`
}

// Export formats.
const (
	FormatNDJSON = "ndjson"
	FormatJSON   = "json"
)
