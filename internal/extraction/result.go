// Package extraction converts uploaded invoice PDFs into loosely-typed
// header and item fields, and normalizes those fields into the canonical
// form-state shape.
package extraction

import (
	"errors"
	"strconv"
	"strings"
)

// ErrMalformedExtraction is returned when an extraction response is
// missing its invoice_data or items section. Callers surface it as an
// incomplete-data condition instead of defaulting silently.
var ErrMalformedExtraction = errors.New("incomplete data extracted from PDF")

// Result is the wire shape of the PDF extraction endpoint. Field values
// come out of a PDF, so both sections stay loosely typed: header values
// may be strings or nil, item values strings or numbers.
type Result struct {
	Message     string           `json:"message,omitempty"`
	InvoiceData map[string]any   `json:"invoice_data"`
	Items       []map[string]any `json:"items"`
}

// Validate reports whether the result carries both required sections.
func (r Result) Validate() error {
	if r.InvoiceData == nil || r.Items == nil {
		return ErrMalformedExtraction
	}
	return nil
}

func asString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case nil:
		return ""
	default:
		return ""
	}
}

// asFloat parses a loosely-typed numeric field, defaulting anything
// unparsable to 0.
func asFloat(v any) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case int:
		return float64(value)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
