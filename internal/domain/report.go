// Package domain contains the core data structures of the reporting layer.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Report holds the aggregated rows of one analysis.
// Each row has one value per header, in header order.
type Report struct {
	Name    string
	Headers []string
	Results [][]any
}

// NewReport creates an empty report.
func NewReport(name string, headers ...string) *Report {
	return &Report{Name: name, Headers: headers, Results: [][]any{}}
}

// AddRow appends a row. It panics when the row does not match the headers,
// which is a programming error in the analysis producing it.
func (r *Report) AddRow(values ...any) {
	if len(values) != len(r.Headers) {
		panic(fmt.Sprintf("report %q: row has %d values for %d headers", r.Name, len(values), len(r.Headers)))
	}
	r.Results = append(r.Results, values)
}

// Table renders the report as plain text: the title, an underline, a
// tab-separated header row and one tab-separated line per row.
func (r *Report) Table() string {
	var b strings.Builder
	b.WriteString(r.Name + "\n")
	b.WriteString(strings.Repeat("-", len(r.Name)) + "\n")
	b.WriteString(joinTab(toAny(r.Headers)) + "\n")
	rows := make([]string, len(r.Results))
	for i, row := range r.Results {
		rows[i] = joinTab(row)
	}
	b.WriteString(strings.Join(rows, "\n") + "\n\n")
	return b.String()
}

// JSONReport is the structured form of a Report.
type JSONReport struct {
	Name    string    `json:"name"`
	Headers []string  `json:"headers"`
	Results []JSONRow `json:"results"`
}

// JSONRow is one row keyed by header. It marshals to an object whose keys
// follow header order.
type JSONRow struct {
	headers []string
	values  []any
}

// Get returns the value under header.
func (r JSONRow) Get(header string) (any, bool) {
	for i, h := range r.headers {
		if h == header {
			return r.values[i], true
		}
	}
	return nil, false
}

// MarshalJSON implements json.Marshaler.
func (r JSONRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, header := range r.headers {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(header)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, fmt.Errorf("marshaling %s: %w", header, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// JSON returns the structured form of the report, one mapping from header
// to value per row.
func (r *Report) JSON() JSONReport {
	headers := make([]string, len(r.Headers))
	copy(headers, r.Headers)
	results := make([]JSONRow, len(r.Results))
	for i, row := range r.Results {
		values := make([]any, len(row))
		copy(values, row)
		results[i] = JSONRow{headers: headers, values: values}
	}
	return JSONReport{Name: r.Name, Headers: headers, Results: results}
}

func joinTab(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, "\t")
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
