// Package table turns delimited sheet text into rows keyed by column name.
//
// The dialect is deliberately small: a double quote toggles an "inside quotes"
// flag and commas inside quotes do not split. A doubled quote is not an
// escape, so a literal quote character cannot be carried inside a field.
package table

import (
	"fmt"
	"strings"
)

// Row is one record keyed by header name.
type Row map[string]string

// Get returns the first non-empty value among keys. Sheets do not agree on
// casing ("Latitude" vs "latitude"), so callers list every variant.
func (r Row) Get(keys ...string) string {
	for _, k := range keys {
		if v := r[k]; v != "" {
			return v
		}
	}
	return ""
}

// ParseError reports input that has no header to key rows by.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse table: %s", e.Reason)
}

// Parse reads text whose first line is a header. Rows with an empty first
// field are dropped and short rows are padded with empty strings.
func Parse(text string) ([]Row, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ParseError{Reason: "no header line"}
	}
	lines := strings.Split(text, "\n")

	headerFields := splitLine(strings.TrimSuffix(lines[0], "\r"))
	headers := make([]string, len(headerFields))
	for i, h := range headerFields {
		headers[i] = clean(h)
	}

	rows := []Row{}
	for _, line := range lines[1:] {
		fields := splitLine(strings.TrimSuffix(line, "\r"))
		if len(fields) == 0 || clean(fields[0]) == "" {
			continue
		}
		rows = append(rows, makeRow(headers, fields))
	}
	return rows, nil
}

// FromValues converts cell values as returned by the Sheets API, header first,
// into rows with the same cleaning rules as Parse.
func FromValues(values [][]interface{}) ([]Row, error) {
	if len(values) == 0 {
		return nil, &ParseError{Reason: "no header row"}
	}
	headers := make([]string, len(values[0]))
	for i, cell := range values[0] {
		headers[i] = clean(cellString(cell))
	}

	rows := []Row{}
	for _, cells := range values[1:] {
		fields := make([]string, len(cells))
		for i, cell := range cells {
			fields[i] = cellString(cell)
		}
		if len(fields) == 0 || clean(fields[0]) == "" {
			continue
		}
		rows = append(rows, makeRow(headers, fields))
	}
	return rows, nil
}

func makeRow(headers, fields []string) Row {
	row := make(Row, len(headers))
	for i, h := range headers {
		if i < len(fields) {
			row[h] = clean(fields[i])
		} else {
			row[h] = ""
		}
	}
	return row
}

// splitLine splits on commas that are not inside a quoted span. Quote
// characters are kept in the fields; clean removes them.
func splitLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, c := range line {
		switch {
		case c == '"':
			inQuotes = !inQuotes
			current.WriteRune(c)
		case c == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}
	return append(fields, current.String())
}

func clean(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.TrimSpace(s), `"`, ""))
}

func cellString(cell interface{}) string {
	if cell == nil {
		return ""
	}
	return fmt.Sprintf("%v", cell)
}
