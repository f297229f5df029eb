package importer

import (
	"errors"
	"strings"
)

// RawRecord is one row of input before transformation, keyed by header
// name for CSV or by the object's own keys for JSON. CSV values are
// always strings; JSON values can be anything.
type RawRecord map[string]interface{}

var errNoHeader = errors.New("CSV file has no header columns")

// fieldState is the field splitter's mode. Embedded-JSON nesting depth
// is tracked alongside because a cell can hold a raw JSON object or
// array whose commas and quotes are not CSV syntax.
type fieldState int

const (
	stateNormal fieldState = iota
	stateQuoted
	stateEmbedded
)

// ParseCSV tokenizes CSV content into records. The first non-blank row
// is the header; each data row is zipped positionally with the header
// names. Missing trailing fields become empty strings, extra fields
// are dropped.
func ParseCSV(content string) ([]RawRecord, error) {
	rows := splitRows(content)
	if len(rows) == 0 {
		return nil, errNoHeader
	}

	headers := splitFields(rows[0])
	if len(headers) == 0 {
		return nil, errNoHeader
	}

	records := make([]RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		fields := splitFields(row)
		record := make(RawRecord, len(headers))
		for i, header := range headers {
			if i < len(fields) {
				record[header] = fields[i]
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// splitRows breaks the file into physical rows. Newlines inside a
// quoted cell are literal, so a quote toggles row-break handling off
// until its partner closes it. Blank rows are dropped.
func splitRows(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	var rows []string
	var row strings.Builder
	inQuotes := false

	for _, ch := range content {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
			row.WriteRune(ch)
		case ch == '\n' && !inQuotes:
			if line := strings.TrimSpace(row.String()); line != "" {
				rows = append(rows, line)
			}
			row.Reset()
		default:
			row.WriteRune(ch)
		}
	}
	if line := strings.TrimSpace(row.String()); line != "" {
		rows = append(rows, line)
	}

	return rows
}

// splitFields splits one row into cells. Three contexts: normal CSV,
// inside a quoted cell, and inside an embedded JSON value. In the
// embedded context commas and quotes pass through verbatim until the
// brace/bracket depth returns to zero.
func splitFields(row string) []string {
	var fields []string
	var buf strings.Builder
	state := stateNormal
	braceDepth := 0
	bracketDepth := 0

	runes := []rune(row)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		switch state {
		case stateQuoted:
			if ch == '"' {
				if i+1 < len(runes) && runes[i+1] == '"' {
					// Doubled quote is an escaped literal quote
					buf.WriteRune('"')
					i++
				} else {
					state = stateNormal
				}
			} else {
				buf.WriteRune(ch)
			}

		case stateEmbedded:
			buf.WriteRune(ch)
			switch ch {
			case '{':
				braceDepth++
			case '}':
				braceDepth--
			case '[':
				bracketDepth++
			case ']':
				bracketDepth--
			}
			if braceDepth <= 0 && bracketDepth <= 0 {
				state = stateNormal
			}

		default: // stateNormal
			switch {
			case ch == '"' && fieldStart(runes, i, buf.Len()):
				state = stateQuoted
			case ch == '{':
				braceDepth = 1
				bracketDepth = 0
				state = stateEmbedded
				buf.WriteRune(ch)
			case ch == '[':
				bracketDepth = 1
				braceDepth = 0
				state = stateEmbedded
				buf.WriteRune(ch)
			case ch == ',':
				fields = append(fields, strings.TrimSpace(buf.String()))
				buf.Reset()
			default:
				buf.WriteRune(ch)
			}
		}
	}
	fields = append(fields, strings.TrimSpace(buf.String()))

	return fields
}

// fieldStart reports whether position i begins a new cell, which is
// the only place a quote opens quoted mode.
func fieldStart(runes []rune, i, buffered int) bool {
	if buffered == 0 {
		return true
	}
	return i > 0 && runes[i-1] == ','
}
