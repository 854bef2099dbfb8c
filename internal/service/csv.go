package service

import "strings"

// TokenizeCSVLine splits one line into its fields, honoring double-quoted
// fields with embedded commas and the "" escape for a literal quote. Fields
// are trimmed of surrounding whitespace. The scan is a single left-to-right
// pass; the final accumulator is always flushed, so even an empty line
// yields one empty field.
//
// The splitter is line-oriented: a quoted field containing a literal newline
// is not supported, because documents are split on '\n' before tokenizing.
// Known limitation, kept for parity with the import file format.
func TokenizeCSVLine(line string) []string {
	var fields []string
	var buf strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				// Escaped quote inside a quoted field.
				buf.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(buf.String()))
			buf.Reset()
		default:
			buf.WriteByte(ch)
		}
	}

	fields = append(fields, strings.TrimSpace(buf.String()))
	return fields
}

// EscapeCSVCell renders one cell for export. A cell is wrapped in double
// quotes, with internal quotes doubled, iff it contains a comma, a quote, or
// a newline. This mirrors TokenizeCSVLine exactly so that export followed by
// import is lossless for such values.
func EscapeCSVCell(value string) string {
	if !strings.ContainsAny(value, ",\"\n") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// serializeCSVRow joins escaped cells into one CSV line.
func serializeCSVRow(cells []string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = EscapeCSVCell(c)
	}
	return strings.Join(escaped, ",")
}
