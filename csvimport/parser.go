// Package csvimport reads and validates the simple comma separated files
// uploaded by lab staff. Quoted fields are not supported: every comma is a
// field separator.
package csvimport

import (
	"fmt"
	"regexp"
	"strings"

	"labelprint-service/apperrors"
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// Record maps a header name to the cell found under it in one data row.
type Record map[string]string

// ParsingError describes the first structural problem found in a file.
type ParsingError struct {
	Message string
}

func (e *ParsingError) Error() string { return e.Message }

func parsingError(format string, args ...interface{}) error {
	return apperrors.Parsing(&ParsingError{Message: fmt.Sprintf(format, args...)})
}

// Parse splits data into records keyed by the header row. The whole file is
// validated before any record is built and the first violation is returned
// as a *ParsingError wrapped in an *apperrors.Error.
func Parse(data string) ([]Record, error) {
	rows := lineBreak.Split(data, -1)
	headers := strings.Split(rows[0], ",")
	rows = rows[1:]

	if err := validate(headers, rows); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		if row == "" {
			continue
		}
		cells := strings.Split(row, ",")
		record := make(Record, len(headers))
		for i, cell := range cells {
			record[headers[i]] = cell
		}
		records = append(records, record)
	}
	return records, nil
}

// Headers returns the header row of data without validating the rest.
func Headers(data string) []string {
	first := lineBreak.Split(data, 2)[0]
	return strings.Split(first, ",")
}

func validate(headers, rows []string) error {
	for i, header := range headers {
		if header == "" {
			return parsingError("Header in column %d is un-named.", i+1)
		}
	}

	seen := make(map[string]bool, len(headers))
	for _, header := range headers {
		if seen[header] {
			return parsingError("More than one column has the header \"%s\".", header)
		}
		seen[header] = true
	}

	for i, row := range rows {
		line := i + 2
		if row == "" {
			if i < len(rows)-1 {
				return parsingError("Line %d contains no data.", line)
			}
			continue
		}
		if cells := strings.Count(row, ",") + 1; cells != len(headers) {
			return parsingError("Line %d has the wrong number of fields: %d when there should be %d.", line, cells, len(headers))
		}
	}
	return nil
}
