package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// utf8BOM prefixes most ad-platform CSV exports; it is stripped before
// parsing so the first header survives exact-match lookups.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV decodes raw CSV bytes into the header row plus one string map per
// data row. Field counting is disabled because real exports are ragged: short
// rows are padded with empty values, long rows keep only headered columns.
// Header strings are preserved verbatim (column matching is case-sensitive).
func ParseCSV(data []byte) ([]string, []map[string]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	headers, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("csv has no header row")
		}
		return nil, nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	var rows []map[string]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read csv row: %w", err)
		}

		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}
