package csv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Record is one data row keyed by header column name. Columns missing from a
// short row are absent rather than empty.
type Record map[string]string

// ReadRecords reads header-driven CSV from r. The first line is the header;
// every following line becomes a Record. Empty lines and rows whose cells are
// all whitespace are skipped. Extra cells beyond the header are
// ignored. When a header name repeats, the rightmost column wins.
//
// Quoting follows RFC 4180 strictly. Any tokenization error aborts the whole
// read and no records are returned. Empty input yields no records and no
// error.
func ReadRecords(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	records := []Record{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		if isBlank(row) {
			continue
		}

		n := min(len(header), len(row))
		record := make(Record, n)
		for i := range n {
			record[header[i]] = row[i]
		}
		records = append(records, record)
	}

	return records, nil
}

// ParseRecords is ReadRecords over an in-memory buffer.
func ParseRecords(content []byte) ([]Record, error) {
	return ReadRecords(bytes.NewReader(content))
}

func isBlank(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
