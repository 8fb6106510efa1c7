package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/agrikit/pkg/errors"
)

// record is one input object, e.g. a market price row or a crop listing.
type record = map[string]any

// readRecords decodes a JSON array of objects from path ("-" for stdin).
func readRecords(stdin io.Reader, path string) ([]record, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	var recs []record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "input must be a JSON array of objects")
	}
	return recs, nil
}

// numericField reports whether every record holds a JSON number under field.
func numericField(recs []record, field string) bool {
	for _, r := range recs {
		if _, ok := r[field].(float64); !ok {
			return false
		}
	}
	return len(recs) > 0
}

func floatKey(field string) func(record) float64 {
	return func(r record) float64 {
		f, _ := r[field].(float64)
		return f
	}
}

// stringKey renders any field value as text; missing fields read as "".
func stringKey(field string) func(record) string {
	return func(r record) string {
		v, ok := r[field]
		if !ok || v == nil {
			return ""
		}
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
}

func lowerKey(field string) func(record) string {
	key := stringKey(field)
	return func(r record) string { return strings.ToLower(key(r)) }
}

// recordRows renders records as table rows over columns.
func recordRows(recs []record, columns []string) [][]string {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		row := make([]string, len(columns))
		for j, col := range columns {
			row[j] = stringKey(col)(r)
		}
		rows[i] = row
	}
	return rows
}
