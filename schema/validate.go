package schema

import (
	"errors"
	"strings"

	"github.com/spektr-org/aadhaar-pulse/engine"
)

// ============================================================================
// HEADER VALIDATION — maps input headers onto schema columns
// ============================================================================

// NormalizeHeader converts "Column Name" → "column_name".
func NormalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// ValidateHeader checks that every required column is present and returns the
// position of each one. Extra columns are ignored. A missing column is a
// *engine.MalformedRecordError on line 1.
func (c Config) ValidateHeader(headers []string) (map[string]int, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := NormalizeHeader(h)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	var missing []string
	for _, col := range c.RequiredColumns() {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &engine.MalformedRecordError{
			Line:   1,
			Column: strings.Join(missing, ","),
			Err:    errors.New("missing required column(s)"),
		}
	}
	return index, nil
}
