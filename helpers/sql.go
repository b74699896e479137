package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spektr-org/aadhaar-pulse/engine"
	"github.com/spektr-org/aadhaar-pulse/schema"
)

// ============================================================================
// SQL HELPER — Reads the dataset from a database/sql table
// ============================================================================
// The table must carry the same columns as the CSV input. Drivers are
// registered by source.go (sqlite3, postgres). Cells are validated exactly as
// CSV cells are; Line in a MalformedRecordError is the row ordinal plus one,
// matching the line the row would occupy in a CSV export with a header.
// ============================================================================

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// LoadSQL reads every row of table into enriched records.
func LoadSQL(ctx context.Context, db *sql.DB, table string, sch schema.Config) ([]engine.Record, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	cols := sch.RequiredColumns()
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), table)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c] = i
	}

	var records []engine.Record
	values := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}

	line := 1
	for rows.Next() {
		line++
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning row %d: %w", line-1, err)
		}
		rec, err := buildRecord(line, func(col string) string {
			return strings.TrimSpace(sqlString(values[index[col]]))
		})
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", table, err)
	}

	return records, nil
}

// sqlString renders a scanned driver value as CSV would have carried it.
func sqlString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
