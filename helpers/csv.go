package helpers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spektr-org/aadhaar-pulse/engine"
	"github.com/spektr-org/aadhaar-pulse/schema"
)

// ============================================================================
// CSV HELPER — Parses delimited text into []engine.Record
// ============================================================================
// Header-driven: columns are located by name, extra columns are ignored.
// Every raw count must be a non-negative integer; the first violation stops
// the load with a *engine.MalformedRecordError. Records are enriched here,
// once, at ingestion.
// ============================================================================

// ParseCSV reads an enrolment dataset from r using sch to locate columns.
func ParseCSV(r io.Reader, sch schema.Config) ([]engine.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, &engine.MalformedRecordError{Line: 1, Err: errors.New("empty input, no header row")}
	}
	if err != nil {
		return nil, csvError(err)
	}

	index, err := sch.ValidateHeader(headers)
	if err != nil {
		return nil, err
	}

	var records []engine.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		line, _ := reader.FieldPos(0)

		rec, err := buildRecord(line, func(col string) string {
			return strings.TrimSpace(row[index[col]])
		})
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

// buildRecord maps one row onto a Record. cell returns the trimmed value of
// a schema column.
func buildRecord(line int, cell func(col string) string) (engine.Record, error) {
	rec := engine.Record{
		State:    cell(engine.FieldState),
		District: cell(engine.FieldDistrict),
		Pincode:  cell(engine.FieldPincode),
		Month:    cell(engine.FieldMonth),
		Day:      cell(engine.FieldDay),
		Weekday:  cell(engine.FieldWeekday),
	}

	counts := []struct {
		col string
		dst *int64
	}{
		{engine.FieldDemoAge5To17, &rec.Counts.DemoAge5To17},
		{engine.FieldDemoAge17Plus, &rec.Counts.DemoAge17Plus},
		{engine.FieldBioAge5To17, &rec.Counts.BioAge5To17},
		{engine.FieldBioAge17Plus, &rec.Counts.BioAge17Plus},
		{engine.FieldEnroAge0To5, &rec.Counts.EnroAge0To5},
		{engine.FieldEnroAge5To17, &rec.Counts.EnroAge5To17},
		{engine.FieldEnroAge18Plus, &rec.Counts.EnroAge18Plus},
	}
	for _, c := range counts {
		raw := cell(c.col)
		n, err := parseCount(raw)
		if err != nil {
			return engine.Record{}, &engine.MalformedRecordError{Line: line, Column: c.col, Value: raw, Err: err}
		}
		*c.dst = n
	}

	return engine.Enrich(rec), nil
}

// parseCount accepts non-negative integers, including integral floats such
// as "12.0" written by dataframe exports.
func parseCount(s string) (int64, error) {
	if s == "" {
		return 0, errors.New("missing count")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
			return 0, fmt.Errorf("not an integer count")
		}
		n = int64(f)
	}
	if n < 0 {
		return 0, errors.New("negative count")
	}
	return n, nil
}

// csvError converts encoding/csv parse errors into MalformedRecordError.
func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &engine.MalformedRecordError{Line: pe.Line, Err: pe.Err}
	}
	return fmt.Errorf("reading CSV: %w", err)
}
