package helpers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/aadhaar-pulse/engine"
)

// ============================================================================
// EXPORT — TableData / ReportSummary → csv, text, markdown, xlsx, json
// ============================================================================
// Column order is always the table's display order.
// ============================================================================

// Report formats accepted by WriteReport.
const (
	FormatMarkdown = "markdown"
	FormatText     = "text"
	FormatJSON     = "json"
)

// WriteCSV writes the table with a header row of column keys.
func WriteCSV(w io.Writer, table *engine.TableData) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Header()); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("writing CSV rows: %w", err)
	}
	return nil
}

// WriteText renders the table as an aligned ASCII grid.
func WriteText(w io.Writer, table *engine.TableData) error {
	tw := newTextTable(w, table)
	tw.AppendBulk(table.Rows)
	tw.Render()
	return nil
}

// newTextTable sets up headers and per-column alignment.
func newTextTable(w io.Writer, table *engine.TableData) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)

	headers := make([]string, len(table.Columns))
	aligns := make([]int, len(table.Columns))
	for i, c := range table.Columns {
		headers[i] = c.Label
		aligns[i] = tablewriter.ALIGN_LEFT
		if c.Align == "right" {
			aligns[i] = tablewriter.ALIGN_RIGHT
		}
	}
	tw.SetHeader(headers)
	tw.SetColumnAlignment(aligns)
	return tw
}

// WriteMarkdown renders the table as a GitHub-flavoured markdown table.
func WriteMarkdown(w io.Writer, table *engine.TableData) error {
	tw := newTextTable(w, table)
	tw.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	tw.SetCenterSeparator("|")
	tw.AppendBulk(table.Rows)
	tw.Render()
	return nil
}

// WriteXLSX writes one worksheet per table, named after the table.
// Number and ratio cells are stored as numbers.
func WriteXLSX(w io.Writer, tables ...*engine.TableData) error {
	if len(tables) == 0 {
		return fmt.Errorf("no tables to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, table := range tables {
		sheet := sheetName(table, i)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("naming sheet %s: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("creating sheet %s: %w", sheet, err)
		}

		header := make([]interface{}, len(table.Columns))
		for c, col := range table.Columns {
			header[c] = col.Label
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return fmt.Errorf("writing header of %s: %w", sheet, err)
		}

		for r, row := range table.Rows {
			cells := make([]interface{}, len(row))
			for c, v := range row {
				cells[c] = xlsxCell(table.Columns[c], v)
			}
			axis, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
				return fmt.Errorf("writing row %d of %s: %w", r+1, sheet, err)
			}
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// sheetName trims to Excel's 31-character limit.
func sheetName(table *engine.TableData, i int) string {
	name := table.Name
	if name == "" {
		name = fmt.Sprintf("table_%d", i+1)
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

func xlsxCell(col engine.Column, v string) interface{} {
	if col.Type == "text" {
		return v
	}
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return n
	}
	return v
}

// WriteReport writes the summary in the given format.
func WriteReport(w io.Writer, s engine.ReportSummary, format string) error {
	switch format {
	case "", FormatMarkdown:
		_, err := io.WriteString(w, engine.RenderMarkdown(s))
		return err
	case FormatText:
		_, err := io.WriteString(w, engine.RenderText(s))
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}
