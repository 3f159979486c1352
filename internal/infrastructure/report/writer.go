package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ppclens/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

// maxSheetName is the Excel limit on worksheet name length
const maxSheetName = 31

// WriteCSV writes one result table with a header row
func WriteCSV(w io.Writer, table domain.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		record = record[:0]
		for _, cell := range row {
			record = append(record, FormatCell(cell))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteWorkbook writes every table to its own worksheet
func WriteWorkbook(w io.Writer, tables []domain.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, table := range tables {
		sheet := sheetName(table.Name)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("rename sheet %q: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %q: %w", sheet, err)
		}

		header := make([]any, len(table.Columns))
		for j, c := range table.Columns {
			header[j] = c
		}
		if err := setRow(f, sheet, 1, header); err != nil {
			return err
		}
		for r, row := range table.Rows {
			if err := setRow(f, sheet, r+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func sheetName(name string) string {
	if len(name) > maxSheetName {
		return name[:maxSheetName]
	}
	return name
}

// FormatCell renders a table cell for text output. Floats use the shortest
// representation that round-trips, so output is stable across runs.
func FormatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	default:
		return fmt.Sprint(c)
	}
}
