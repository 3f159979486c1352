package report

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ppclens/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Format is a supported report file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks the reader for a file name by extension
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, filepath.Ext(filename))
}

// Read parses a report, choosing the format from the file name.
// The first row is the header.
func Read(filename string, r io.Reader) (*domain.RawReport, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch format {
	case FormatXLSX:
		rows, err = readXLSX(r)
	default:
		rows, err = readCSV(r)
	}
	if err != nil {
		return nil, err
	}

	report := &domain.RawReport{Source: filepath.Base(filename)}
	if len(rows) > 0 {
		report.Header = rows[0]
		report.Rows = rows[1:]
	}
	return report, nil
}

// readCSV tolerates a UTF-8 BOM, ragged rows and stray quotes
func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// readXLSX reads the first sheet of a workbook
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// stripBOM drops a leading UTF-8 byte order mark
func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		br.Discard(3)
	}
	return br
}
