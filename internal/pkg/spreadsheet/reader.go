// Package spreadsheet reads tabular uploads (.csv, .xlsx, .xls) into typed rows.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file type: only csv, xlsx, xls allowed")
	ErrEmptySheet        = errors.New("worksheet is empty")
	ErrNoSheet           = errors.New("no worksheet found")
	ErrMultipleSheets    = errors.New("multiple worksheets found; please upload a file with a single sheet")
)

const maxXLSRows = 100000

// AttendanceRow is one line of an attendance import sheet. Headers are matched
// after normalization, so "Employee ID", "employee_id" and "employeeId" all bind
// to EmployeeID.
type AttendanceRow struct {
	EmployeeID string `csv:"employeeid"`
	FullName   string `csv:"fullname"`
	Date       string `csv:"date"`
	InTime     string `csv:"intime"`
	OutTime    string `csv:"outtime"`
	IsHoliday  string `csv:"isholiday"`
	Status     string `csv:"status"`
}

// ReadAttendanceRows decodes an uploaded sheet into AttendanceRow values.
func ReadAttendanceRows(reader io.Reader, filename string) ([]AttendanceRow, error) {
	rows, err := ReadRows(reader, filename)
	if err != nil {
		return nil, err
	}

	var out []AttendanceRow
	if err := gocsv.UnmarshalCSV(newGridReader(rows), &out); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}
	return out, nil
}

// ReadRows returns the raw cell grid of the first (and only) sheet.
func ReadRows(reader io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		r := csv.NewReader(bytes.NewReader(data))
		r.FieldsPerRecord = -1
		r.TrimLeadingSpace = true
		rows, err = r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(data)
		if err != nil {
			return nil, err
		}
	case ".xls":
		rows, err = readXLS(data)
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnsupportedFormat
	}

	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}
	return rows, nil
}

func readXLSX(data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrNoSheet
	}

	// Raw values keep dates as serials and times as day fractions.
	rows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read xlsx rows: %w", err)
	}
	return rows, nil
}

func readXLS(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open xls: %w", err)
	}
	if workbook.NumSheets() == 0 {
		return nil, ErrNoSheet
	}
	if workbook.NumSheets() > 1 {
		return nil, ErrMultipleSheets
	}
	return workbook.ReadAllCells(maxXLSRows), nil
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// NormalizeHeader lowercases a header and strips separators.
func NormalizeHeader(header string) string {
	header = strings.ToLower(strings.TrimSpace(header))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(header)
}

// gridReader feeds an in-memory grid to gocsv with normalized headers and
// rows padded to the header width.
type gridReader struct {
	rows [][]string
	pos  int
}

func newGridReader(rows [][]string) *gridReader {
	if len(rows) == 0 {
		return &gridReader{}
	}

	width := len(rows[0])
	out := make([][]string, 0, len(rows))

	header := make([]string, width)
	for i, h := range rows[0] {
		header[i] = NormalizeHeader(h)
	}
	out = append(out, header)

	for _, row := range rows[1:] {
		padded := make([]string, width)
		for i := 0; i < width && i < len(row); i++ {
			padded[i] = strings.TrimSpace(row[i])
		}
		out = append(out, padded)
	}

	return &gridReader{rows: out}
}

func (g *gridReader) Read() ([]string, error) {
	if g.pos >= len(g.rows) {
		return nil, io.EOF
	}
	row := g.rows[g.pos]
	g.pos++
	return row, nil
}

func (g *gridReader) ReadAll() ([][]string, error) {
	rest := g.rows[g.pos:]
	g.pos = len(g.rows)
	return rest, nil
}
