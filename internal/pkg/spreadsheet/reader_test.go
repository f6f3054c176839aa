package spreadsheet

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadAttendanceRows_CSV(t *testing.T) {
	input := "Employee ID,Full Name,Date,In Time,Out Time,Is Holiday,Status\n" +
		"EMP-001,Nimal Perera,2024-01-07,09:00,18:00,no,Present\n" +
		"\n" +
		"EMP-002,Kamala Silva,2024-01-06,08:45,15:30\n"

	rows, err := ReadAttendanceRows(strings.NewReader(input), "import.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, AttendanceRow{
		EmployeeID: "EMP-001",
		FullName:   "Nimal Perera",
		Date:       "2024-01-07",
		InTime:     "09:00",
		OutTime:    "18:00",
		IsHoliday:  "no",
		Status:     "Present",
	}, rows[0])
	assert.Equal(t, "EMP-002", rows[1].EmployeeID)
	assert.Equal(t, "15:30", rows[1].OutTime)
	assert.Empty(t, rows[1].IsHoliday)
	assert.Empty(t, rows[1].Status)
}

func TestReadAttendanceRows_CamelCaseHeaders(t *testing.T) {
	input := "employeeId,fullName,date,inTime,outTime,isHoliday\n" +
		"EMP-003,Ruwan,2024-01-10,09:00,19:15,true\n"

	rows, err := ReadAttendanceRows(strings.NewReader(input), "IMPORT.CSV")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "EMP-003", rows[0].EmployeeID)
	assert.Equal(t, "true", rows[0].IsHoliday)
}

func TestReadAttendanceRows_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	cells := [][]string{
		{"employee_id", "full_name", "date", "in_time", "out_time", "is_holiday"},
		{"EMP-010", "Saman", "2024-01-10", "09:00", "16:00", "0"},
		{"EMP-011", "Dilani", "2024-01-10", "08:15"},
	}
	for r, row := range cells {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellStr("Sheet1", cell, v))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ReadAttendanceRows(buf, "attendance.xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "EMP-010", rows[0].EmployeeID)
	assert.Equal(t, "16:00", rows[0].OutTime)
	assert.Equal(t, "EMP-011", rows[1].EmployeeID)
	assert.Empty(t, rows[1].OutTime)
}

func TestReadAttendanceRows_XLSXTypedCells(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Employee ID", "Full Name", "Date", "In Time", "Out Time", "Is Holiday"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"EMP-020", "Ruwan", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), 0.375, 0.75, false}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ReadAttendanceRows(buf, "attendance.xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	date, err := NormalizeDate(rows[0].Date)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-03", date)

	in, err := NormalizeClock(rows[0].InTime)
	require.NoError(t, err)
	assert.Equal(t, "09:00", in)

	out, err := NormalizeClock(rows[0].OutTime)
	require.NoError(t, err)
	assert.Equal(t, "18:00", out)

	holiday, err := ParseFlag(rows[0].IsHoliday)
	require.NoError(t, err)
	assert.False(t, holiday)
}

func TestReadRows_Errors(t *testing.T) {
	_, err := ReadRows(strings.NewReader("a,b"), "notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ReadRows(strings.NewReader("\n\n"), "empty.csv")
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Employee ID":  "employeeid",
		"employee_id":  "employeeid",
		"employeeId":   "employeeid",
		" in-time ":    "intime",
		"IS HOLIDAY":   "isholiday",
		"out_time":     "outtime",
		"Status":       "status",
		"":             "",
		"Full  Name  ": "fullname",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeHeader(in), "header %q", in)
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024-01-07", "2024-01-07"},
		{"2024/01/07", "2024-01-07"},
		{"2024-01-07 08:00:00", "2024-01-07"},
		{"45292", "2024-01-01"},
		{"Jan 7, 2024", "2024-01-07"},
		{"1/7/2024", "2024-01-07"},
		{"1/7/24", "2024-01-07"},
		{"45294.5", "2024-01-03"},
		{"", ""},
	}
	for _, c := range cases {
		got, err := NormalizeDate(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}

	for _, bad := range []string{"07-01-2024", "yesterday", "-5"} {
		_, err := NormalizeDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestNormalizeClock(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"09:00", "09:00"},
		{"9:05", "09:05"},
		{"17:30:00", "17:30"},
		{"5:30 PM", "17:30"},
		{"5:30pm", "17:30"},
		{"12:00 AM", "00:00"},
		{"0.375", "09:00"},
		{"0.75", "18:00"},
		{"", ""},
	}
	for _, c := range cases {
		got, err := NormalizeClock(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}

	for _, bad := range []string{"25:00", "noon", "1.5"} {
		_, err := NormalizeClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseFlag(t *testing.T) {
	for _, v := range []string{"", "0", "false", "No", "n"} {
		got, err := ParseFlag(v)
		require.NoError(t, err, v)
		assert.False(t, got, v)
	}
	for _, v := range []string{"1", "TRUE", "yes", "Y", "holiday"} {
		got, err := ParseFlag(v)
		require.NoError(t, err, v)
		assert.True(t, got, v)
	}
	_, err := ParseFlag("maybe")
	assert.Error(t, err)
}
