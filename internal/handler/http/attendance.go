package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/qr-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/qr-attendance-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/qr-attendance-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

const maxImportUpload = 10 << 20

type AttendanceHandler interface {
	Scan(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Scan implements AttendanceHandler.
func (h *attendanceHandlerImpl) Scan(w http.ResponseWriter, r *http.Request) {
	var req attendance.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.Scan(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance Marked: "+result.FullName, result)
}

// Import implements AttendanceHandler. It accepts a JSON body of rows or a
// multipart upload with the sheet in the "file" field.
func (h *attendanceHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	var req attendance.ImportRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		rows, ok := readImportUpload(w, r)
		if !ok {
			return
		}
		req.Rows = rows
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.Import(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, fmt.Sprintf("%d attendance records imported", result.Imported), result)
}

func readImportUpload(w http.ResponseWriter, r *http.Request) ([]attendance.ImportRow, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportUpload)
	if err := r.ParseMultipartForm(maxImportUpload); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return nil, false
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Import file is required", nil)
			return nil, false
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return nil, false
	}
	defer file.Close()

	sheetRows, err := spreadsheet.ReadAttendanceRows(file, fileHeader.Filename)
	if err != nil {
		slog.Warn("Failed to read import sheet", "filename", fileHeader.Filename, "error", err)
		response.HandleError(w, err)
		return nil, false
	}

	rows, err := importRowsFromSheet(sheetRows)
	if err != nil {
		response.HandleError(w, err)
		return nil, false
	}
	return rows, true
}

// importRowsFromSheet normalizes spreadsheet cells into import rows. Cell
// errors are reported against the row index.
func importRowsFromSheet(sheetRows []spreadsheet.AttendanceRow) ([]attendance.ImportRow, error) {
	var errs validator.ValidationErrors
	rows := make([]attendance.ImportRow, 0, len(sheetRows))

	for i, sr := range sheetRows {
		prefix := fmt.Sprintf("rows[%d].", i)
		row := attendance.ImportRow{
			EmployeeID: sr.EmployeeID,
			FullName:   sr.FullName,
			Status:     sr.Status,
		}

		date, err := spreadsheet.NormalizeDate(sr.Date)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: prefix + "date", Message: err.Error()})
		}
		row.Date = date

		if in, err := spreadsheet.NormalizeClock(sr.InTime); err != nil {
			errs = append(errs, validator.ValidationError{Field: prefix + "in_time", Message: err.Error()})
		} else if in != "" {
			row.InTime = &in
		}

		if out, err := spreadsheet.NormalizeClock(sr.OutTime); err != nil {
			errs = append(errs, validator.ValidationError{Field: prefix + "out_time", Message: err.Error()})
		} else if out != "" {
			row.OutTime = &out
		}

		holiday, err := spreadsheet.ParseFlag(sr.IsHoliday)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: prefix + "is_holiday", Message: err.Error()})
		}
		row.IsHoliday = holiday

		rows = append(rows, row)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return rows, nil
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	// Parse query parameters
	filter := attendance.AttendanceFilter{}

	if employeeID := query.Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}

	// Date filters
	if date := query.Get("date"); date != "" {
		filter.Date = &date
	}
	if startDate := query.Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := query.Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}

	if status := query.Get("status"); status != "" {
		filter.Status = &status
	}
	if method := query.Get("method"); method != "" {
		filter.Method = &method
	}

	// Pagination
	page := 1
	if p := query.Get("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}
	filter.Page = page

	limit := 20
	if l := query.Get("limit"); l != "" {
		if limitNum, err := strconv.Atoi(l); err == nil && limitNum > 0 {
			limit = limitNum
		}
	}
	filter.Limit = limit

	// Sorting
	filter.SortBy = query.Get("sort_by")
	filter.SortOrder = query.Get("sort_order")

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.attendanceService.ListAttendance(ctx, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.attendanceService.GetAttendance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.UpdateAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated successfully", result)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.attendanceService.DeleteAttendance(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance deleted successfully", nil)
}
