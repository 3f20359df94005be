package http

import (
	"net/http"

	"github.com/infinite-track/hris-backend-go/internal/domain/attendance"
	"github.com/infinite-track/hris-backend-go/internal/handler/http/response"
	"github.com/infinite-track/hris-backend-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	ListByUser(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// Record implements AttendanceHandler. Check-in and check-out share the
// endpoint; the action field picks one.
func (h *attendanceHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	var errs validator.ValidationErrors
	req := attendance.RecordRequest{
		UserID:    p.UserID,
		Action:    r.FormValue("action"),
		Category:  r.FormValue("attendance_category"),
		Latitude:  formFloat(r, "latitude", &errs),
		Longitude: formFloat(r, "longitude", &errs),
		Notes:     formPtr(r, "notes"),
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	image, err := formFile(r, "upload_image")
	if err != nil {
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer image.Close()
	req.Image, req.ImageName, req.ImageSize = image.Reader(), image.name, image.size

	resp, err := h.attendanceService.Record(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if req.NormalizedAction() == attendance.ActionCheckIn {
		response.Created(w, "Check-in recorded", resp)
		return
	}
	response.SuccessWithMessage(w, "Check-out recorded", resp)
}

// ListByUser implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.ListByUser(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}
