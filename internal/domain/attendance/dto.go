package attendance

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/infinite-track/hris-backend-go/internal/pkg/validator"
)

const maxImageSize = 10 << 20

// RecordRequest is the single payload behind POST /attendance/users. The
// action field selects check-in or check-out.
type RecordRequest struct {
	UserID    int64    `json:"-"`
	Action    string   `json:"action"`
	Category  string   `json:"attendance_category"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Notes     *string  `json:"notes"`

	Image     io.Reader `json:"-"`
	ImageName string    `json:"-"`
	ImageSize int64     `json:"-"`
}

func (r *RecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.UserID <= 0 {
		errs.Add("user_id", "user_id is required")
	}

	switch Action(strings.ToLower(strings.TrimSpace(r.Action))) {
	case ActionCheckIn:
		if validator.IsEmpty(r.Category) {
			errs.Add("attendance_category", "attendance_category is required")
		} else if _, ok := ParseCategory(r.Category); !ok {
			errs.Add("attendance_category", ErrInvalidCategory.Error())
		}
	case ActionCheckOut:
	default:
		errs.Add("action", ErrInvalidAction.Error())
	}

	if r.Image != nil {
		ext := strings.ToLower(filepath.Ext(r.ImageName))
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			errs.Add("upload_image", "invalid file type: only jpg, jpeg, png allowed")
		} else if r.ImageSize > maxImageSize {
			errs.Add("upload_image", "file size exceeds 10MB limit")
		}
	}

	if r.Notes != nil && len(*r.Notes) > 500 {
		errs.Add("notes", "notes must not exceed 500 characters")
	}

	return errs.Err()
}

// NormalizedAction returns the lower-cased action after Validate succeeded.
func (r *RecordRequest) NormalizedAction() Action {
	return Action(strings.ToLower(strings.TrimSpace(r.Action)))
}

func (r *RecordRequest) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

type AttendanceResponse struct {
	ID           int64    `json:"attendanceId"`
	UserID       int64    `json:"userId"`
	Date         string   `json:"attendance_date"`
	CheckInTime  *string  `json:"check_in_time"`
	CheckOutTime *string  `json:"check_out_time"`
	Category     Category `json:"attendance_category"`
	Status       Status   `json:"attendance_status"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	ImageURL     *string  `json:"upload_image,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// ToResponse converts the entity; imageURL is resolved by the caller.
func (a Attendance) ToResponse(imageURL *string) AttendanceResponse {
	return AttendanceResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		Date:         a.Date.Format("2006-01-02"),
		CheckInTime:  formatTime(a.CheckInTime),
		CheckOutTime: formatTime(a.CheckOutTime),
		Category:     a.Category,
		Status:       a.Status,
		Latitude:     a.Latitude,
		Longitude:    a.Longitude,
		ImageURL:     imageURL,
		Notes:        a.Notes,
	}
}
