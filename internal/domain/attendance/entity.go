package attendance

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryOffice Category = "Office"
	CategoryHome   Category = "Home"
)

// ParseCategory accepts the category name case-insensitively. "WFO" and
// "WFH" are accepted as aliases used by the mobile client.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "office", "wfo", "work from office":
		return CategoryOffice, true
	case "home", "wfh", "work from home":
		return CategoryHome, true
	}
	return "", false
}

type Status string

const (
	StatusLate      Status = "Late"
	StatusConfirmed Status = "Confirmed"
	StatusOvertime  Status = "Overtime"
	StatusNormal    Status = "Normal"
)

type Action string

const (
	ActionCheckIn  Action = "checkin"
	ActionCheckOut Action = "checkout"
)

// WorkHours holds the hour boundaries used to derive a status from the
// local wall clock.
type WorkHours struct {
	LateHour     int
	OvertimeHour int
}

var DefaultWorkHours = WorkHours{LateHour: 9, OvertimeHour: 17}

// CheckInStatus marks a check-in before LateHour as Late, anything else as Confirmed.
func (w WorkHours) CheckInStatus(local time.Time) Status {
	if local.Hour() < w.LateHour {
		return StatusLate
	}
	return StatusConfirmed
}

// CheckOutStatus marks a check-out at or after OvertimeHour as Overtime.
func (w WorkHours) CheckOutStatus(local time.Time) Status {
	if local.Hour() >= w.OvertimeHour {
		return StatusOvertime
	}
	return StatusNormal
}

type Attendance struct {
	ID           int64
	UserID       int64
	Date         time.Time
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Category     Category
	Status       Status
	Latitude     *float64
	Longitude    *float64
	ImagePath    *string
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsOpen reports whether the record still awaits a check-out.
func (a Attendance) IsOpen() bool {
	return a.CheckInTime != nil && a.CheckOutTime == nil
}
