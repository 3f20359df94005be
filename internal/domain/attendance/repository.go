package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Create inserts a check-in row and returns it with its generated ID.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetOpenByUserAndDate returns the record for date whose check-out is still
	// null. Returns ErrNoActiveCheckIn when none exists.
	GetOpenByUserAndDate(ctx context.Context, userID int64, date time.Time) (Attendance, error)

	// CloseCheckOut sets the check-out time and status, guarded by
	// check_out_time IS NULL. Returns ErrNoActiveCheckIn if the row was already closed.
	CloseCheckOut(ctx context.Context, id int64, checkOutTime time.Time, status Status) (Attendance, error)

	ListByUser(ctx context.Context, userID int64) ([]Attendance, error)
}
