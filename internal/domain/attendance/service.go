package attendance

import "context"

type AttendanceService interface {
	// Record dispatches on req.Action to CheckIn or CheckOut.
	Record(ctx context.Context, req RecordRequest) (AttendanceResponse, error)

	CheckIn(ctx context.Context, req RecordRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, userID int64) (AttendanceResponse, error)

	ListByUser(ctx context.Context, userID int64) ([]AttendanceResponse, error)
}
