package leave

import "context"

type LeaveTypeRepository interface {
	GetByName(ctx context.Context, name string) (LeaveType, error)
	List(ctx context.Context) ([]LeaveType, error)
}

type LeaveBalanceRepository interface {
	Create(ctx context.Context, balance Balance) error
	GetByUserID(ctx context.Context, userID int64) (Balance, error)

	// Deduct adds days to annual_used only when the result stays within
	// annual_balance. Returns ErrAnnualLimitReached when no row qualifies.
	Deduct(ctx context.Context, userID int64, days int) (Balance, error)

	SetEntitlement(ctx context.Context, userID int64, annualBalance int) error
}

type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id int64) (LeaveRequest, error)
	List(ctx context.Context, filter Filter) ([]LeaveRequest, error)

	// Transition moves the request from -> to, guarded by the current status.
	// Returns ErrLeaveNotFoundOrProcessed when no row matched.
	Transition(ctx context.Context, id int64, from, to Status, approverID int64, stage Stage) error
}

type ApproverRepository interface {
	// IsApprover reports whether userID may act at stage.
	IsApprover(ctx context.Context, userID int64, stage Stage) (bool, error)
}
