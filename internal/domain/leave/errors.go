package leave

import "errors"

var (
	ErrLeaveNotFoundOrProcessed = errors.New("Leave request not found or already processed")
	ErrInvalidApprovalAction    = errors.New("Invalid approval status. Must be 'approved' or 'declined'.")
	ErrInvalidStage             = errors.New("stage must be headprogram, operational or programdirector")
	ErrInvalidView              = errors.New("view must be assigned, declined or approved")
	ErrAnnualLimitReached       = errors.New("You Have Reached Your Annual Limit. Leave Rejected. Please Wait for New Annual Leave :D")
	ErrLeaveTypeNotFound        = errors.New("Leave Type not found")
	ErrBalanceNotFound          = errors.New("Leave Balance not found")
	ErrNotApprover              = errors.New("only registered leave approvers can process leave requests")
)
