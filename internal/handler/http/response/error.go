package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/infinite-track/hris-backend-go/internal/domain/attendance"
	"github.com/infinite-track/hris-backend-go/internal/domain/auth"
	"github.com/infinite-track/hris-backend-go/internal/domain/leave"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/division"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/headprogram"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/position"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/program"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/role"
	"github.com/infinite-track/hris-backend-go/internal/domain/otp"
	"github.com/infinite-track/hris-backend-go/internal/domain/user"
	"github.com/infinite-track/hris-backend-go/internal/pkg/validator"
	"github.com/infinite-track/hris-backend-go/internal/service/file"
)

// badRequest lists business-rule errors whose message is shown to the client as is.
var badRequest = []error{
	auth.ErrEmailOrPasswordWrong,
	auth.ErrInvalidPassword,
	auth.ErrPasswordMismatch,

	otp.ErrUserNotRegistered,
	otp.ErrInvalidOTP,

	attendance.ErrLocationOutOfRange,
	attendance.ErrImageRequired,
	attendance.ErrCoordinatesRequired,
	attendance.ErrInvalidCoordinates,
	attendance.ErrInvalidCategory,
	attendance.ErrInvalidAction,
	attendance.ErrAlreadyCheckedIn,
	attendance.ErrNoActiveCheckIn,

	leave.ErrAnnualLimitReached,
	leave.ErrInvalidApprovalAction,
	leave.ErrInvalidStage,
	leave.ErrInvalidView,
	leave.ErrLeaveNotFoundOrProcessed,

	role.ErrRoleNotFound,
}

var notFound = []error{
	user.ErrUserNotFound,
	user.ErrNoContacts,
	leave.ErrLeaveTypeNotFound,
	leave.ErrBalanceNotFound,
	program.ErrProgramNotFound,
	division.ErrDivisionNotFound,
	division.ErrNoDivisions,
	headprogram.ErrHeadProgramNotFound,
	position.ErrPositionNotFound,
}

// firstMatch returns the sentinel err wraps, so clients never see wrapping context.
func firstMatch(err error, targets []error) error {
	for _, target := range targets {
		if errors.Is(err, target) {
			return target
		}
	}
	return nil
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	if target := firstMatch(err, badRequest); target != nil {
		BadRequest(w, target.Error(), nil)
		return
	}
	if target := firstMatch(err, notFound); target != nil {
		NotFound(w, target.Error())
		return
	}

	switch {
	case errors.Is(err, file.ErrInvalidFileType):
		ValidationError(w, map[string]string{"file": file.ErrInvalidFileType.Error()})

	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, auth.ErrInvalidToken.Error())
	case errors.Is(err, auth.ErrOTPNotVerified):
		Unauthorized(w, auth.ErrOTPNotVerified.Error())
	case errors.Is(err, leave.ErrNotApprover):
		Forbidden(w, leave.ErrNotApprover.Error())
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, user.ErrInsufficientPermissions.Error())

	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, user.ErrUserEmailExists.Error())

	case errors.Is(err, otp.ErrSendFailed):
		InternalServerError(w, otp.ErrSendFailed.Error())

	// Default
	default:
		slog.Error("unhandled error", slog.Any("error", err))
		InternalServerError(w, "An unexpected error occurred")
	}
}
