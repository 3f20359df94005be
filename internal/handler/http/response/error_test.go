package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/infinite-track/hris-backend-go/internal/domain/attendance"
	"github.com/infinite-track/hris-backend-go/internal/domain/auth"
	"github.com/infinite-track/hris-backend-go/internal/domain/leave"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/division"
	"github.com/infinite-track/hris-backend-go/internal/domain/otp"
	"github.com/infinite-track/hris-backend-go/internal/domain/user"
	"github.com/infinite-track/hris-backend-go/internal/pkg/validator"
	"github.com/infinite-track/hris-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError_Status(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", validator.ValidationErrors{{Field: "email", Message: "email is required"}}, http.StatusUnprocessableEntity},
		{"file type", fmt.Errorf("upload: %w", file.ErrInvalidFileType), http.StatusUnprocessableEntity},
		{"bad login", auth.ErrEmailOrPasswordWrong, http.StatusBadRequest},
		{"geofence", attendance.ErrLocationOutOfRange, http.StatusBadRequest},
		{"annual limit", leave.ErrAnnualLimitReached, http.StatusBadRequest},
		{"processed", leave.ErrLeaveNotFoundOrProcessed, http.StatusBadRequest},
		{"invalid otp", otp.ErrInvalidOTP, http.StatusBadRequest},
		{"user", user.ErrUserNotFound, http.StatusNotFound},
		{"contacts", user.ErrNoContacts, http.StatusNotFound},
		{"divisions", division.ErrNoDivisions, http.StatusNotFound},
		{"otp not verified", auth.ErrOTPNotVerified, http.StatusUnauthorized},
		{"not approver", leave.ErrNotApprover, http.StatusForbidden},
		{"duplicate email", user.ErrUserEmailExists, http.StatusConflict},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandleError_Body(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, fmt.Errorf("submit: %w", leave.ErrAnnualLimitReached))

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "BAD_REQUEST", body.Error.Code)
	assert.Equal(t, leave.ErrAnnualLimitReached.Error(), body.Error.Message)
	assert.Equal(t, body.Error.Message, body.Message)

	rec = httptest.NewRecorder()
	HandleError(rec, errors.New("pq: secret detail"))
	body = Response{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "An unexpected error occurred", body.Error.Message)
	assert.Equal(t, "An unexpected error occurred", body.Message)
}

func TestErrorEnvelopeHasTopLevelMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, map[string]string{"email": "email is required"})

	var raw map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	assert.Equal(t, false, raw["success"])
	assert.Equal(t, "Validation failed", raw["message"])
	errBody, ok := raw["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
	assert.Equal(t, map[string]any{"email": "email is required"}, errBody["details"])
}
