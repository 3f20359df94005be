package user

import (
	"testing"
	"time"

	"github.com/infinite-track/hris-backend-go/internal/domain/leave"
	"github.com/infinite-track/hris-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestMissingProfileFields(t *testing.T) {
	assert.Equal(t, []string{FieldPhoneNumber, FieldNIK, FieldAddress, FieldContractStart, FieldContractEnd},
		User{}.MissingProfileFields())

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	u := User{
		PhoneNumber:   ptr("081234567890"),
		NIK:           ptr("  "),
		Address:       ptr("Batam"),
		ContractStart: &start,
	}
	assert.Equal(t, []string{FieldNIK, FieldContractEnd}, u.MissingProfileFields())
	assert.False(t, u.HasContract())
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission("management", PermissionUserManage))
	assert.False(t, HasPermission("Employee", PermissionUserManage))
	assert.False(t, HasPermission("Intern", PermissionLeaveViewAll))
	assert.True(t, HasPermission("Mentor", PermissionLeaveViewAll), "unknown roles fall back to employee")
}

func TestContact_ToResponse(t *testing.T) {
	resp := Contact{UserID: 3, Name: "Sari", PhoneNumber: "6281234567890"}.ToResponse()
	assert.Equal(t, "tel:6281234567890", resp.Actions.Call)
	assert.Equal(t, "sms:6281234567890", resp.Actions.SMS)
	assert.Equal(t, "https://wa.me/6281234567890", resp.Actions.WhatsApp)
}

func TestRegisterRequest_Validate(t *testing.T) {
	ok := RegisterRequest{Name: "Budi", Email: "budi@example.com", Password: "password1", Role: "Employee"}
	require.NoError(t, ok.Validate())

	bad := RegisterRequest{
		Email:         "budi",
		Password:      "short",
		IsHeadProgram: true,
		AnnualBalance: ptr(2),
		AnnualUsed:    ptr(3),
		ContractStart: ptr("2025-06-01"),
		ContractEnd:   ptr("2025-01-01"),
	}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, bad.Validate(), &verrs)
	fields := verrs.ToMap()
	for _, f := range []string{"name", "email", "password", "role", "program", "annual_used", "contract_end"} {
		assert.Contains(t, fields, f)
	}
}

func TestParseOptionalDate(t *testing.T) {
	assert.Nil(t, ParseOptionalDate(nil))
	assert.Nil(t, ParseOptionalDate(ptr("01/02/2025")))
	got := ParseOptionalDate(ptr("2025-02-01"))
	require.NotNil(t, got)
	assert.Equal(t, time.February, got.Month())
}

func TestUpdateUserRequest_Authorize(t *testing.T) {
	tests := []struct {
		name    string
		actor   Actor
		target  int64
		role    string
		wantErr bool
	}{
		{"self keeps role", Actor{ID: 7, Role: RoleIntern}, 7, "intern", false},
		{"self leaves role empty", Actor{ID: 7, Role: RoleIntern}, 7, "", false},
		{"self changes role", Actor{ID: 7, Role: RoleIntern}, 7, RoleManagement, true},
		{"other user", Actor{ID: 7, Role: RoleEmployee}, 9, RoleEmployee, true},
		{"manager edits other user", Actor{ID: 1, Role: "management"}, 9, RoleManagement, false},
		{"no actor", Actor{}, 9, RoleEmployee, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := UpdateUserRequest{ID: tt.target, Role: tt.role, Actor: tt.actor}
			err := req.Authorize(RoleIntern)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInsufficientPermissions)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRegisterRequest_Stages(t *testing.T) {
	req := RegisterRequest{ApproverStages: []string{" Operational", "programdirector", "operational"}}
	stages, err := req.Stages()
	require.NoError(t, err)
	assert.Equal(t, []leave.Stage{leave.StageOperational, leave.StageProgramDirector}, stages)

	req.ApproverStages = []string{"ceo"}
	_, err = req.Stages()
	assert.ErrorIs(t, err, leave.ErrInvalidStage)
}
