package user

import (
	"strings"
	"time"
)

// Role names seeded by the migrations. Roles are data driven, so any other
// name created at registration falls back to employee permissions.
const (
	RoleManagement = "Management"
	RoleEmployee   = "Employee"
	RoleIntern     = "Intern"
)

type User struct {
	ID            int64
	Name          string
	Email         string
	PasswordHash  string
	RoleID        int64
	DivisionID    *int64
	ProgramID     *int64
	HeadProgramID *int64
	PositionID    *int64
	PhoneNumber   *string
	NIK           *string
	Address       *string
	ContractStart *time.Time
	ContractEnd   *time.Time
	PhotoPath     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Join
	RoleName        string
	DivisionName    *string
	ProgramName     *string
	HeadProgramName *string
	PositionName    *string
}

// Profile fields a user must fill in before their profile is complete.
const (
	FieldPhoneNumber   = "phone_number"
	FieldNIK           = "nik"
	FieldAddress       = "address"
	FieldContractStart = "contract_start"
	FieldContractEnd   = "contract_end"
)

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// MissingProfileFields lists the required profile fields that are still empty,
// in a stable order.
func (u User) MissingProfileFields() []string {
	missing := []string{}
	if blank(u.PhoneNumber) {
		missing = append(missing, FieldPhoneNumber)
	}
	if blank(u.NIK) {
		missing = append(missing, FieldNIK)
	}
	if blank(u.Address) {
		missing = append(missing, FieldAddress)
	}
	if u.ContractStart == nil {
		missing = append(missing, FieldContractStart)
	}
	if u.ContractEnd == nil {
		missing = append(missing, FieldContractEnd)
	}
	return missing
}

func (u User) HasContract() bool {
	return u.ContractStart != nil && u.ContractEnd != nil
}

type Contact struct {
	UserID       int64
	Name         string
	PhoneNumber  string
	PositionID   *int64
	PositionName *string
}
