package user

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/infinite-track/hris-backend-go/internal/domain/leave"
	"github.com/infinite-track/hris-backend-go/internal/pkg/validator"
)

const maxPhotoSize = 5 << 20

func validateProfile(errs *validator.ValidationErrors, phone, nik *string, contractStart, contractEnd *string) {
	if !blank(phone) && !validator.IsValidPhoneNumber(*phone) {
		errs.Add("phone_number", "invalid phone number format")
	}
	if !blank(nik) && !validator.IsValidNIK(*nik) {
		errs.Add("nik", "nik must be 16 digits")
	}

	var start, end time.Time
	var startOK, endOK bool
	if contractStart != nil {
		if start, startOK = validator.IsValidDate(*contractStart); !startOK {
			errs.Add("contract_start", "contract_start must be in YYYY-MM-DD format")
		}
	}
	if contractEnd != nil {
		if end, endOK = validator.IsValidDate(*contractEnd); !endOK {
			errs.Add("contract_end", "contract_end must be in YYYY-MM-DD format")
		}
	}
	if startOK && endOK && end.Before(start) {
		errs.Add("contract_end", "contract_end must not be before contract_start")
	}
}

// ParseOptionalDate parses a validated YYYY-MM-DD pointer.
func ParseOptionalDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, ok := validator.IsValidDate(*s)
	if !ok {
		return nil
	}
	return &t
}

// RegisterRequest carries a new user. ApproverStages lists the approval
// stages the user may decide at.
type RegisterRequest struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	Role           string   `json:"role"`
	Division       string   `json:"division"`
	Program        string   `json:"program"`
	Position       string   `json:"position"`
	IsHeadProgram  bool     `json:"is_headprogram"`
	ApproverStages []string `json:"approver_stages"`
	AnnualBalance  *int     `json:"annual_balance"`
	AnnualUsed     *int     `json:"annual_used"`
	PhoneNumber    *string  `json:"phone_number"`
	NIK            *string  `json:"nik"`
	Address        *string  `json:"address"`
	ContractStart  *string  `json:"contract_start"`
	ContractEnd    *string  `json:"contract_end"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	errs.Required("name", r.Name)
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}
	if len(r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters")
	}
	errs.Required("role", r.Role)

	if r.IsHeadProgram && validator.IsEmpty(r.Program) {
		errs.Add("program", "program is required when registering a head program")
	}

	if _, err := r.Stages(); err != nil {
		errs.Add("approver_stages", "approver_stages must contain headprogram, operational or programdirector")
	}

	if r.AnnualBalance != nil && *r.AnnualBalance < 0 {
		errs.Add("annual_balance", "annual_balance must not be negative")
	}
	if r.AnnualUsed != nil && *r.AnnualUsed < 0 {
		errs.Add("annual_used", "annual_used must not be negative")
	}
	if r.AnnualBalance != nil && r.AnnualUsed != nil && *r.AnnualUsed > *r.AnnualBalance {
		errs.Add("annual_used", "annual_used must not exceed annual_balance")
	}

	validateProfile(&errs, r.PhoneNumber, r.NIK, r.ContractStart, r.ContractEnd)

	return errs.Err()
}

// Stages parses ApproverStages, dropping duplicates.
func (r *RegisterRequest) Stages() ([]leave.Stage, error) {
	var stages []leave.Stage
	seen := make(map[leave.Stage]bool, len(r.ApproverStages))
	for _, name := range r.ApproverStages {
		stage, err := leave.ParseStage(name)
		if err != nil {
			return nil, err
		}
		if !seen[stage] {
			seen[stage] = true
			stages = append(stages, stage)
		}
	}
	return stages, nil
}

type UpdateUserRequest struct {
	ID            int64   `json:"-"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Password      *string `json:"password"`
	Role          string  `json:"role"`
	Division      *string `json:"division"`
	Position      *string `json:"position"`
	PhoneNumber   *string `json:"phone_number"`
	NIK           *string `json:"nik"`
	Address       *string `json:"address"`
	ContractStart *string `json:"contract_start"`
	ContractEnd   *string `json:"contract_end"`

	Photo     io.Reader `json:"-"`
	PhotoName string    `json:"-"`
	PhotoSize int64     `json:"-"`

	Actor Actor `json:"-"`
}

// Actor is the authenticated caller behind a change.
type Actor struct {
	ID   int64
	Role string
}

func (a Actor) CanManageUsers() bool {
	return HasPermission(a.Role, PermissionUserManage)
}

// Authorize checks the request against the target's current role. Without
// PermissionUserManage an actor may only edit their own account and may not
// change its role.
func (r *UpdateUserRequest) Authorize(currentRole string) error {
	if r.Actor.CanManageUsers() {
		return nil
	}
	if r.Actor.ID != r.ID {
		return ErrInsufficientPermissions
	}
	if role := strings.TrimSpace(r.Role); role != "" && !strings.EqualFold(role, currentRole) {
		return ErrInsufficientPermissions
	}
	return nil
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID <= 0 {
		errs.Add("id", "id must be a positive integer")
	}
	errs.Required("name", r.Name)
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}
	errs.Required("role", r.Role)
	if r.Password != nil && len(*r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters")
	}

	validateProfile(&errs, r.PhoneNumber, r.NIK, r.ContractStart, r.ContractEnd)

	if r.Photo != nil {
		ext := strings.ToLower(filepath.Ext(r.PhotoName))
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			errs.Add("photo", "invalid file type: only jpg, jpeg, png allowed")
		} else if r.PhotoSize > maxPhotoSize {
			errs.Add("photo", "file size exceeds 5MB limit")
		}
	}

	return errs.Err()
}

// UserResponse represents user data in API responses
type UserResponse struct {
	ID            int64   `json:"userId"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Role          string  `json:"role"`
	Division      *string `json:"division"`
	Program       *string `json:"program"`
	HeadProgram   *string `json:"headProgram"`
	Position      *string `json:"position"`
	PhoneNumber   *string `json:"phone_number"`
	NIK           *string `json:"nik"`
	Address       *string `json:"address"`
	ContractStart *string `json:"contract_start"`
	ContractEnd   *string `json:"contract_end"`
	PhotoURL      *string `json:"photo"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func (u User) ToResponse(photoURL *string) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.RoleName,
		Division:      u.DivisionName,
		Program:       u.ProgramName,
		HeadProgram:   u.HeadProgramName,
		Position:      u.PositionName,
		PhoneNumber:   u.PhoneNumber,
		NIK:           u.NIK,
		Address:       u.Address,
		ContractStart: formatDate(u.ContractStart),
		ContractEnd:   formatDate(u.ContractEnd),
		PhotoURL:      photoURL,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     u.UpdatedAt.Format(time.RFC3339),
	}
}

type RegisterResponse struct {
	User          UserResponse `json:"user"`
	AnnualBalance int          `json:"annual_balance"`
	AnnualUsed    int          `json:"annual_used"`
	Token         string       `json:"token"`
}

type ContactActions struct {
	Call     string `json:"call"`
	SMS      string `json:"sms"`
	WhatsApp string `json:"whatsapp"`
}

type ContactResponse struct {
	UserID       int64          `json:"userId"`
	Name         string         `json:"name"`
	PositionID   *int64         `json:"positionId"`
	PositionName *string        `json:"positionName"`
	PhoneNumber  string         `json:"phone_number"`
	Actions      ContactActions `json:"actions"`
}

func (c Contact) ToResponse() ContactResponse {
	return ContactResponse{
		UserID:       c.UserID,
		Name:         c.Name,
		PositionID:   c.PositionID,
		PositionName: c.PositionName,
		PhoneNumber:  c.PhoneNumber,
		Actions: ContactActions{
			Call:     "tel:" + c.PhoneNumber,
			SMS:      "sms:" + c.PhoneNumber,
			WhatsApp: "https://wa.me/" + c.PhoneNumber,
		},
	}
}
