package leave

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/infinite-track/hris-backend-go/internal/pkg/validator"
)

const maxAttachmentSize = 10 << 20

// SubmitRequest is sent as multipart form data. The requester is the
// authenticated user; program, division and leave type are resolved by name.
type SubmitRequest struct {
	UserID      int64  `json:"-"`
	ProgramName string `json:"programName"`
	Division    string `json:"division"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	LeaveType   string `json:"leavetype"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`

	Attachment     io.Reader `json:"-"`
	AttachmentName string    `json:"-"`
	AttachmentSize int64     `json:"-"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.UserID <= 0 {
		errs.Add("user_id", "user_id is required")
	}
	errs.Required("programName", r.ProgramName)
	errs.Required("division", r.Division)
	errs.Required("leavetype", r.LeaveType)
	errs.Required("description", r.Description)
	errs.Required("phone", r.Phone)
	errs.Required("address", r.Address)

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if startOK && endOK && end.Before(start) {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	if r.Attachment == nil {
		errs.Add("upload_image", "upload_image is required")
	} else {
		ext := strings.ToLower(filepath.Ext(r.AttachmentName))
		if !validator.IsInSlice(ext, []string{".jpg", ".jpeg", ".png", ".pdf"}) {
			errs.Add("upload_image", "invalid file type: only jpg, jpeg, png, pdf allowed")
		} else if r.AttachmentSize > maxAttachmentSize {
			errs.Add("upload_image", "file size exceeds 10MB limit")
		}
	}

	return errs.Err()
}

// Dates returns the parsed range. Only valid after Validate.
func (r *SubmitRequest) Dates() (time.Time, time.Time) {
	start, _ := validator.IsValidDate(r.StartDate)
	end, _ := validator.IsValidDate(r.EndDate)
	return start, end
}

type DecisionRequest struct {
	LeaveID        int64  `json:"-"`
	Stage          string `json:"-"`
	ApproverID     int64  `json:"-"`
	ApprovalStatus string `json:"approvalStatus"`
}

func (r *DecisionRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.LeaveID <= 0 {
		errs.Add("leaveId", "leaveId must be a positive integer")
	}
	if r.ApproverID <= 0 {
		errs.Add("approver_id", "approver_id is required")
	}
	return errs.Err()
}

type LeaveResponse struct {
	ID            int64   `json:"leaveId"`
	UserID        int64   `json:"userId"`
	UserName      string  `json:"userName"`
	DivisionName  *string `json:"division,omitempty"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	TotalDays     int     `json:"total_days"`
	LeaveType     string  `json:"leaveType"`
	Description   string  `json:"description"`
	Phone         string  `json:"phone"`
	Address       string  `json:"address"`
	AttachmentURL *string `json:"upload_image,omitempty"`
	Status        Status  `json:"leaveStatus"`
	ApproverID    *int64  `json:"approverId,omitempty"`
	ApproverStage *Stage  `json:"approverStage,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

func (l LeaveRequest) ToResponse(attachmentURL *string) LeaveResponse {
	return LeaveResponse{
		ID:            l.ID,
		UserID:        l.UserID,
		UserName:      l.UserName,
		DivisionName:  l.DivisionName,
		StartDate:     l.StartDate.Format("2006-01-02"),
		EndDate:       l.EndDate.Format("2006-01-02"),
		TotalDays:     l.TotalDays,
		LeaveType:     l.LeaveTypeName,
		Description:   l.Description,
		Phone:         l.Phone,
		Address:       l.Address,
		AttachmentURL: attachmentURL,
		Status:        l.Status,
		ApproverID:    l.ApproverID,
		ApproverStage: l.ApproverStage,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
	}
}

type BalanceResponse struct {
	AnnualBalance int `json:"annualBalance"`
	AnnualUsed    int `json:"annualUsed"`
	Remaining     int `json:"remaining"`
}

func (b Balance) ToResponse() BalanceResponse {
	return BalanceResponse{
		AnnualBalance: b.AnnualBalance,
		AnnualUsed:    b.AnnualUsed,
		Remaining:     b.Remaining(),
	}
}

type SubmitResponse struct {
	Leave   LeaveResponse    `json:"leave"`
	Balance *BalanceResponse `json:"balance,omitempty"`
}

type DecisionResponse struct {
	LeaveID int64  `json:"leaveId"`
	Stage   Stage  `json:"stage"`
	Status  Status `json:"leaveStatus"`
}
