package headprogram

import "github.com/infinite-track/hris-backend-go/internal/pkg/validator"

type HeadProgram struct {
	ID        int64
	Name      string
	ProgramID *int64
	UserID    *int64
}

type CreateHeadProgramRequest struct {
	Name        string `json:"headprogram"`
	ProgramName string `json:"programName"`
	UserID      *int64 `json:"userId"`
}

func (r *CreateHeadProgramRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("headprogram", ErrNameRequired.Error())
	} else if len(r.Name) > 100 {
		errs.Add("headprogram", "headprogram must not exceed 100 characters")
	}

	return errs.Err()
}

type HeadProgramResponse struct {
	ID        int64  `json:"headprogramId"`
	Name      string `json:"headprogram"`
	ProgramID *int64 `json:"programId,omitempty"`
	UserID    *int64 `json:"userId,omitempty"`
}

func (h HeadProgram) ToResponse() HeadProgramResponse {
	return HeadProgramResponse{
		ID:        h.ID,
		Name:      h.Name,
		ProgramID: h.ProgramID,
		UserID:    h.UserID,
	}
}
