package division

type Division struct {
	ID        int64
	Name      string
	ProgramID *int64

	// Join
	ProgramName *string
}

type DivisionResponse struct {
	ID          int64  `json:"divisionId"`
	Name        string `json:"division"`
	ProgramID   *int64 `json:"programId"`
	ProgramName string `json:"programName"`
}

func (d Division) ToResponse() DivisionResponse {
	programName := "Program not found"
	if d.ProgramName != nil {
		programName = *d.ProgramName
	}
	return DivisionResponse{
		ID:          d.ID,
		Name:        d.Name,
		ProgramID:   d.ProgramID,
		ProgramName: programName,
	}
}
