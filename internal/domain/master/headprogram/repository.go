package headprogram

import "context"

type HeadProgramRepository interface {
	Create(ctx context.Context, headProgram HeadProgram) (HeadProgram, error)
	GetByID(ctx context.Context, id int64) (HeadProgram, error)
	GetByProgramID(ctx context.Context, programID int64) (HeadProgram, error)
}
