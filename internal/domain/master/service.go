package master

import (
	"context"

	"github.com/infinite-track/hris-backend-go/internal/domain/master/division"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/headprogram"
)

type MasterService interface {
	ListDivisions(ctx context.Context) ([]division.DivisionResponse, error)

	CreateHeadProgram(ctx context.Context, req headprogram.CreateHeadProgramRequest) (headprogram.HeadProgramResponse, error)
	GetHeadProgram(ctx context.Context, id int64) (headprogram.HeadProgramResponse, error)
}
