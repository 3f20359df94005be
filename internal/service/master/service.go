package master

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/infinite-track/hris-backend-go/internal/domain/master"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/division"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/headprogram"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/program"
	"github.com/infinite-track/hris-backend-go/internal/pkg/logger"
)

type masterServiceImpl struct {
	divisionRepo    division.DivisionRepository
	headProgramRepo headprogram.HeadProgramRepository
	programRepo     program.ProgramRepository
}

func NewMasterService(
	divisionRepo division.DivisionRepository,
	headProgramRepo headprogram.HeadProgramRepository,
	programRepo program.ProgramRepository,
) master.MasterService {
	return &masterServiceImpl{
		divisionRepo:    divisionRepo,
		headProgramRepo: headProgramRepo,
		programRepo:     programRepo,
	}
}

// ==================== DIVISION OPERATIONS ====================

func (s *masterServiceImpl) ListDivisions(ctx context.Context) ([]division.DivisionResponse, error) {
	divisions, err := s.divisionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list divisions: %w", err)
	}
	if len(divisions) == 0 {
		return nil, division.ErrNoDivisions
	}

	responses := make([]division.DivisionResponse, 0, len(divisions))
	for _, d := range divisions {
		responses = append(responses, d.ToResponse())
	}
	return responses, nil
}

// ==================== HEAD PROGRAM OPERATIONS ====================

func (s *masterServiceImpl) CreateHeadProgram(ctx context.Context, req headprogram.CreateHeadProgramRequest) (headprogram.HeadProgramResponse, error) {
	if err := req.Validate(); err != nil {
		return headprogram.HeadProgramResponse{}, err
	}

	newHeadProgram := headprogram.HeadProgram{
		Name:   strings.TrimSpace(req.Name),
		UserID: req.UserID,
	}

	// Program is optional and must already exist when given
	if name := strings.TrimSpace(req.ProgramName); name != "" {
		p, err := s.programRepo.GetByName(ctx, name)
		if err != nil {
			return headprogram.HeadProgramResponse{}, err
		}
		newHeadProgram.ProgramID = &p.ID
	}

	created, err := s.headProgramRepo.Create(ctx, newHeadProgram)
	if err != nil {
		return headprogram.HeadProgramResponse{}, fmt.Errorf("failed to create head program: %w", err)
	}

	logger.From(ctx).Info("head program created", slog.Int64("head_program_id", created.ID), slog.String("name", created.Name))
	return created.ToResponse(), nil
}

func (s *masterServiceImpl) GetHeadProgram(ctx context.Context, id int64) (headprogram.HeadProgramResponse, error) {
	hp, err := s.headProgramRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, headprogram.ErrHeadProgramNotFound) {
			return headprogram.HeadProgramResponse{}, err
		}
		return headprogram.HeadProgramResponse{}, fmt.Errorf("failed to get head program: %w", err)
	}
	return hp.ToResponse(), nil
}
