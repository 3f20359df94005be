package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/infinite-track/hris-backend-go/internal/domain/leave"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/division"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/headprogram"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/program"
	"github.com/infinite-track/hris-backend-go/internal/pkg/database"
	"github.com/infinite-track/hris-backend-go/internal/pkg/logger"
	"github.com/infinite-track/hris-backend-go/internal/service/file"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveTypeRepository
	leave.LeaveRequestRepository
	leave.ApproverRepository
	program.ProgramRepository
	headprogram.HeadProgramRepository
	division.DivisionRepository
	ledger      *Ledger
	fileService file.FileService
}

func NewLeaveService(
	tx database.Transactor,
	leaveTypeRepository leave.LeaveTypeRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	approverRepository leave.ApproverRepository,
	programRepository program.ProgramRepository,
	headProgramRepository headprogram.HeadProgramRepository,
	divisionRepository division.DivisionRepository,
	ledger *Ledger,
	fileService file.FileService,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:                     tx,
		LeaveTypeRepository:    leaveTypeRepository,
		LeaveRequestRepository: leaveRequestRepository,
		ApproverRepository:     approverRepository,
		ProgramRepository:      programRepository,
		HeadProgramRepository:  headProgramRepository,
		DivisionRepository:     divisionRepository,
		ledger:                 ledger,
		fileService:            fileService,
	}
}

func (s *LeaveServiceImpl) toResponse(lr leave.LeaveRequest) leave.LeaveResponse {
	var url *string
	if lr.AttachmentPath != nil {
		u := s.fileService.GetFileURL(*lr.AttachmentPath)
		url = &u
	}
	return lr.ToResponse(url)
}

// resolved holds the ids a submission refers to by name.
type resolved struct {
	headProgramID int64
	divisionID    int64
	leaveType     leave.LeaveType
}

func (s *LeaveServiceImpl) resolve(ctx context.Context, req leave.SubmitRequest) (resolved, error) {
	prog, err := s.ProgramRepository.GetByName(ctx, req.ProgramName)
	if err != nil {
		return resolved{}, err
	}
	hp, err := s.HeadProgramRepository.GetByProgramID(ctx, prog.ID)
	if err != nil {
		return resolved{}, err
	}
	div, err := s.DivisionRepository.GetByName(ctx, req.Division)
	if err != nil {
		return resolved{}, err
	}
	lt, err := s.LeaveTypeRepository.GetByName(ctx, req.LeaveType)
	if err != nil {
		return resolved{}, err
	}
	return resolved{headProgramID: hp.ID, divisionID: div.ID, leaveType: lt}, nil
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.SubmitRequest) (leave.SubmitResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.SubmitResponse{}, err
	}

	refs, err := s.resolve(ctx, req)
	if err != nil {
		return leave.SubmitResponse{}, err
	}

	start, end := req.Dates()
	span := leave.RequestedSpan(start, end)

	// fail fast before storing the attachment; Deduct re-checks under the guard
	if refs.leaveType.ConsumesAnnual {
		if _, err := s.ledger.CheckAvailability(ctx, req.UserID, span); err != nil {
			return leave.SubmitResponse{}, err
		}
	}

	attachment, err := s.fileService.UploadLeaveAttachment(ctx, req.UserID, req.Attachment, req.AttachmentName)
	if err != nil {
		return leave.SubmitResponse{}, fmt.Errorf("failed to store leave attachment: %w", err)
	}

	var created leave.LeaveRequest
	var balance *leave.Balance
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if refs.leaveType.ConsumesAnnual {
			b, err := s.ledger.Deduct(ctx, req.UserID, span)
			if err != nil {
				return err
			}
			balance = &b
		}

		created, err = s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
			UserID:         req.UserID,
			HeadProgramID:  &refs.headProgramID,
			DivisionID:     &refs.divisionID,
			StartDate:      start,
			EndDate:        end,
			TotalDays:      span,
			LeaveTypeID:    refs.leaveType.ID,
			Description:    strings.TrimSpace(req.Description),
			Phone:          strings.TrimSpace(req.Phone),
			Address:        strings.TrimSpace(req.Address),
			AttachmentPath: &attachment,
			Status:         leave.StatusPending,
		})
		return err
	})
	if err != nil {
		if delErr := s.fileService.DeleteFile(ctx, attachment); delErr != nil {
			logger.From(ctx).Warn("failed to remove orphaned leave attachment", slog.String("path", attachment), slog.Any("error", delErr))
		}
		if errors.Is(err, leave.ErrAnnualLimitReached) || errors.Is(err, leave.ErrBalanceNotFound) {
			return leave.SubmitResponse{}, err
		}
		return leave.SubmitResponse{}, fmt.Errorf("failed to submit leave request: %w", err)
	}

	logger.From(ctx).Info("leave request submitted",
		slog.Int64("leave_id", created.ID),
		slog.Int64("user_id", created.UserID),
		slog.String("leave_type", refs.leaveType.Name),
		slog.Int("days", span),
	)

	// reload for the joined names
	full, err := s.LeaveRequestRepository.GetByID(ctx, created.ID)
	if err != nil {
		full = created
		full.LeaveTypeName = refs.leaveType.Name
	}

	resp := leave.SubmitResponse{Leave: s.toResponse(full)}
	if balance != nil {
		br := balance.ToResponse()
		resp.Balance = &br
	}
	return resp, nil
}

// Decide implements leave.LeaveService.
func (s *LeaveServiceImpl) Decide(ctx context.Context, req leave.DecisionRequest) (leave.DecisionResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.DecisionResponse{}, err
	}

	stage, err := leave.ParseStage(req.Stage)
	if err != nil {
		return leave.DecisionResponse{}, err
	}
	action, err := leave.ParseAction(strings.ToLower(strings.TrimSpace(req.ApprovalStatus)))
	if err != nil {
		return leave.DecisionResponse{}, err
	}

	ok, err := s.ApproverRepository.IsApprover(ctx, req.ApproverID, stage)
	if err != nil {
		return leave.DecisionResponse{}, fmt.Errorf("failed to check approver: %w", err)
	}
	if !ok {
		return leave.DecisionResponse{}, leave.ErrNotApprover
	}

	from, to, err := leave.Next(stage, action)
	if err != nil {
		return leave.DecisionResponse{}, err
	}

	if err := s.LeaveRequestRepository.Transition(ctx, req.LeaveID, from, to, req.ApproverID, stage); err != nil {
		if errors.Is(err, leave.ErrLeaveNotFoundOrProcessed) {
			return leave.DecisionResponse{}, err
		}
		return leave.DecisionResponse{}, fmt.Errorf("failed to update leave status: %w", err)
	}

	logger.From(ctx).Info("leave request decided",
		slog.Int64("leave_id", req.LeaveID),
		slog.String("stage", string(stage)),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
		slog.Int64("approver_id", req.ApproverID),
	)

	return leave.DecisionResponse{LeaveID: req.LeaveID, Stage: stage, Status: to}, nil
}

// History implements leave.LeaveService.
func (s *LeaveServiceImpl) History(ctx context.Context) ([]leave.LeaveResponse, error) {
	requests, err := s.LeaveRequestRepository.List(ctx, leave.Filter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list leave history: %w", err)
	}

	responses := make([]leave.LeaveResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, s.toResponse(r))
	}
	return responses, nil
}

// ListForStage implements leave.LeaveService.
func (s *LeaveServiceImpl) ListForStage(ctx context.Context, stageName, viewName string) ([]leave.LeaveResponse, error) {
	stage, err := leave.ParseStage(stageName)
	if err != nil {
		return nil, err
	}
	view, err := leave.ParseView(strings.ToLower(viewName))
	if err != nil {
		return nil, err
	}

	var filter leave.Filter
	switch view {
	case leave.ViewAssigned:
		filter.Statuses = []leave.Status{stage.Transition().From}
	case leave.ViewDeclined:
		filter.Statuses = []leave.Status{leave.StatusDeclined}
		filter.ApproverStage = &stage
	case leave.ViewApproved:
		filter.Statuses = leave.ApprovedSince(stage)
	}

	requests, err := s.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveResponse, 0, len(requests))
	for _, r := range requests {
		resp := s.toResponse(r)
		if view == leave.ViewApproved {
			resp.Status = leave.StatusApprovedLabel
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// GetBalance implements leave.LeaveService.
func (s *LeaveServiceImpl) GetBalance(ctx context.Context, userID int64) (leave.BalanceResponse, error) {
	balance, err := s.ledger.Get(ctx, userID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	return balance.ToResponse(), nil
}
