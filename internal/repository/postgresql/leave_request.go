package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/infinite-track/hris-backend-go/internal/domain/leave"
	"github.com/infinite-track/hris-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestSelect = `
	SELECT lr.id, lr.user_id, lr.head_program_id, lr.division_id,
		   lr.start_date, lr.end_date, lr.total_days, lr.leave_type_id,
		   lr.description, lr.phone, lr.address, lr.attachment_path,
		   lr.status, lr.approver_id, lr.approver_stage, lr.created_at, lr.updated_at,
		   u.name, lt.name, d.name
	FROM leave_requests lr
	INNER JOIN users u ON u.id = lr.user_id
	INNER JOIN leave_types lt ON lt.id = lr.leave_type_id
	LEFT JOIN divisions d ON d.id = lr.division_id`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	var stage *string
	err := row.Scan(
		&lr.ID, &lr.UserID, &lr.HeadProgramID, &lr.DivisionID,
		&lr.StartDate, &lr.EndDate, &lr.TotalDays, &lr.LeaveTypeID,
		&lr.Description, &lr.Phone, &lr.Address, &lr.AttachmentPath,
		&lr.Status, &lr.ApproverID, &stage, &lr.CreatedAt, &lr.UpdatedAt,
		&lr.UserName, &lr.LeaveTypeName, &lr.DivisionName,
	)
	if stage != nil {
		s := leave.Stage(*stage)
		lr.ApproverStage = &s
	}
	return lr, err
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			user_id, head_program_id, division_id, start_date, end_date, total_days,
			leave_type_id, description, phone, address, attachment_path, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	created := req
	err := q.QueryRow(ctx, query,
		req.UserID, req.HeadProgramID, req.DivisionID, req.StartDate, req.EndDate, req.TotalDays,
		req.LeaveTypeID, req.Description, req.Phone, req.Address, req.AttachmentPath, string(req.Status),
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return created, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id int64) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	lr, err := scanLeaveRequest(q.QueryRow(ctx, leaveRequestSelect+` WHERE lr.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveNotFoundOrProcessed
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return lr, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.Filter) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []any
	argIdx := 1

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("lr.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		conditions = append(conditions, fmt.Sprintf("lr.status = ANY($%d)", argIdx))
		args = append(args, statuses)
		argIdx++
	}
	if filter.ApproverStage != nil {
		conditions = append(conditions, fmt.Sprintf("lr.approver_stage = $%d", argIdx))
		args = append(args, string(*filter.ApproverStage))
		argIdx++
	}

	query := leaveRequestSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY lr.created_at DESC, lr.id DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := []leave.LeaveRequest{}
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return requests, nil
}

// Transition implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Transition(ctx context.Context, id int64, from, to leave.Status, approverID int64, stage leave.Stage) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $3, approver_id = $4, approver_stage = $5, updated_at = NOW()
		WHERE id = $1
		  AND status = $2
	`

	tag, err := q.Exec(ctx, query, id, string(from), string(to), approverID, string(stage))
	if err != nil {
		return fmt.Errorf("failed to update leave status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveNotFoundOrProcessed
	}
	return nil
}
