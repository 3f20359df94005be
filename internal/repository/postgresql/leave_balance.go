package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/infinite-track/hris-backend-go/internal/domain/leave"
	"github.com/infinite-track/hris-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// Create implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Create(ctx context.Context, b leave.Balance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (user_id, annual_balance, annual_used, updated_at)
		VALUES ($1, $2, $3, NOW())
	`

	if _, err := q.Exec(ctx, query, b.UserID, b.AnnualBalance, b.AnnualUsed); err != nil {
		return fmt.Errorf("failed to create leave balance: %w", err)
	}
	return nil
}

// GetByUserID implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByUserID(ctx context.Context, userID int64) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id, annual_balance, annual_used
		FROM leave_balances
		WHERE user_id = $1
	`

	var b leave.Balance
	err := q.QueryRow(ctx, query, userID).Scan(&b.UserID, &b.AnnualBalance, &b.AnnualUsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b, nil
}

// Deduct implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Deduct(ctx context.Context, userID int64, days int) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET annual_used = annual_used + $2, updated_at = NOW()
		WHERE user_id = $1
		  AND annual_used + $2 <= annual_balance
		RETURNING user_id, annual_balance, annual_used
	`

	var b leave.Balance
	err := q.QueryRow(ctx, query, userID, days).Scan(&b.UserID, &b.AnnualBalance, &b.AnnualUsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrAnnualLimitReached
		}
		return leave.Balance{}, fmt.Errorf("failed to deduct leave balance: %w", err)
	}
	return b, nil
}

// SetEntitlement implements leave.LeaveBalanceRepository. annual_used is
// clamped so the ledger constraint keeps holding when the entitlement shrinks.
func (r *leaveBalanceRepositoryImpl) SetEntitlement(ctx context.Context, userID int64, annualBalance int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (user_id, annual_balance, annual_used, updated_at)
		VALUES ($1, $2, 0, NOW())
		ON CONFLICT (user_id) DO UPDATE
			SET annual_balance = EXCLUDED.annual_balance,
			    annual_used = LEAST(leave_balances.annual_used, EXCLUDED.annual_balance),
			    updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, userID, annualBalance); err != nil {
		return fmt.Errorf("failed to set leave entitlement: %w", err)
	}
	return nil
}
