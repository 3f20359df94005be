package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/infinite-track/hris-backend-go/internal/domain/leave"
	"github.com/infinite-track/hris-backend-go/internal/pkg/logger"
)

// Ledger wraps the annual balance table. Callers that need atomicity with
// other writes run it inside a database.Transactor.
type Ledger struct {
	balances leave.LeaveBalanceRepository
}

func NewLedger(balances leave.LeaveBalanceRepository) *Ledger {
	return &Ledger{balances: balances}
}

// CheckAvailability rejects a span that would push annual_used past annual_balance.
func (l *Ledger) CheckAvailability(ctx context.Context, userID int64, span int) (leave.Balance, error) {
	balance, err := l.balances.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, leave.ErrBalanceNotFound) {
			return leave.Balance{}, err
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	if !balance.CanTake(span) {
		return balance, leave.ErrAnnualLimitReached
	}
	return balance, nil
}

// Deduct consumes span days. The repository guard makes concurrent
// deductions safe even when CheckAvailability ran on a stale read.
func (l *Ledger) Deduct(ctx context.Context, userID int64, span int) (leave.Balance, error) {
	if _, err := l.CheckAvailability(ctx, userID, span); err != nil {
		return leave.Balance{}, err
	}

	balance, err := l.balances.Deduct(ctx, userID, span)
	if err != nil {
		if errors.Is(err, leave.ErrAnnualLimitReached) {
			return leave.Balance{}, err
		}
		return leave.Balance{}, fmt.Errorf("failed to deduct leave balance: %w", err)
	}

	logger.From(ctx).Info("annual leave deducted",
		slog.Int64("user_id", userID),
		slog.Int("days", span),
		slog.Int("annual_used", balance.AnnualUsed),
		slog.Int("annual_balance", balance.AnnualBalance),
	)
	return balance, nil
}

// Open creates the ledger row for a new user.
func (l *Ledger) Open(ctx context.Context, balance leave.Balance) error {
	if err := l.balances.Create(ctx, balance); err != nil {
		return fmt.Errorf("failed to open leave balance: %w", err)
	}
	return nil
}

// Recompute resets annual_balance from the contract period.
func (l *Ledger) Recompute(ctx context.Context, userID int64, contractStart, contractEnd time.Time) (int, error) {
	entitlement := leave.Entitlement(contractStart, contractEnd)
	if err := l.balances.SetEntitlement(ctx, userID, entitlement); err != nil {
		return 0, fmt.Errorf("failed to recompute leave entitlement: %w", err)
	}
	return entitlement, nil
}

func (l *Ledger) Get(ctx context.Context, userID int64) (leave.Balance, error) {
	balance, err := l.balances.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, leave.ErrBalanceNotFound) {
			return leave.Balance{}, err
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return balance, nil
}
