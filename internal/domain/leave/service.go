package leave

import "context"

type LeaveService interface {
	// Submit records a leave request. Balance-consuming types check and
	// deduct the ledger in the same transaction as the insert.
	Submit(ctx context.Context, req SubmitRequest) (SubmitResponse, error)

	// Decide applies one approval-chain step.
	Decide(ctx context.Context, req DecisionRequest) (DecisionResponse, error)

	History(ctx context.Context) ([]LeaveResponse, error)
	ListForStage(ctx context.Context, stage, view string) ([]LeaveResponse, error)
	GetBalance(ctx context.Context, userID int64) (BalanceResponse, error)
}
