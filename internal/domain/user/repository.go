package user

import (
	"context"

	"github.com/infinite-track/hris-backend-go/internal/domain/leave"
)

type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]User, error)

	// Update writes every mutable column of u. Returns ErrUserNotFound when
	// no row has u.ID.
	Update(ctx context.Context, u User) error
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
	Delete(ctx context.Context, id int64) error

	ListContacts(ctx context.Context) ([]Contact, error)

	AddLeaveApprover(ctx context.Context, userID int64, stage leave.Stage) error
	IsApprover(ctx context.Context, userID int64, stage leave.Stage) (bool, error)
}
