package user

import "context"

type UserService interface {
	// Register creates the user, its lookups, leave balance and optional
	// head-program and approver rows in one transaction.
	Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error)
	Update(ctx context.Context, req UpdateUserRequest) (UserResponse, error)
	GetByID(ctx context.Context, id int64) (UserResponse, error)
	List(ctx context.Context) ([]UserResponse, error)
	Delete(ctx context.Context, id int64) error
	ListContacts(ctx context.Context) ([]ContactResponse, error)
}
