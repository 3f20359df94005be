package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/infinite-track/hris-backend-go/internal/domain/leave"
	"github.com/infinite-track/hris-backend-go/internal/domain/user"
	"github.com/infinite-track/hris-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userSelect = `
	SELECT u.id, u.name, u.email, u.password_hash, u.role_id,
		   u.division_id, u.program_id, u.head_program_id, u.position_id,
		   u.phone_number, u.nik, u.address, u.contract_start, u.contract_end,
		   u.photo_path, u.created_at, u.updated_at,
		   r.name, d.name, p.name, hp.name, pos.name
	FROM users u
	INNER JOIN roles r ON r.id = u.role_id
	LEFT JOIN divisions d ON d.id = u.division_id
	LEFT JOIN programs p ON p.id = u.program_id
	LEFT JOIN head_programs hp ON hp.id = u.head_program_id
	LEFT JOIN positions pos ON pos.id = u.position_id`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID,
		&u.DivisionID, &u.ProgramID, &u.HeadProgramID, &u.PositionID,
		&u.PhoneNumber, &u.NIK, &u.Address, &u.ContractStart, &u.ContractEnd,
		&u.PhotoPath, &u.CreatedAt, &u.UpdatedAt,
		&u.RoleName, &u.DivisionName, &u.ProgramName, &u.HeadProgramName, &u.PositionName,
	)
	return u, err
}

func (r *userRepositoryImpl) getOne(ctx context.Context, where string, arg any) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, userSelect+" WHERE "+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (
			name, email, password_hash, role_id, division_id, program_id,
			head_program_id, position_id, phone_number, nik, address,
			contract_start, contract_end, photo_path, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	created := newUser
	err := q.QueryRow(ctx, query,
		newUser.Name, newUser.Email, newUser.PasswordHash, newUser.RoleID,
		newUser.DivisionID, newUser.ProgramID, newUser.HeadProgramID, newUser.PositionID,
		newUser.PhoneNumber, newUser.NIK, newUser.Address,
		newUser.ContractStart, newUser.ContractEnd, newUser.PhotoPath,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id int64) (user.User, error) {
	return r.getOne(ctx, "u.id = $1", id)
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "LOWER(u.email) = LOWER($1)", email)
}

// ExistsByEmail implements user.UserRepository.
func (r *userRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, userSelect+" ORDER BY u.id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return users, nil
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, role_id = $5,
			division_id = $6, program_id = $7, head_program_id = $8, position_id = $9,
			phone_number = $10, nik = $11, address = $12,
			contract_start = $13, contract_end = $14, photo_path = $15,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.RoleID,
		u.DivisionID, u.ProgramID, u.HeadProgramID, u.PositionID,
		u.PhoneNumber, u.NIK, u.Address,
		u.ContractStart, u.ContractEnd, u.PhotoPath,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrUserEmailExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdatePasswordByEmail implements user.UserRepository.
func (r *userRepositoryImpl) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE LOWER(email) = LOWER($1)
	`

	tag, err := q.Exec(ctx, query, email, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// Delete implements user.UserRepository.
func (r *userRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// ListContacts implements user.UserRepository.
func (r *userRepositoryImpl) ListContacts(ctx context.Context) ([]user.Contact, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT u.id, u.name, u.phone_number, pos.id, pos.name
		FROM users u
		LEFT JOIN positions pos ON pos.id = u.position_id
		WHERE u.phone_number IS NOT NULL AND u.phone_number <> ''
		ORDER BY u.name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []user.Contact
	for rows.Next() {
		var c user.Contact
		if err := rows.Scan(&c.UserID, &c.Name, &c.PhoneNumber, &c.PositionID, &c.PositionName); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return contacts, nil
}

// AddLeaveApprover implements user.UserRepository.
func (r *userRepositoryImpl) AddLeaveApprover(ctx context.Context, userID int64, stage leave.Stage) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO leave_approvers (user_id, stage) VALUES ($1, $2)
		ON CONFLICT (user_id, stage) DO NOTHING`, userID, string(stage))
	if err != nil {
		return fmt.Errorf("failed to add leave approver: %w", err)
	}
	return nil
}

// IsApprover implements user.UserRepository and leave.ApproverRepository.
// A user who heads a program is an approver at the headprogram stage.
func (r *userRepositoryImpl) IsApprover(ctx context.Context, userID int64, stage leave.Stage) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(SELECT 1 FROM leave_approvers WHERE user_id = $1 AND stage = $2)
			OR ($2 = 'headprogram' AND EXISTS(SELECT 1 FROM head_programs WHERE user_id = $1))`

	var ok bool
	err := q.QueryRow(ctx, query, userID, string(stage)).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("failed to check approver: %w", err)
	}
	return ok, nil
}
