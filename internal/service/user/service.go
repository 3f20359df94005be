package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/infinite-track/hris-backend-go/internal/domain/leave"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/division"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/headprogram"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/position"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/program"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/role"
	"github.com/infinite-track/hris-backend-go/internal/domain/user"
	"github.com/infinite-track/hris-backend-go/internal/pkg/database"
	"github.com/infinite-track/hris-backend-go/internal/pkg/jwt"
	"github.com/infinite-track/hris-backend-go/internal/pkg/logger"
	"github.com/infinite-track/hris-backend-go/internal/service/file"
	leaveservice "github.com/infinite-track/hris-backend-go/internal/service/leave"
	"golang.org/x/crypto/bcrypt"
)

// Repositories groups the lookups the user service resolves by name.
type Repositories struct {
	Users        user.UserRepository
	Roles        role.RoleRepository
	Programs     program.ProgramRepository
	Divisions    division.DivisionRepository
	Positions    position.PositionRepository
	HeadPrograms headprogram.HeadProgramRepository
}

type UserServiceImpl struct {
	tx          database.Transactor
	repos       Repositories
	ledger      *leaveservice.Ledger
	jwtService  jwt.Service
	fileService file.FileService
	bcryptCost  int
}

func NewUserService(
	tx database.Transactor,
	repos Repositories,
	ledger *leaveservice.Ledger,
	jwtService jwt.Service,
	fileService file.FileService,
) user.UserService {
	return &UserServiceImpl{
		tx:          tx,
		repos:       repos,
		ledger:      ledger,
		jwtService:  jwtService,
		fileService: fileService,
		bcryptCost:  bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (s *UserServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *UserServiceImpl) toResponse(u user.User) user.UserResponse {
	var photo *string
	if u.PhotoPath != nil {
		url := s.fileService.GetFileURL(*u.PhotoPath)
		photo = &url
	}
	return u.ToResponse(photo)
}

// openingBalance prefers explicit values and falls back to the contract period.
func openingBalance(req user.RegisterRequest, u user.User) leave.Balance {
	b := leave.Balance{UserID: u.ID}
	switch {
	case req.AnnualBalance != nil:
		b.AnnualBalance = *req.AnnualBalance
	case u.HasContract():
		b.AnnualBalance = leave.Entitlement(*u.ContractStart, *u.ContractEnd)
	}
	if req.AnnualUsed != nil {
		b.AnnualUsed = min(*req.AnnualUsed, b.AnnualBalance)
	}
	return b
}

// Register implements user.UserService.
func (s *UserServiceImpl) Register(ctx context.Context, req user.RegisterRequest) (user.RegisterResponse, error) {
	if err := req.Validate(); err != nil {
		return user.RegisterResponse{}, err
	}
	stages, err := req.Stages()
	if err != nil {
		return user.RegisterResponse{}, err
	}
	email := normalizeEmail(req.Email)

	exists, err := s.repos.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return user.RegisterResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return user.RegisterResponse{}, user.ErrUserEmailExists
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return user.RegisterResponse{}, err
	}

	var created user.User
	var balance leave.Balance
	var roleName string
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		r, err := s.repos.Roles.EnsureByName(ctx, strings.TrimSpace(req.Role))
		if err != nil {
			return err
		}
		roleName = r.Name

		newUser := user.User{
			Name:          strings.TrimSpace(req.Name),
			Email:         email,
			PasswordHash:  hash,
			RoleID:        r.ID,
			PhoneNumber:   trimmed(req.PhoneNumber),
			NIK:           trimmed(req.NIK),
			Address:       trimmed(req.Address),
			ContractStart: user.ParseOptionalDate(req.ContractStart),
			ContractEnd:   user.ParseOptionalDate(req.ContractEnd),
		}

		if name := strings.TrimSpace(req.Program); name != "" {
			p, err := s.repos.Programs.EnsureByName(ctx, name)
			if err != nil {
				return err
			}
			newUser.ProgramID = &p.ID

			hp, err := s.repos.HeadPrograms.GetByProgramID(ctx, p.ID)
			switch {
			case err == nil:
				newUser.HeadProgramID = &hp.ID
			case !errors.Is(err, headprogram.ErrHeadProgramNotFound):
				return err
			}
		}
		if name := strings.TrimSpace(req.Division); name != "" {
			d, err := s.repos.Divisions.EnsureByName(ctx, name, newUser.ProgramID)
			if err != nil {
				return err
			}
			newUser.DivisionID = &d.ID
		}
		if name := strings.TrimSpace(req.Position); name != "" {
			p, err := s.repos.Positions.EnsureByName(ctx, name)
			if err != nil {
				return err
			}
			newUser.PositionID = &p.ID
		}

		created, err = s.repos.Users.Create(ctx, newUser)
		if err != nil {
			return err
		}

		balance = openingBalance(req, created)
		if err := s.ledger.Open(ctx, balance); err != nil {
			return err
		}

		if req.IsHeadProgram {
			hp, err := s.repos.HeadPrograms.Create(ctx, headprogram.HeadProgram{
				Name:      created.Name,
				ProgramID: created.ProgramID,
				UserID:    &created.ID,
			})
			if err != nil {
				return err
			}
			if created.HeadProgramID == nil {
				created.HeadProgramID = &hp.ID
				if err := s.repos.Users.Update(ctx, created); err != nil {
					return err
				}
			}
		}

		for _, stage := range stages {
			if err := s.repos.Users.AddLeaveApprover(ctx, created.ID, stage); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return user.RegisterResponse{}, err
		}
		return user.RegisterResponse{}, fmt.Errorf("failed to register user: %w", err)
	}

	token, _, err := s.jwtService.GenerateAccessToken(created.ID, created.Email, roleName)
	if err != nil {
		return user.RegisterResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	full, err := s.repos.Users.GetByID(ctx, created.ID)
	if err != nil {
		return user.RegisterResponse{}, err
	}

	logger.From(ctx).Info("user registered",
		slog.Int64("user_id", full.ID),
		slog.String("role", full.RoleName),
		slog.Bool("head_program", req.IsHeadProgram),
		slog.Int("approver_stages", len(stages)),
	)

	return user.RegisterResponse{
		User:          s.toResponse(full),
		AnnualBalance: balance.AnnualBalance,
		AnnualUsed:    balance.AnnualUsed,
		Token:         token,
	}, nil
}

// Update implements user.UserService.
func (s *UserServiceImpl) Update(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	existing, err := s.repos.Users.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Authorize(existing.RoleName); err != nil {
		logger.From(ctx).Warn("user update denied",
			slog.Int64("user_id", req.ID),
			slog.Int64("actor_id", req.Actor.ID),
			slog.String("actor_role", req.Actor.Role),
		)
		return user.UserResponse{}, err
	}

	email := normalizeEmail(req.Email)
	if email != normalizeEmail(existing.Email) {
		exists, err := s.repos.Users.ExistsByEmail(ctx, email)
		if err != nil {
			return user.UserResponse{}, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return user.UserResponse{}, user.ErrUserEmailExists
		}
	}

	r, err := s.repos.Roles.GetByName(ctx, strings.TrimSpace(req.Role))
	if err != nil {
		return user.UserResponse{}, err
	}

	updated := existing
	updated.Name = strings.TrimSpace(req.Name)
	updated.Email = email
	updated.RoleID = r.ID

	if req.Password != nil {
		hash, err := s.hashPassword(*req.Password)
		if err != nil {
			return user.UserResponse{}, err
		}
		updated.PasswordHash = hash
	}
	if req.PhoneNumber != nil {
		updated.PhoneNumber = trimmed(req.PhoneNumber)
	}
	if req.NIK != nil {
		updated.NIK = trimmed(req.NIK)
	}
	if req.Address != nil {
		updated.Address = trimmed(req.Address)
	}
	if req.ContractStart != nil {
		updated.ContractStart = user.ParseOptionalDate(req.ContractStart)
	}
	if req.ContractEnd != nil {
		updated.ContractEnd = user.ParseOptionalDate(req.ContractEnd)
	}
	if name := trimmed(req.Division); name != nil {
		d, err := s.repos.Divisions.GetByName(ctx, *name)
		if err != nil {
			return user.UserResponse{}, err
		}
		updated.DivisionID = &d.ID
	}

	var newPhoto string
	if req.Photo != nil {
		newPhoto, err = s.fileService.UploadProfilePhoto(ctx, req.ID, req.Photo, req.PhotoName)
		if err != nil {
			return user.UserResponse{}, err
		}
		updated.PhotoPath = &newPhoto
	}

	contractChanged := !sameDate(existing.ContractStart, updated.ContractStart) ||
		!sameDate(existing.ContractEnd, updated.ContractEnd)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if name := trimmed(req.Position); name != nil {
			p, err := s.repos.Positions.EnsureByName(ctx, *name)
			if err != nil {
				return err
			}
			updated.PositionID = &p.ID
		}

		if err := s.repos.Users.Update(ctx, updated); err != nil {
			return err
		}

		if contractChanged && updated.HasContract() {
			if _, err := s.ledger.Recompute(ctx, updated.ID, *updated.ContractStart, *updated.ContractEnd); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if newPhoto != "" {
			if delErr := s.fileService.DeleteFile(ctx, newPhoto); delErr != nil {
				logger.From(ctx).Warn("failed to remove orphaned profile photo", slog.String("path", newPhoto), slog.Any("error", delErr))
			}
		}
		if errors.Is(err, user.ErrUserNotFound) || errors.Is(err, user.ErrUserEmailExists) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to update user: %w", err)
	}

	if newPhoto != "" && existing.PhotoPath != nil && *existing.PhotoPath != newPhoto {
		if err := s.fileService.DeleteFile(ctx, *existing.PhotoPath); err != nil {
			logger.From(ctx).Warn("failed to remove previous profile photo", slog.String("path", *existing.PhotoPath), slog.Any("error", err))
		}
	}

	logger.From(ctx).Info("user updated",
		slog.Int64("user_id", updated.ID),
		slog.Bool("password_changed", req.Password != nil),
		slog.Bool("contract_changed", contractChanged),
	)

	full, err := s.repos.Users.GetByID(ctx, updated.ID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return s.toResponse(full), nil
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// GetByID implements user.UserService.
func (s *UserServiceImpl) GetByID(ctx context.Context, id int64) (user.UserResponse, error) {
	u, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return s.toResponse(u), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context) ([]user.UserResponse, error) {
	users, err := s.repos.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, s.toResponse(u))
	}
	return responses, nil
}

// Delete implements user.UserService.
func (s *UserServiceImpl) Delete(ctx context.Context, id int64) error {
	u, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repos.Users.Delete(ctx, id); err != nil {
		return err
	}
	if u.PhotoPath != nil {
		if err := s.fileService.DeleteFile(ctx, *u.PhotoPath); err != nil {
			logger.From(ctx).Warn("failed to remove profile photo", slog.String("path", *u.PhotoPath), slog.Any("error", err))
		}
	}
	logger.From(ctx).Info("user deleted", slog.Int64("user_id", id))
	return nil
}

// ListContacts implements user.UserService.
func (s *UserServiceImpl) ListContacts(ctx context.Context) ([]user.ContactResponse, error) {
	contacts, err := s.repos.Users.ListContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	if len(contacts) == 0 {
		return nil, user.ErrNoContacts
	}
	responses := make([]user.ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		responses = append(responses, c.ToResponse())
	}
	return responses, nil
}
