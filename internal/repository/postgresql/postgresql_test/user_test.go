package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/infinite-track/hris-backend-go/internal/domain/leave"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/headprogram"
	"github.com/infinite-track/hris-backend-go/internal/domain/master/role"
	"github.com/infinite-track/hris-backend-go/internal/domain/user"
	"github.com/infinite-track/hris-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func createTestUser(t *testing.T, ctx context.Context, email string) user.User {
	t.Helper()
	employee, err := postgresql.NewRoleRepository(testDB).GetByName(ctx, user.RoleEmployee)
	require.NoError(t, err)

	u, err := postgresql.NewUserRepository(testDB).Create(ctx, user.User{
		Name:         "Budi",
		Email:        email,
		PasswordHash: "hash",
		RoleID:       employee.ID,
	})
	require.NoError(t, err)
	return u
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := requireDB(t)
	repo := postgresql.NewUserRepository(testDB)

	created := createTestUser(t, ctx, "budi@example.com")
	assert.NotZero(t, created.ID)

	got, err := repo.GetByEmail(ctx, "BUDI@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, user.RoleEmployee, got.RoleName)
	assert.Nil(t, got.DivisionName)

	_, err = repo.Create(ctx, user.User{Name: "Dup", Email: "budi@example.com", PasswordHash: "x", RoleID: got.RoleID})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	exists, err := repo.ExistsByEmail(ctx, "budi@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_UpdateAndDelete(t *testing.T) {
	ctx := requireDB(t)
	repo := postgresql.NewUserRepository(testDB)
	u := createTestUser(t, ctx, "siti@example.com")

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	u.Name = "Siti"
	u.PhoneNumber = strPtr("081234567890")
	u.ContractStart = &start
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Siti", got.Name)
	require.NotNil(t, got.ContractStart)
	assert.True(t, start.Equal(*got.ContractStart))

	require.NoError(t, repo.UpdatePasswordByEmail(ctx, "siti@example.com", "new-hash"))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)

	require.NoError(t, repo.Delete(ctx, u.ID))
	_, err = repo.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, u.ID), user.ErrUserNotFound)

	u.ID = 999999
	assert.ErrorIs(t, repo.Update(ctx, u), user.ErrUserNotFound)
}

func TestUserRepository_ContactsAndApprovers(t *testing.T) {
	ctx := requireDB(t)
	repo := postgresql.NewUserRepository(testDB)

	withPhone := createTestUser(t, ctx, "a@example.com")
	createTestUser(t, ctx, "b@example.com")

	withPhone.PhoneNumber = strPtr("081234567890")
	require.NoError(t, repo.Update(ctx, withPhone))

	contacts, err := repo.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, withPhone.ID, contacts[0].UserID)

	ok, err := repo.IsApprover(ctx, withPhone.ID, leave.StageOperational)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.AddLeaveApprover(ctx, withPhone.ID, leave.StageOperational))
	require.NoError(t, repo.AddLeaveApprover(ctx, withPhone.ID, leave.StageOperational))
	ok, err = repo.IsApprover(ctx, withPhone.ID, leave.StageOperational)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserRepository_ApproverStages(t *testing.T) {
	ctx := requireDB(t)
	repo := postgresql.NewUserRepository(testDB)

	approver := createTestUser(t, ctx, "approver@example.com")
	require.NoError(t, repo.AddLeaveApprover(ctx, approver.ID, leave.StageOperational))

	for stage, want := range map[leave.Stage]bool{
		leave.StageHeadProgram:     false,
		leave.StageOperational:     true,
		leave.StageProgramDirector: false,
	} {
		ok, err := repo.IsApprover(ctx, approver.ID, stage)
		require.NoError(t, err)
		assert.Equal(t, want, ok, stage)
	}

	err := repo.AddLeaveApprover(ctx, approver.ID, leave.Stage("ceo"))
	assert.Error(t, err)

	// Heading a program makes a user a head-program approver.
	head := createTestUser(t, ctx, "head@example.com")
	_, err = postgresql.NewHeadProgramRepository(testDB).Create(ctx, headprogram.HeadProgram{Name: "Mobile Lead", UserID: &head.ID})
	require.NoError(t, err)

	ok, err := repo.IsApprover(ctx, head.ID, leave.StageHeadProgram)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.IsApprover(ctx, head.ID, leave.StageOperational)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRoleRepository(t *testing.T) {
	ctx := requireDB(t)
	repo := postgresql.NewRoleRepository(testDB)

	r, err := repo.EnsureByName(ctx, "Contractor")
	require.NoError(t, err)
	again, err := repo.EnsureByName(ctx, "Contractor")
	require.NoError(t, err)
	assert.Equal(t, r.ID, again.ID)

	_, err = repo.GetByName(ctx, "Nobody")
	assert.ErrorIs(t, err, role.ErrRoleNotFound)
}
