package auth

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/infinite-track/hris-backend-go/internal/domain/auth"
	"github.com/infinite-track/hris-backend-go/internal/domain/leave"
	"github.com/infinite-track/hris-backend-go/internal/domain/otp"
	"github.com/infinite-track/hris-backend-go/internal/domain/user"
	"github.com/infinite-track/hris-backend-go/internal/pkg/i18n"
	"github.com/infinite-track/hris-backend-go/internal/pkg/jwt"
	leaveservice "github.com/infinite-track/hris-backend-go/internal/service/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsers struct {
	user.UserRepository
	rows map[string]user.User
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := f.rows[email]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) UpdatePasswordByEmail(_ context.Context, email, hash string) error {
	u, ok := f.rows[email]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = hash
	f.rows[email] = u
	return nil
}

type fakeBalances struct {
	leave.LeaveBalanceRepository
	rows map[int64]leave.Balance
}

func (f fakeBalances) GetByUserID(_ context.Context, userID int64) (leave.Balance, error) {
	b, ok := f.rows[userID]
	if !ok {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	return b, nil
}

type fakeOTP struct {
	otp.OTPService
	verified map[string]bool
	err      error
}

func (f *fakeOTP) ConsumeVerification(_ context.Context, email string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	ok := f.verified[email]
	delete(f.verified, email)
	return ok, nil
}

type fakeFiles struct{}

func (fakeFiles) UploadProfilePhoto(context.Context, int64, io.Reader, string) (string, error) {
	return "", nil
}

func (fakeFiles) UploadAttendanceImage(context.Context, int64, time.Time, io.Reader, string, string) (string, error) {
	return "", nil
}

func (fakeFiles) UploadLeaveAttachment(context.Context, int64, io.Reader, string) (string, error) {
	return "", nil
}

func (fakeFiles) DeleteFile(context.Context, string) error { return nil }

func (fakeFiles) GetFileURL(path string) string { return "http://files.test/" + path }

var jakarta = time.FixedZone("WIB", 7*3600)

type fixture struct {
	users *fakeUsers
	otp   *fakeOTP
	jwt   *jwt.JWTService
	svc   *AuthServiceImpl
}

func ptr[T any](v T) *T { return &v }

func newFixture(t *testing.T, localHour int) *fixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	translator, err := i18n.New("en")
	require.NoError(t, err)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := &fixture{
		users: &fakeUsers{rows: map[string]user.User{
			"budi@example.com": {
				ID: 1, Name: "Budi", Email: "budi@example.com", PasswordHash: string(hash),
				RoleName: "Employee", DivisionName: ptr("Engineering"), PositionName: ptr("Backend"),
				PhoneNumber: ptr("081234567890"), Address: ptr("Batam"), ContractStart: &start,
				PhotoPath: ptr("profiles/1.jpg"),
			},
		}},
		otp: &fakeOTP{verified: map[string]bool{}},
		jwt: jwt.NewJWTService("test-secret", time.Hour),
	}
	ledger := leaveservice.NewLedger(fakeBalances{rows: map[int64]leave.Balance{1: {UserID: 1, AnnualBalance: 12, AnnualUsed: 3}}})

	svc := NewAuthService(f.users, f.jwt, f.otp, ledger, fakeFiles{}, translator, jakarta).(*AuthServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 6, 3, localHour, 30, 0, 0, jakarta) }
	svc.bcryptCost = bcrypt.MinCost
	f.svc = svc
	return f
}

func TestLogin_ComposesProfile(t *testing.T) {
	f := newFixture(t, 8)

	resp, err := f.svc.Login(t.Context(), auth.LoginRequest{Email: "Budi@Example.com", Password: "password123"}, "en")
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.UserID)
	assert.Equal(t, "Budi", resp.UserName)
	assert.Equal(t, "Employee", resp.Role)
	assert.Equal(t, "Good Morning", resp.Greeting)
	assert.Equal(t, 12, resp.AnnualBalance)
	assert.Equal(t, 3, resp.AnnualUsed)
	assert.True(t, resp.ProfileIncomplete)
	assert.Equal(t, []string{user.FieldNIK, user.FieldContractEnd}, resp.MissingFields)
	require.NotNil(t, resp.PhotoURL)
	assert.Equal(t, "http://files.test/profiles/1.jpg", *resp.PhotoURL)

	token, err := f.jwt.JWTAuth().Decode(resp.Token)
	require.NoError(t, err)
	claims, err := token.AsMap(t.Context())
	require.NoError(t, err)
	assert.True(t, jwt.IsAccessToken(claims))
	assert.Equal(t, "Employee", claims["role"])
}

func TestLogin_GreetingFollowsLocaleAndHour(t *testing.T) {
	tests := []struct {
		hour   int
		locale string
		want   string
	}{
		{8, "id", "Selamat Pagi"},
		{13, "en", "Good Afternoon"},
		{18, "id", "Selamat Sore"},
		{23, "en", "Good Night"},
		{2, "fr", "Good Night"},
	}
	for _, tt := range tests {
		f := newFixture(t, tt.hour)
		resp, err := f.svc.Login(t.Context(), auth.LoginRequest{Email: "budi@example.com", Password: "password123"}, tt.locale)
		require.NoError(t, err)
		assert.Equal(t, tt.want, resp.Greeting, "hour %d locale %s", tt.hour, tt.locale)
	}
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t, 8)

	_, err := f.svc.Login(t.Context(), auth.LoginRequest{Email: "ghost@example.com", Password: "password123"}, "en")
	assert.ErrorIs(t, err, auth.ErrEmailOrPasswordWrong)

	_, err = f.svc.Login(t.Context(), auth.LoginRequest{Email: "budi@example.com", Password: "wrong-password"}, "en")
	assert.ErrorIs(t, err, auth.ErrInvalidPassword)
}

func TestResetPassword(t *testing.T) {
	f := newFixture(t, 8)
	req := auth.ResetPasswordRequest{Email: "budi@example.com", NewPassword: "brand-new-pass", ConfirmPassword: "brand-new-pass"}

	assert.ErrorIs(t, f.svc.ResetPassword(t.Context(), req), auth.ErrOTPNotVerified)

	f.otp.verified["budi@example.com"] = true
	require.NoError(t, f.svc.ResetPassword(t.Context(), req))

	hash := f.users.rows["budi@example.com"].PasswordHash
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("brand-new-pass")))

	// the verification is spent
	assert.ErrorIs(t, f.svc.ResetPassword(t.Context(), req), auth.ErrOTPNotVerified)
}

func TestResetPassword_Mismatch(t *testing.T) {
	f := newFixture(t, 8)
	f.otp.verified["budi@example.com"] = true

	err := f.svc.ResetPassword(t.Context(), auth.ResetPasswordRequest{
		Email: "budi@example.com", NewPassword: "brand-new-pass", ConfirmPassword: "other-pass",
	})
	assert.ErrorIs(t, err, auth.ErrPasswordMismatch)
	assert.True(t, f.otp.verified["budi@example.com"], "mismatch must not consume the verification")
}

func TestResetPassword_StoreError(t *testing.T) {
	f := newFixture(t, 8)
	f.otp.err = errors.New("store down")

	err := f.svc.ResetPassword(t.Context(), auth.ResetPasswordRequest{
		Email: "budi@example.com", NewPassword: "brand-new-pass", ConfirmPassword: "brand-new-pass",
	})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrOTPNotVerified)
}
