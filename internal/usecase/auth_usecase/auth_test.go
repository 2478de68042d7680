package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
	auth "app/internal/usecase/auth_usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type hasherStub struct{}

func (hasherStub) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

type verifierStub struct{ ok bool }

func (v verifierStub) Verify(plain, hashed string) bool { return v.ok }

type issuerStub struct{}

func (issuerStub) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	return "token", now.Add(15 * time.Minute), nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

// =====================
// Register
// =====================

func TestRegister_InvalidEmail(t *testing.T) {
	uc := auth.NewRegisterUserUsecase(new(UserRepoMock), hasherStub{}, fixedClock{testNow})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Email: "not-an-email", Password: "longenough-password",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidEmailFormat)
}

func TestRegister_PasswordTooShort(t *testing.T) {
	uc := auth.NewRegisterUserUsecase(new(UserRepoMock), hasherStub{}, fixedClock{testNow})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Email: "a@example.com", Password: "short",
	})
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestRegister_AdminRoleRejected(t *testing.T) {
	uc := auth.NewRegisterUserUsecase(new(UserRepoMock), hasherStub{}, fixedClock{testNow})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Email: "a@example.com", Password: "longenough-password", Role: "ADMIN",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidRole)
}

func TestRegister_EmailAlreadyExists(t *testing.T) {
	uRepo := new(UserRepoMock)
	uRepo.On("FindByEmail", mock.Anything, "a@example.com").
		Return(&model.User{ID: 1, Email: "a@example.com"}, nil)

	uc := auth.NewRegisterUserUsecase(uRepo, hasherStub{}, fixedClock{testNow})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Email: "a@example.com", Password: "longenough-password",
	})
	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
}

func TestRegister_Success_DefaultsToCustomer(t *testing.T) {
	uRepo := new(UserRepoMock)
	uRepo.On("FindByEmail", mock.Anything, "a@example.com").
		Return(nil, repository.ErrUserNotFound)
	uRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "a@example.com" &&
			u.Role == model.RoleCustomer &&
			u.IsActive &&
			u.PasswordHash == "hashed:longenough-password"
	})).Return(nil)

	uc := auth.NewRegisterUserUsecase(uRepo, hasherStub{}, fixedClock{testNow})

	out, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Email: "a@example.com", Password: "longenough-password",
	})
	assert.NoError(t, err)
	//レスポンスにハッシュは載せない
	assert.Equal(t, "", out.User.PasswordHash)

	uRepo.AssertExpectations(t)
}

func TestRegister_SellerRoleAllowed(t *testing.T) {
	uRepo := new(UserRepoMock)
	uRepo.On("FindByEmail", mock.Anything, "s@example.com").
		Return(nil, repository.ErrUserNotFound)
	uRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Role == model.RoleSeller
	})).Return(nil)

	uc := auth.NewRegisterUserUsecase(uRepo, hasherStub{}, fixedClock{testNow})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Email: "s@example.com", Password: "longenough-password", Role: "seller",
	})
	assert.NoError(t, err)
}

// =====================
// Login
// =====================

func TestLogin_UnknownEmail(t *testing.T) {
	uRepo := new(UserRepoMock)
	uRepo.On("FindByEmail", mock.Anything, "x@example.com").
		Return(nil, repository.ErrUserNotFound)

	uc := auth.NewLoginUsecase(uRepo, verifierStub{ok: true}, issuerStub{}, fixedClock{testNow})

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "x@example.com", Password: "pw"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	uRepo := new(UserRepoMock)
	uRepo.On("FindByEmail", mock.Anything, "a@example.com").
		Return(&model.User{ID: 1, Email: "a@example.com", IsActive: true, PasswordHash: "h"}, nil)

	uc := auth.NewLoginUsecase(uRepo, verifierStub{ok: false}, issuerStub{}, fixedClock{testNow})

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "a@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	uRepo := new(UserRepoMock)
	uRepo.On("FindByEmail", mock.Anything, "a@example.com").
		Return(&model.User{ID: 1, Email: "a@example.com", IsActive: false, PasswordHash: "h"}, nil)

	uc := auth.NewLoginUsecase(uRepo, verifierStub{ok: true}, issuerStub{}, fixedClock{testNow})

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "a@example.com", Password: "pw"})
	assert.ErrorIs(t, err, auth.ErrUserInactive)
}

func TestLogin_Success(t *testing.T) {
	uRepo := new(UserRepoMock)
	uRepo.On("FindByEmail", mock.Anything, "a@example.com").
		Return(&model.User{ID: 1, Email: "a@example.com", Role: model.RoleSeller, IsActive: true, PasswordHash: "h"}, nil)
	// 最終ログイン更新。失敗してもログインは通る扱いなので戻り値だけ合わせる
	uRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	uc := auth.NewLoginUsecase(uRepo, verifierStub{ok: true}, issuerStub{}, fixedClock{testNow})

	out, err := uc.Execute(context.Background(), auth.LoginInput{Email: "a@example.com", Password: "pw"})
	assert.NoError(t, err)
	assert.Equal(t, "token", out.Token.AccessToken)
	assert.Equal(t, int(15*time.Minute/time.Second), out.Token.ExpiresIn)
	assert.Equal(t, "", out.User.PasswordHash)
}

func TestLogin_RepoErrorPassesThrough(t *testing.T) {
	uRepo := new(UserRepoMock)
	uRepo.On("FindByEmail", mock.Anything, "a@example.com").
		Return(nil, errors.New("db down"))

	uc := auth.NewLoginUsecase(uRepo, verifierStub{ok: true}, issuerStub{}, fixedClock{testNow})

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "a@example.com", Password: "pw"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}
