package service

import (
	"context"
	"testing"
	"time"

	"github.com/and161185/ordertrack/internal/auth"
	"github.com/and161185/ordertrack/internal/errs"
	"github.com/and161185/ordertrack/internal/mocks"
	"github.com/and161185/ordertrack/internal/model"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *mocks.MockAccountStore) {
	t.Helper()

	ctrl := gomock.NewController(t)
	store := mocks.NewMockAccountStore(ctrl)

	svc := NewAuthService(store, auth.NewPasswordHasher(), auth.NewTokenManager("testsecret", time.Hour))
	return svc, store
}

func TestRegister(t *testing.T) {
	svc, store := newAuthService(t)

	store.EXPECT().UsernameExists(gomock.Any(), "alice").Return(false, nil)
	store.EXPECT().EmailExists(gomock.Any(), "a@x.com").Return(false, nil)
	store.EXPECT().SaveAccount(gomock.Any(), gomock.Any()).Return(nil)

	result, err := svc.Register(context.Background(), "alice", "a@x.com", "correctpw", "Alice A")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.NotEmpty(t, result.Account.ID)
	require.Equal(t, model.RoleUser, result.Account.Role)
	require.True(t, result.Account.Active)
	require.NotEqual(t, "correctpw", result.Account.PasswordHash)
	require.Nil(t, result.Account.LastLoginAt)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, store := newAuthService(t)

	store.EXPECT().UsernameExists(gomock.Any(), "alice").Return(true, nil)

	_, err := svc.Register(context.Background(), "alice", "a@x.com", "correctpw", "Alice A")
	require.ErrorIs(t, err, errs.ErrUsernameTaken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, store := newAuthService(t)

	store.EXPECT().UsernameExists(gomock.Any(), "bob").Return(false, nil)
	store.EXPECT().EmailExists(gomock.Any(), "a@x.com").Return(true, nil)

	_, err := svc.Register(context.Background(), "bob", "a@x.com", "correctpw", "Bob B")
	require.ErrorIs(t, err, errs.ErrEmailTaken)
}

func TestRegisterConflictFromStorageConstraint(t *testing.T) {
	svc, store := newAuthService(t)

	// проверки существования прошли, но constraint в хранилище сработал
	store.EXPECT().UsernameExists(gomock.Any(), "alice").Return(false, nil)
	store.EXPECT().EmailExists(gomock.Any(), "a@x.com").Return(false, nil)
	store.EXPECT().SaveAccount(gomock.Any(), gomock.Any()).Return(errs.ErrUsernameTaken)

	_, err := svc.Register(context.Background(), "alice", "a@x.com", "correctpw", "Alice A")
	require.ErrorIs(t, err, errs.ErrUsernameTaken)
}

func registeredAccount(t *testing.T, password string, active bool) model.Account {
	t.Helper()

	hash, err := auth.NewPasswordHasher().Hash(password)
	require.NoError(t, err)

	return model.Account{
		ID:           "acc-1",
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: hash,
		DisplayName:  "Alice A",
		Role:         model.RoleUser,
		Active:       active,
		CreatedAt:    time.Now().Add(-time.Hour),
	}
}

func TestLogin(t *testing.T) {
	svc, store := newAuthService(t)
	account := registeredAccount(t, "correctpw", true)

	store.EXPECT().GetAccountByUsernameOrEmail(gomock.Any(), "alice").Return(account, nil)
	store.EXPECT().SaveAccount(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, saved model.Account) error {
			require.NotNil(t, saved.LastLoginAt)
			return nil
		})

	result, err := svc.Login(context.Background(), "alice", "correctpw")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.NotNil(t, result.Account.LastLoginAt)
}

func TestLoginByEmail(t *testing.T) {
	svc, store := newAuthService(t)
	account := registeredAccount(t, "correctpw", true)

	store.EXPECT().GetAccountByUsernameOrEmail(gomock.Any(), "a@x.com").Return(account, nil)
	store.EXPECT().SaveAccount(gomock.Any(), gomock.Any()).Return(nil)

	result, err := svc.Login(context.Background(), "a@x.com", "correctpw")
	require.NoError(t, err)
	require.Equal(t, "alice", result.Account.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, store := newAuthService(t)
	account := registeredAccount(t, "correctpw", true)

	store.EXPECT().GetAccountByUsernameOrEmail(gomock.Any(), "alice").Return(account, nil)

	_, err := svc.Login(context.Background(), "alice", "wrongpw")
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	svc, store := newAuthService(t)
	account := registeredAccount(t, "correctpw", false)

	store.EXPECT().GetAccountByUsernameOrEmail(gomock.Any(), "alice").Return(account, nil)

	// деактивация сообщается явно, даже при верном пароле
	_, err := svc.Login(context.Background(), "alice", "correctpw")
	require.ErrorIs(t, err, errs.ErrAccountDeactivated)
}

func TestLoginUnknownIdentifier(t *testing.T) {
	svc, store := newAuthService(t)

	store.EXPECT().GetAccountByUsernameOrEmail(gomock.Any(), "ghost").Return(model.Account{}, errs.ErrAccountNotFound)

	_, err := svc.Login(context.Background(), "ghost", "correctpw")
	require.ErrorIs(t, err, errs.ErrAccountNotFound)
}
