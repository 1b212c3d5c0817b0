package service

import (
	"context"
	"fmt"
	"time"

	"github.com/and161185/ordertrack/internal/auth"
	"github.com/and161185/ordertrack/internal/errs"
	"github.com/and161185/ordertrack/internal/model"
	"github.com/google/uuid"
)

type AccountStore interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetAccountByUsername(ctx context.Context, username string) (model.Account, error)
	GetAccountByUsernameOrEmail(ctx context.Context, value string) (model.Account, error)
	SaveAccount(ctx context.Context, account model.Account) error
}

type AuthService struct {
	store  AccountStore
	hasher *auth.PasswordHasher
	tokens *auth.TokenManager
}

func NewAuthService(store AccountStore, hasher *auth.PasswordHasher, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		store:  store,
		hasher: hasher,
		tokens: tokens,
	}
}

type AuthResult struct {
	Account model.Account `json:"account"`
	Token   string        `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, username, email, password, displayName string) (AuthResult, error) {
	taken, err := s.store.UsernameExists(ctx, username)
	if err != nil {
		return AuthResult{}, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return AuthResult{}, errs.ErrUsernameTaken
	}

	taken, err = s.store.EmailExists(ctx, email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return AuthResult{}, errs.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	account := model.Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         model.RoleUser,
		Active:       true,
		CreatedAt:    time.Now(),
	}

	// проверки выше — быстрый отказ, окончательно уникальность гарантирует
	// constraint в хранилище
	if err := s.store.SaveAccount(ctx, account); err != nil {
		return AuthResult{}, err
	}

	token, err := s.tokens.GenerateToken(account.Username, string(account.Role), account.DisplayName)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate token: %w", err)
	}

	return AuthResult{Account: account, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (AuthResult, error) {
	account, err := s.store.GetAccountByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		return AuthResult{}, err
	}

	if !account.Active {
		return AuthResult{}, errs.ErrAccountDeactivated
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return AuthResult{}, errs.ErrInvalidCredentials
	}

	now := time.Now()
	account.LastLoginAt = &now
	if err := s.store.SaveAccount(ctx, account); err != nil {
		return AuthResult{}, fmt.Errorf("update last login: %w", err)
	}

	token, err := s.tokens.GenerateToken(account.Username, string(account.Role), account.DisplayName)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate token: %w", err)
	}

	return AuthResult{Account: account, Token: token}, nil
}

func (s *AuthService) FindByUsername(ctx context.Context, username string) (model.Account, error) {
	return s.store.GetAccountByUsername(ctx, username)
}
