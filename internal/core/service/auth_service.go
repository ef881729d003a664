package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/rioadmin/account-service/internal/core/domain"
	"github.com/rioadmin/account-service/internal/core/ports"
)

// AdminCredentials is the externally configured admin login.
type AdminCredentials struct {
	Username string
	Password string
}

// AuthService implements registration, user login and admin login.
type AuthService struct {
	repo  ports.UserRepository
	codec ports.TokenCodec
	admin AdminCredentials
	log   zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, codec ports.TokenCodec, admin AdminCredentials, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, codec: codec, admin: admin, log: log}
}

// Register creates an active password account with a zero balance.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Balance:      0,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login authenticates a password account by email. Unknown emails and
// accounts without a password (OAuth-created) both fail as invalid
// credentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, domain.ErrAccountDeactivated
	}

	token, err := s.codec.Issue(domain.TokenClaims{Subject: user.ID})
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// AdminLogin checks the configured admin credentials and issues a token the
// authorizer recognises without a store lookup.
func (s *AuthService) AdminLogin(_ context.Context, username, password string) (string, *domain.Principal, error) {
	if s.admin.Username == "" || s.admin.Password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.admin.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	if !userOK || !passOK {
		s.log.Warn().Str("username", username).Msg("admin login rejected")
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(domain.TokenClaims{Subject: s.admin.Username, Role: domain.RoleAdmin})
	if err != nil {
		return "", nil, err
	}
	return token, domain.NewAdminPrincipal(s.admin.Username), nil
}
