package ports

import (
	"context"

	"github.com/rioadmin/account-service/internal/core/domain"
)

// AuthService covers account registration and the two login flows.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	AdminLogin(ctx context.Context, username, password string) (string, *domain.Principal, error)
}
