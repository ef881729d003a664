package ports

import (
	"context"

	"github.com/rioadmin/account-service/internal/core/domain"
)

// AdminService holds the privileged operations behind the admin routes.
type AdminService interface {
	// AdjustBalance applies delta to the user's balance, never letting it drop
	// below zero. actorID is only used for the audit trail.
	AdjustBalance(ctx context.Context, actorID, userID string, delta float64) (*domain.BalanceChange, error)
	SetAdmin(ctx context.Context, actorID, targetUserID string, grant bool) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	Stats(ctx context.Context) (*domain.UserStats, error)
}
