package ports

import (
	"context"

	"github.com/rioadmin/account-service/internal/core/domain"
)

// UserRepository defines persistence for user records.
//
// Every method that resolves a single record by id returns
// domain.ErrUserNotFound when nothing matches, and domain.ErrStoreUnavailable
// (wrapped) when the store cannot be reached in time.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// AdjustBalance applies delta in a single atomic document update, clamping
	// the stored balance at zero. It returns the balance before the update and
	// the record as it was written.
	AdjustBalance(ctx context.Context, id string, delta float64) (previous float64, updated *domain.User, err error)

	// SetRole overwrites the role of the record identified by id.
	SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)

	// List returns all users, newest first.
	List(ctx context.Context) ([]*domain.User, error)
	Stats(ctx context.Context) (*domain.UserStats, error)
}
