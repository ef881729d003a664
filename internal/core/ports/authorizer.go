package ports

import (
	"context"

	"github.com/rioadmin/account-service/internal/core/domain"
)

// Authorizer turns a raw Authorization header into a principal.
type Authorizer interface {
	Authorize(ctx context.Context, rawHeader string) (*domain.Principal, error)
	AuthorizeAdmin(ctx context.Context, rawHeader string) (*domain.Principal, error)
}
