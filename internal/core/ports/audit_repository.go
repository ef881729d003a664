package ports

import (
	"context"

	"github.com/rioadmin/account-service/internal/core/domain"
)

// AuditRepository persists admin audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}

// AuditRecorder accepts audit entries without blocking the caller.
type AuditRecorder interface {
	Record(entry domain.AuditEntry)
}
