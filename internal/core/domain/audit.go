package domain

import "time"

// AuditAction names an admin mutation recorded in the audit trail.
type AuditAction string

const (
	AuditBalanceAdjusted AuditAction = "balance_adjusted"
	AuditRoleChanged     AuditAction = "role_changed"
)

// AuditEntry records one successful admin mutation.
type AuditEntry struct {
	Action       AuditAction
	ActorID      string
	TargetUserID string
	Message      string
	Previous     string
	Current      string
	CreatedAt    time.Time
}
