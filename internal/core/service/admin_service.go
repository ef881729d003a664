package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rioadmin/account-service/internal/core/domain"
	"github.com/rioadmin/account-service/internal/core/ports"
)

// MaxBalanceDelta bounds the magnitude of a single balance adjustment.
const MaxBalanceDelta = 999999

type adminService struct {
	users ports.UserRepository
	audit ports.AuditRecorder
	log   zerolog.Logger
	now   func() time.Time
}

// NewAdminService returns an AdminService implementation.
func NewAdminService(users ports.UserRepository, audit ports.AuditRecorder, log zerolog.Logger) ports.AdminService {
	return &adminService{
		users: users,
		audit: audit,
		log:   log,
		now:   time.Now,
	}
}

// AdjustBalance validates delta before touching the store, then delegates the
// read-modify-write to a single atomic repository update.
func (s *adminService) AdjustBalance(ctx context.Context, actorID, userID string, delta float64) (*domain.BalanceChange, error) {
	if !validDelta(delta) {
		return nil, domain.ErrInvalidAmount
	}

	previous, user, err := s.users.AdjustBalance(ctx, userID, delta)
	if err != nil {
		return nil, fmt.Errorf("adjust balance: %w", err)
	}

	change := &domain.BalanceChange{User: user, Previous: previous, New: user.Balance}

	s.audit.Record(domain.AuditEntry{
		Action:       domain.AuditBalanceAdjusted,
		ActorID:      actorID,
		TargetUserID: user.ID,
		Message:      change.Message(),
		Previous:     domain.FormatAmount(change.Previous),
		Current:      domain.FormatAmount(change.New),
		CreatedAt:    s.now().UTC(),
	})

	s.log.Info().
		Str("actor_id", actorID).
		Str("user_id", user.ID).
		Float64("delta", delta).
		Float64("previous", change.Previous).
		Float64("new", change.New).
		Bool("clamped", change.Clamped(delta)).
		Msg("balance adjusted")

	return change, nil
}

// SetAdmin grants or revokes the admin role on targetUserID. The acting
// principal can never change its own role, whatever role it holds.
func (s *adminService) SetAdmin(ctx context.Context, actorID, targetUserID string, grant bool) (*domain.User, error) {
	if sameUserID(actorID, targetUserID) {
		return nil, domain.ErrSelfModificationForbidden
	}

	role := domain.RoleUser
	if grant {
		role = domain.RoleAdmin
	}

	user, err := s.users.SetRole(ctx, targetUserID, role)
	if err != nil {
		return nil, fmt.Errorf("set admin: %w", err)
	}

	msg := "Admin privileges revoked"
	if grant {
		msg = "Admin privileges granted"
	}
	s.audit.Record(domain.AuditEntry{
		Action:       domain.AuditRoleChanged,
		ActorID:      actorID,
		TargetUserID: user.ID,
		Message:      msg,
		Current:      string(user.Role),
		CreatedAt:    s.now().UTC(),
	})

	s.log.Info().
		Str("actor_id", actorID).
		Str("user_id", user.ID).
		Str("role", string(user.Role)).
		Msg("role changed")

	return user, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *adminService) Stats(ctx context.Context) (*domain.UserStats, error) {
	stats, err := s.users.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	return stats, nil
}

// sameUserID compares ids the way the store resolves them: hex ObjectIDs
// parse case-insensitively.
func sameUserID(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func validDelta(delta float64) bool {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return false
	}
	return delta >= -MaxBalanceDelta && delta <= MaxBalanceDelta
}
