package service

import (
	"context"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rioadmin/account-service/internal/core/domain"
)

func newTestAdminService(users ...*domain.User) (*adminService, *stubUserRepo, *stubAudit) {
	repo := newStubUserRepo(users...)
	audit := &stubAudit{}
	svc := NewAdminService(repo, audit, zerolog.Nop()).(*adminService)
	return svc, repo, audit
}

func withBalance(id string, balance float64) *domain.User {
	u := activeUser(id, domain.RoleUser)
	u.Balance = balance
	return u
}

func TestAdminService_AdjustBalance_Applies(t *testing.T) {
	svc, _, audit := newTestAdminService(withBalance("u1", 100.50))

	change, err := svc.AdjustBalance(context.Background(), "admin", "u1", 25.25)
	require.NoError(t, err)
	assert.Equal(t, 100.50, change.Previous)
	assert.Equal(t, 125.75, change.New)
	assert.Equal(t, 125.75, change.User.Balance)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, domain.AuditBalanceAdjusted, audit.entries[0].Action)
	assert.Equal(t, "admin", audit.entries[0].ActorID)
	assert.Equal(t, "u1", audit.entries[0].TargetUserID)
	assert.Equal(t, "Balance updated from $100.5 to $125.75", audit.entries[0].Message)
}

func TestAdminService_AdjustBalance_FloorClamp(t *testing.T) {
	svc, _, _ := newTestAdminService(withBalance("u1", 50))

	change, err := svc.AdjustBalance(context.Background(), "admin", "u1", -80)
	require.NoError(t, err)
	assert.Equal(t, 50.0, change.Previous)
	assert.Equal(t, 0.0, change.New)
	assert.True(t, change.Clamped(-80))
	assert.Equal(t, "Balance updated from $50 to $0", change.Message())
}

func TestAdminService_AdjustBalance_NeverNegative(t *testing.T) {
	starts := []float64{0, 0.01, 20, 50, 999999, 2000000}
	deltas := []float64{-MaxBalanceDelta, -1000, -50.5, -0.01, 0, 0.01, 10, MaxBalanceDelta}

	for _, b := range starts {
		for _, d := range deltas {
			svc, _, _ := newTestAdminService(withBalance("u1", b))
			change, err := svc.AdjustBalance(context.Background(), "admin", "u1", d)
			require.NoError(t, err)
			assert.Equal(t, math.Max(0, b+d), change.New, "balance %v delta %v", b, d)
			assert.GreaterOrEqual(t, change.New, 0.0)
		}
	}
}

func TestAdminService_AdjustBalance_InvalidAmount(t *testing.T) {
	svc, repo, audit := newTestAdminService(withBalance("u1", 50))

	for _, d := range []float64{-1000000, 1000000, -999999.01, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := svc.AdjustBalance(context.Background(), "admin", "u1", d)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, "delta %v", d)
	}
	assert.Zero(t, repo.lookups(), "no store access for rejected amounts")
	assert.Empty(t, audit.entries)
}

func TestAdminService_AdjustBalance_BoundsAreInclusive(t *testing.T) {
	svc, _, _ := newTestAdminService(withBalance("u1", 0))

	change, err := svc.AdjustBalance(context.Background(), "admin", "u1", MaxBalanceDelta)
	require.NoError(t, err)
	assert.Equal(t, 999999.0, change.New)

	change, err = svc.AdjustBalance(context.Background(), "admin", "u1", -MaxBalanceDelta)
	require.NoError(t, err)
	assert.Equal(t, 0.0, change.New)
}

func TestAdminService_AdjustBalance_UserNotFound(t *testing.T) {
	svc, _, audit := newTestAdminService()

	_, err := svc.AdjustBalance(context.Background(), "admin", "ghost", 10)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Empty(t, audit.entries)
}

func TestAdminService_AdjustBalance_Concurrent(t *testing.T) {
	for i := 0; i < 50; i++ {
		svc, repo, _ := newTestAdminService(withBalance("u1", 20))

		var wg sync.WaitGroup
		for _, d := range []float64{10, -5} {
			wg.Add(1)
			go func(delta float64) {
				defer wg.Done()
				_, err := svc.AdjustBalance(context.Background(), "admin", "u1", delta)
				assert.NoError(t, err)
			}(d)
		}
		wg.Wait()

		u, err := repo.FindByID(context.Background(), "u1")
		require.NoError(t, err)
		require.Equal(t, 25.0, u.Balance)
	}
}

func TestAdminService_SetAdmin(t *testing.T) {
	svc, _, audit := newTestAdminService(activeUser("u1", domain.RoleUser))

	u, err := svc.SetAdmin(context.Background(), "a1", "u1", true)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	u, err = svc.SetAdmin(context.Background(), "a1", "u1", false)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role)

	require.Len(t, audit.entries, 2)
	assert.Equal(t, "Admin privileges granted", audit.entries[0].Message)
	assert.Equal(t, "Admin privileges revoked", audit.entries[1].Message)
}

func TestAdminService_SetAdmin_SelfModificationForbidden(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleUser} {
		svc, repo, _ := newTestAdminService(activeUser("id1", role))

		for _, grant := range []bool{true, false} {
			_, err := svc.SetAdmin(context.Background(), "id1", "id1", grant)
			assert.ErrorIs(t, err, domain.ErrSelfModificationForbidden)
		}
		assert.Zero(t, repo.lookups())
	}
}

func TestAdminService_SetAdmin_SelfModificationIgnoresIDCase(t *testing.T) {
	const id = "6ad01bbcf00d000000000001"
	svc, repo, audit := newTestAdminService(activeUser(id, domain.RoleAdmin))

	for _, target := range []string{strings.ToUpper(id), " " + id + " "} {
		_, err := svc.SetAdmin(context.Background(), id, target, false)
		assert.ErrorIs(t, err, domain.ErrSelfModificationForbidden, "target %q", target)
	}

	u, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.Empty(t, audit.entries)
}

func TestAdminService_SetAdmin_UserNotFound(t *testing.T) {
	svc, _, _ := newTestAdminService()

	_, err := svc.SetAdmin(context.Background(), "admin", "ghost", true)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAdminService_Stats(t *testing.T) {
	svc, _, _ := newTestAdminService(withBalance("u1", 10), withBalance("u2", 5.5), activeUser("a1", domain.RoleAdmin))

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalAdmins)
	assert.Equal(t, 15.5, stats.TotalBalance)
}
