package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDelta(t *testing.T) {
	cases := []struct {
		balance, delta, want float64
	}{
		{50, -80, 0},
		{100.50, 25.25, 125.75},
		{20, 10, 30},
		{0, -1, 0},
		{0, 0, 0},
		{999999, 999999, 1999998},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ApplyDelta(c.balance, c.delta), "%v%+v", c.balance, c.delta)
	}
}

func TestBalanceChange_Message(t *testing.T) {
	c := &BalanceChange{Previous: 100.5, New: 125.75}
	assert.Equal(t, "Balance updated from $100.5 to $125.75", c.Message())
	assert.False(t, c.Clamped(25.25))

	c = &BalanceChange{Previous: 1000000, New: 0}
	assert.Equal(t, "Balance updated from $1000000 to $0", c.Message())
	assert.True(t, c.Clamped(-1000001))
}

func TestPrincipal_Variants(t *testing.T) {
	admin := NewAdminPrincipal("AdminRio")
	assert.Equal(t, AdminPrincipalID, admin.ID())
	assert.Equal(t, RoleAdmin, admin.Role())
	assert.True(t, admin.HasRole(RoleAdmin))

	u := &User{ID: "u1", Username: "alice", Role: RoleUser}
	p := NewUserPrincipal(u)
	assert.Equal(t, "u1", p.ID())
	assert.Equal(t, "alice", p.Username)
	assert.False(t, p.HasRole(RoleAdmin))
	assert.True(t, p.HasRole(RoleAdmin, RoleUser))
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("owner").Valid())
}
