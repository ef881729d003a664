package domain

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Role is the privilege level stored on a user record.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User models an account stored in the users collection.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	GoogleID     string    `json:"-"`
	Balance      float64   `json:"balance"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BalanceChange is the outcome of a single balance adjustment.
type BalanceChange struct {
	User     *User
	Previous float64
	New      float64
}

// UserStats summarises the users collection for the admin dashboard.
type UserStats struct {
	TotalUsers       int64   `json:"totalUsers"`
	TotalAdmins      int64   `json:"totalAdmins"`
	NewUsersThisWeek int64   `json:"newUsersThisWeek"`
	TotalBalance     float64 `json:"totalBalance"`
}

// ApplyDelta returns balance+delta floored at zero. A delta larger than the
// current balance empties the account instead of being rejected.
func ApplyDelta(balance, delta float64) float64 {
	return math.Max(0, balance+delta)
}

// Clamped reports whether the requested delta was truncated by the floor.
func (c *BalanceChange) Clamped(delta float64) bool {
	return c.New != c.Previous+delta
}

// Message renders the change the way the admin UI shows it.
func (c *BalanceChange) Message() string {
	return fmt.Sprintf("Balance updated from $%s to $%s", FormatAmount(c.Previous), FormatAmount(c.New))
}

// FormatAmount renders v without trailing zeros or exponent.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
