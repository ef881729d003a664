package handler

import "github.com/rioadmin/account-service/internal/core/domain"

// adjustBalanceRequest carries a signed delta. Range checks happen in the
// service so out-of-range amounts fail as domain.ErrInvalidAmount.
type adjustBalanceRequest struct {
	Amount *float64 `json:"amount" validate:"required"`
}

type setAdminRequest struct {
	GrantAdmin *bool `json:"grantAdmin" validate:"required"`
}

type balanceUserResponse struct {
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Balance         float64 `json:"balance"`
	PreviousBalance float64 `json:"previousBalance"`
}

type balanceResponse struct {
	Message string              `json:"message"`
	User    balanceUserResponse `json:"user"`
}

type roleUserResponse struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

type roleResponse struct {
	Message string           `json:"message"`
	User    roleUserResponse `json:"user"`
}

type usersResponse struct {
	Users      []*domain.User `json:"users"`
	TotalUsers int            `json:"totalUsers"`
}

type statsResponse struct {
	Stats *domain.UserStats `json:"stats"`
}
