package handler

import "github.com/rioadmin/account-service/internal/core/domain"

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type adminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type adminLoginResponse struct {
	Token string            `json:"token"`
	Admin principalResponse `json:"admin"`
}

type principalResponse struct {
	ID       string       `json:"id"`
	Username string       `json:"username"`
	Role     domain.Role  `json:"role"`
	Kind     string       `json:"kind"`
	User     *domain.User `json:"user,omitempty"`
}

func toPrincipalResponse(p *domain.Principal) principalResponse {
	return principalResponse{
		ID:       p.ID(),
		Username: p.Username,
		Role:     p.Role(),
		Kind:     p.Kind.String(),
		User:     p.User,
	}
}
