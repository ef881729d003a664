package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rioadmin/account-service/internal/api/metrics"
	"github.com/rioadmin/account-service/internal/core/ports"
)

// AdminHandler serves the admin-only user management routes. Every route is
// mounted behind the AdminAuth middleware.
type AdminHandler struct {
	adminService ports.AdminService
}

func NewAdminHandler(adminService ports.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers handles GET /api/admin/users.
//
// @Summary      List users, newest first
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  usersResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersResponse{Users: users, TotalUsers: len(users)})
}

// Dashboard handles GET /api/admin/dashboard.
//
// @Summary      Admin dashboard statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  statsResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	stats, err := h.adminService.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statsResponse{Stats: stats})
}

// AdjustBalance handles PUT /api/admin/users/:userId/balance.
//
// @Summary      Increase or decrease a user's balance
// @Description  The balance is floored at zero; a larger negative amount empties it.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string                true  "User id"
// @Param        body    body      adjustBalanceRequest  true  "Signed amount in [-999999, 999999]"
// @Success      200     {object}  balanceResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      503     {object}  errorResponse
// @Router       /api/admin/users/{userId}/balance [put]
func (h *AdminHandler) AdjustBalance(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req adjustBalanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	delta := *req.Amount
	change, err := h.adminService.AdjustBalance(c.Request().Context(), actor.ID(), c.Param("userId"), delta)
	if err != nil {
		return err
	}
	metrics.BalanceAdjustmentsTotal.WithLabelValues(strconv.FormatBool(change.Clamped(delta))).Inc()

	return c.JSON(http.StatusOK, balanceResponse{
		Message: change.Message(),
		User: balanceUserResponse{
			ID:              change.User.ID,
			Username:        change.User.Username,
			Email:           change.User.Email,
			Balance:         change.New,
			PreviousBalance: change.Previous,
		},
	})
}

// SetAdmin handles POST /api/admin/users/:userId/admin.
//
// @Summary      Grant or revoke admin privileges
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string           true  "User id"
// @Param        body    body      setAdminRequest  true  "Grant flag"
// @Success      200     {object}  roleResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /api/admin/users/{userId}/admin [post]
func (h *AdminHandler) SetAdmin(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req setAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	grant := *req.GrantAdmin
	user, err := h.adminService.SetAdmin(c.Request().Context(), actor.ID(), c.Param("userId"), grant)
	if err != nil {
		return err
	}
	metrics.RoleChangesTotal.WithLabelValues(string(user.Role)).Inc()

	msg := "Admin privileges revoked"
	if grant {
		msg = "Admin privileges granted"
	}
	return c.JSON(http.StatusOK, roleResponse{
		Message: msg,
		User: roleUserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		},
	})
}
