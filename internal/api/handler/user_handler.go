package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finledger/ledger-api/internal/core/ports"
)

// UserHandler serves the account read and block endpoints.
type UserHandler struct {
	accounts ports.AccountService
}

func NewUserHandler(accounts ports.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// List returns every account in the default view (no balances).
//
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userView
// @Failure      401  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	accounts, err := h.accounts.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserViews(accounts))
}

// Me returns the authenticated user's own account with its balance.
//
// @Summary      Get current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userDetailView
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	acct, err := h.accounts.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserDetailView(acct))
}

// BlockMe blocks the authenticated user's own account. One-way.
//
// @Summary      Block current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  blockedUserView
// @Failure      401  {object}  errorResponse
// @Router       /users/me/block [post]
func (h *UserHandler) BlockMe(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	acct, err := h.accounts.Block(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBlockedUserView(acct))
}

// Get returns any account by id. Admin only.
//
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  userDetailView
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	acct, err := h.accounts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserDetailView(acct))
}

// Block blocks any account by id. Admin only, one-way.
//
// @Summary      Block user by ID
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  blockedUserView
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id}/block [post]
func (h *UserHandler) Block(c echo.Context) error {
	acct, err := h.accounts.Block(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBlockedUserView(acct))
}
