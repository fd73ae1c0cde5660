package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatwire/messaging-api/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles GET /users — the directory used to pick a contact.
//
// @Summary      List all active users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.ContactView
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	views, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// Deactivate handles DELETE /users: soft-deactivates the caller's account and
// revokes every outstanding refresh token. Already-issued access tokens stay
// valid until natural expiry.
//
// @Summary      Deactivate the caller's account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users [delete]
func (h *UserHandler) Deactivate(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.userService.Deactivate(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "account deactivated"})
}
