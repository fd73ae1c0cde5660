package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatwire/messaging-api/internal/core/ports"
)

type ContactHandler struct {
	contactService ports.ContactService
}

func NewContactHandler(contactService ports.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

type addContactRequest struct {
	ID string `json:"id" validate:"required"`
}

// Add handles POST /contacts.
//
// @Summary      Add a user to the caller's contact list
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addContactRequest  true  "User id to add"
// @Success      201   {object}  ports.ContactView
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /contacts [post]
func (h *ContactHandler) Add(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req addContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	view, err := h.contactService.Add(c.Request().Context(), userID, req.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

// List handles GET /contacts.
//
// @Summary      List the caller's contacts
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.ContactView
// @Router       /contacts [get]
func (h *ContactHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	views, err := h.contactService.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}
