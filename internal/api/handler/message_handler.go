package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chatwire/messaging-api/internal/api/metrics"
	"github.com/chatwire/messaging-api/internal/core/ports"
)

type MessageHandler struct {
	messageService ports.MessageService
}

func NewMessageHandler(messageService ports.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

type sendMessageRequest struct {
	RecipientID string `json:"recipientId" validate:"required"`
	Content     string `json:"content"     validate:"required"`
}

// Send handles POST /messages.
//
// @Summary      Send a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendMessageRequest  true  "Message"
// @Success      201   {object}  ports.MessageView
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /messages [post]
func (h *MessageHandler) Send(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	view, err := h.messageService.Send(c.Request().Context(), userID, req.RecipientID, req.Content)
	if err != nil {
		return err
	}

	metrics.MessagesSentTotal.Inc()
	return c.JSON(http.StatusCreated, view)
}

// List handles GET /messages with optional contactId and since filters.
//
// @Summary      List the caller's messages
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        contactId  query     string  false  "Limit to the conversation with this user"
// @Param        since      query     string  false  "Only messages after this RFC3339 timestamp"
// @Success      200        {array}   ports.MessageView
// @Failure      400        {object}  map[string]string
// @Router       /messages [get]
func (h *MessageHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	in := ports.ListMessagesInput{
		UserID: userID,
		PeerID: c.QueryParam("contactId"),
	}
	if raw := c.QueryParam("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "since must be an RFC3339 timestamp"})
		}
		in.Since = since
	}

	views, err := h.messageService.List(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}
