package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatwire/messaging-api/internal/core/ports"
)

// PublicKeyHandler serves the PEM-encoded verification key so downstream
// services can validate access-token signatures without calling back in.
type PublicKeyHandler struct {
	signer ports.TokenSigner
}

func NewPublicKeyHandler(signer ports.TokenSigner) *PublicKeyHandler {
	return &PublicKeyHandler{signer: signer}
}

// Get handles GET /public-key.
//
// @Summary      Get the JWT verification key
// @Tags         auth
// @Produce      plain
// @Success      200  {string}  string  "PEM-encoded public key"
// @Router       /public-key [get]
func (h *PublicKeyHandler) Get(c echo.Context) error {
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, h.signer.PublicKeyPEM())
}
