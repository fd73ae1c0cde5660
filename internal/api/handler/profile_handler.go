package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatwire/messaging-api/internal/core/ports"
)

type ProfileHandler struct {
	profileService ports.ProfileService
}

func NewProfileHandler(profileService ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

type patchProfileRequest struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Username  *string `json:"username"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	PhotoURL  *string `json:"photoUrl"`
}

// Get handles GET /profile/:userId.
//
// @Summary      Get a user's profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  ports.Profile
// @Failure      404     {object}  map[string]string
// @Router       /profile/{userId} [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	profile, err := h.profileService.Get(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Patch handles PATCH /profile. When the patch touched claim-bearing fields
// the response is a fresh token pair; otherwise it is the updated profile.
//
// @Summary      Partially update the caller's profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      patchProfileRequest  true  "Fields to update"
// @Success      200   {object}  tokenPairResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /profile [patch]
func (h *ProfileHandler) Patch(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req patchProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	result, err := h.profileService.Patch(c.Request().Context(), userID, ports.PatchProfileInput{
		Email:     req.Email,
		Password:  req.Password,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		PhotoURL:  req.PhotoURL,
	})
	if err != nil {
		return err
	}

	if result.Tokens != nil {
		return c.JSON(http.StatusOK, tokenPairOf(result.Tokens))
	}
	return c.JSON(http.StatusOK, result.Profile)
}
