package handlers

import (
	"net/http"

	"greenpulse/internal/service"

	"github.com/gin-gonic/gin"
)

type updateProfileRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Country *string `json:"country"`
	City    *string `json:"city"`
	About   *string `json:"about"`
	Units   *string `json:"units"`
}

type updatePhotoRequest struct {
	Photo string `json:"photo" binding:"required"`
}

// @Summary      Get profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/profile [get]
// @Security     BearerAuth
func (h *Handler) getProfile(c *gin.Context) {
	user, err := h.services.Profile.Get(c.Request.Context(), userEmail(c))
	if err != nil {
		h.respondError(c, err, "profile_get_failed", "email", userEmail(c))
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(user))
}

// @Summary      Update profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body  updateProfileRequest  true  "Fields to change"
// @Success      200  {object}  profileResponse
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/profile [put]
// @Security     BearerAuth
func (h *Handler) updateProfile(c *gin.Context) {
	var input updateProfileRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	user, err := h.services.Profile.Update(c.Request.Context(), userEmail(c), service.ProfileParams{
		Name:    input.Name,
		Email:   input.Email,
		Country: input.Country,
		City:    input.City,
		About:   input.About,
		Units:   input.Units,
	})
	if err != nil {
		h.respondError(c, err, "profile_update_failed", "email", userEmail(c))
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(user))
}

// @Summary      Update profile photo
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body  updatePhotoRequest  true  "Photo as data-URL"
// @Success      200  {object}  profileResponse
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/profile/photo [put]
// @Security     BearerAuth
func (h *Handler) updatePhoto(c *gin.Context) {
	var input updatePhotoRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	user, err := h.services.UpdatePhoto(c.Request.Context(), userEmail(c), input.Photo)
	if err != nil {
		h.respondError(c, err, "profile_photo_failed", "email", userEmail(c))
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(user))
}
