package handlers

import (
	"errors"
	"net/http"

	"greenpulse"
	"greenpulse/internal/service"

	"github.com/gin-gonic/gin"
)

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  signUpRequest  true  "Account payload"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input signUpRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	if err := h.services.SignUp(c.Request.Context(), input.Name, input.Email, input.Password); err != nil {
		if h.log != nil {
			h.log.Infow("auth_sign_up_failed", "email", input.Email, "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "registered"})
}

// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  signInRequest  true  "Credentials"
// @Success      200  {object}  map[string]string  "token"
// @Failure      401  {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input signInRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.SignIn(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_sign_in_failed", "email", input.Email, "err", err)
		}
		if errors.Is(err, service.ErrAccountNotFound) || errors.Is(err, service.ErrWrongPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/sign-out [post]
// @Security     BearerAuth
func (h *Handler) signOut(c *gin.Context) {
	if err := h.services.SignOut(c.Request.Context()); err != nil {
		h.respondError(c, err, "auth_sign_out_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "signed_out"})
}

// profileResponse is the user record without credentials.
type profileResponse struct {
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	Photo           string             `json:"photo"`
	Country         string             `json:"country"`
	City            string             `json:"city"`
	About           string             `json:"about"`
	Units           string             `json:"units"`
	Plants          []greenpulse.Plant `json:"plants"`
	SelectedPlantID string             `json:"selectedPlantId,omitempty"`
}

func toProfileResponse(u *greenpulse.User) profileResponse {
	plants := u.Plants
	if plants == nil {
		plants = []greenpulse.Plant{}
	}
	return profileResponse{
		Name:            u.Name,
		Email:           u.Email,
		Photo:           u.Photo,
		Country:         u.Country,
		City:            u.City,
		About:           u.About,
		Units:           u.Units,
		Plants:          plants,
		SelectedPlantID: u.SelectedPlantID,
	}
}
