package handlers

import (
	"net/http"

	"greenpulse"

	"github.com/gin-gonic/gin"
)

// @Summary      Watering reminders, newest first
// @Tags         notifications
// @Produce      json
// @Success      200  {array}  greenpulse.NotificationRow
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/notifications [get]
// @Security     BearerAuth
func (h *Handler) getNotifications(c *gin.Context) {
	rows, err := h.services.Rows(c.Request.Context(), userEmail(c))
	if err != nil {
		h.respondError(c, err, "notifications_failed", "email", userEmail(c))
		return
	}
	if rows == nil {
		rows = []greenpulse.NotificationRow{}
	}
	c.JSON(http.StatusOK, rows)
}
