package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type saveSearchRequest struct {
	Keyword string `json:"keyword"`
}

// @Summary      Last saved plant search keyword
// @Tags         search
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/v1/search [get]
// @Security     BearerAuth
func (h *Handler) getSearch(c *gin.Context) {
	keyword, err := h.services.LastKeyword(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "search_get_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"keyword": keyword})
}

// @Summary      Save the plant search keyword
// @Tags         search
// @Accept       json
// @Produce      json
// @Param        body  body  saveSearchRequest  true  "Keyword"
// @Success      200  {object}  map[string]string
// @Router       /api/v1/search [put]
// @Security     BearerAuth
func (h *Handler) putSearch(c *gin.Context) {
	var input saveSearchRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	if err := h.services.SaveKeyword(c.Request.Context(), input.Keyword); err != nil {
		h.respondError(c, err, "search_save_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"keyword": input.Keyword})
}
