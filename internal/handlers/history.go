package handlers

import (
	"net/http"
	"strconv"

	"greenpulse"
	"greenpulse/internal/service"

	"github.com/gin-gonic/gin"
)

type appendHistoryRequest struct {
	SoilTemperature float64 `json:"soil_temperature"`
	SoilMoisture    float64 `json:"soil_moisture"`
	AirHumidity     float64 `json:"air_humidity"`
	AINeedWater     bool    `json:"ai_need_water"`
	AIProbability   float64 `json:"ai_probability"`
}

// @Summary      Recent history for the caller's selected plant
// @Tags         history
// @Produce      json
// @Param        limit  query  int  false  "Max rows, newest first; 0 for all"
// @Success      200  {array}  greenpulse.HistoryEntry
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/history [get]
// @Security     BearerAuth
func (h *Handler) getHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	entries, err := h.services.Recent(c.Request.Context(), userEmail(c), limit)
	if err != nil {
		h.respondError(c, err, "history_list_failed", "email", userEmail(c))
		return
	}
	if entries == nil {
		entries = []greenpulse.HistoryEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// @Summary      Append a history entry
// @Tags         history
// @Accept       json
// @Produce      json
// @Param        body  body  appendHistoryRequest  true  "Reading and prediction"
// @Success      200  {object}  greenpulse.HistoryEntry
// @Success      204  "No account or selected plant; nothing recorded"
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/history [post]
// @Security     BearerAuth
func (h *Handler) appendHistory(c *gin.Context) {
	var input appendHistoryRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	entry, err := h.services.Append(c.Request.Context(), userEmail(c),
		service.SensorInput{
			SoilTemperature: input.SoilTemperature,
			SoilMoisture:    input.SoilMoisture,
			AirHumidity:     input.AirHumidity,
		},
		service.Prediction{
			NeedWater:   input.AINeedWater,
			Probability: input.AIProbability,
		})
	if err != nil {
		h.respondError(c, err, "history_append_failed", "email", userEmail(c))
		return
	}
	if entry == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// @Summary      History digest for the caller's selected plant
// @Tags         history
// @Produce      json
// @Success      200  {object}  greenpulse.Summary
// @Success      204  "No history yet"
// @Router       /api/v1/history/summary [get]
// @Security     BearerAuth
func (h *Handler) getSummary(c *gin.Context) {
	summary, err := h.services.Summary(c.Request.Context(), userEmail(c))
	if err != nil {
		h.respondError(c, err, "history_summary_failed", "email", userEmail(c))
		return
	}
	if summary == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary      Mark a history entry as watered
// @Tags         history
// @Produce      json
// @Param        id  path  string  true  "History entry id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/history/{id}/watered [patch]
// @Security     BearerAuth
func (h *Handler) markWatered(c *gin.Context) {
	if err := h.services.MarkWatered(c.Request.Context(), userEmail(c), c.Param("id")); err != nil {
		h.respondError(c, err, "history_mark_watered_failed", "email", userEmail(c), "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "watered"})
}
