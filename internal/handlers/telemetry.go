package handlers

import (
	"net/http"
	"time"

	"greenpulse"

	"github.com/gin-gonic/gin"
)

type ingestSensorRequest struct {
	PlantID  string  `json:"plantId" binding:"required"`
	MoistPct float64 `json:"moistPct"`
	TempC    float64 `json:"tempC"`
	HumPct   float64 `json:"humPct"`
	Ts       *int64  `json:"ts"` // unix millis; defaults to now
}

// @Summary      Ingest a raw sensor snapshot
// @Tags         telemetry
// @Accept       json
// @Produce      json
// @Param        body  body  ingestSensorRequest  true  "Snapshot"
// @Success      202  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/telemetry/sensor [post]
// @Security     BearerAuth
func (h *Handler) ingestSensor(c *gin.Context) {
	var input ingestSensorRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	ts := time.Now()
	if input.Ts != nil {
		ts = time.UnixMilli(*input.Ts)
	}

	err := h.services.IngestSensor(c.Request.Context(), userEmail(c), input.PlantID, greenpulse.SensorSnapshot{
		MoistPct: input.MoistPct,
		TempC:    input.TempC,
		HumPct:   input.HumPct,
		Ts:       ts,
	})
	if err != nil {
		h.respondError(c, err, "sensor_ingest_failed", "email", userEmail(c), "plant", input.PlantID)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// @Summary      Current telemetry for the caller's active plant
// @Tags         telemetry
// @Produce      json
// @Success      200  {object}  greenpulse.TelemetryRecord
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/telemetry/current [get]
// @Security     BearerAuth
func (h *Handler) getCurrentTelemetry(c *gin.Context) {
	rec, err := h.services.Telemetry.Current(c.Request.Context(), userEmail(c))
	if err != nil {
		h.respondError(c, err, "telemetry_current_failed", "email", userEmail(c))
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no telemetry yet"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// @Summary      Most recent telemetry across all users
// @Tags         telemetry
// @Produce      json
// @Success      200  {object}  greenpulse.TelemetryRecord
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/telemetry/last [get]
// @Security     BearerAuth
func (h *Handler) getLastTelemetry(c *gin.Context) {
	rec, err := h.services.Telemetry.Last(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "telemetry_last_failed")
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no telemetry yet"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
