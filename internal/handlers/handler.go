package handlers

import (
	"errors"
	"net/http"

	"greenpulse"
	"greenpulse/internal/eventbus"
	"greenpulse/internal/logger"
	"greenpulse/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services, logging, and the storage-change
// bus (for the WebSocket feed).
type Handler struct {
	services *service.Service
	log      *logger.Logger
	bus      *eventbus.Bus
}

func NewHandler(services *service.Service, log *logger.Logger, bus *eventbus.Bus) *Handler {
	return &Handler{services: services, log: log, bus: bus}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// live telemetry/summary feed on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
		auth.POST("/sign-out", h.emailMiddleware, h.signOut)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.emailMiddleware)
	{
		profile := api.Group("/profile")
		{
			profile.GET("", h.getProfile)
			profile.PUT("", h.updateProfile)
			profile.PUT("/photo", h.updatePhoto)
		}

		plants := api.Group("/plants")
		{
			plants.GET("", h.listPlants)
			plants.POST("", h.upsertPlant)
			plants.POST("/embedded", h.addEmbeddedPlant)
			plants.GET("/active", h.getActivePlant)
			plants.PUT("/active", h.setActivePlant)
			plants.GET("/:id/pump", h.getPumpStatus)
			plants.PUT("/:id/pump", h.setPumpStatus)
		}

		telemetry := api.Group("/telemetry")
		{
			telemetry.POST("/sensor", h.ingestSensor)
			telemetry.GET("/current", h.getCurrentTelemetry)
			telemetry.GET("/last", h.getLastTelemetry)
		}

		history := api.Group("/history")
		{
			history.GET("", h.getHistory)
			history.POST("", h.appendHistory)
			history.GET("/summary", h.getSummary)
			history.PATCH("/:id/watered", h.markWatered)
		}

		api.GET("/notifications", h.getNotifications)

		api.GET("/search", h.getSearch)
		api.PUT("/search", h.putSearch)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bindJSONOrBadRequest binds the request body into dst and writes a 400 JSON
// on failure. Returns false if the request was already handled.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// respondError maps domain errors to HTTP statuses, keeping the
// human-readable message for validation failures.
func (h *Handler) respondError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	if h.log != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Infow(logKey, fields...)
	}
	switch {
	case errors.Is(err, service.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAccountNotFound), errors.Is(err, greenpulse.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, greenpulse.ErrDuplicateEmail),
		errors.Is(err, service.ErrInvalidUnits),
		errors.Is(err, service.ErrInvalidPumpStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.log != nil {
			h.log.Errorw(logKey, append([]interface{}{"err", err}, kv...)...)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
