package handlers

import (
	"net/http"

	"greenpulse"
	"greenpulse/internal/service"

	"github.com/gin-gonic/gin"
)

type addEmbeddedPlantRequest struct {
	Name        string   `json:"name" binding:"required"`
	Species     string   `json:"species"`
	PlantedOn   string   `json:"plantedOn"`
	Description string   `json:"description"`
	Growth      string   `json:"growth"`
	MinMoisture *float64 `json:"minMoisture"`
	Notes       string   `json:"notes"`
	Photo       string   `json:"photo"`
}

type setActivePlantRequest struct {
	ID string `json:"id" binding:"required"`
}

type setPumpRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary      List plants
// @Tags         plants
// @Produce      json
// @Success      200  {array}  greenpulse.Plant
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/plants [get]
// @Security     BearerAuth
func (h *Handler) listPlants(c *gin.Context) {
	plants, err := h.services.Plants.List(c.Request.Context(), userEmail(c))
	if err != nil {
		h.respondError(c, err, "plants_list_failed", "email", userEmail(c))
		return
	}
	if plants == nil {
		plants = []greenpulse.Plant{}
	}
	c.JSON(http.StatusOK, plants)
}

// @Summary      Create or update a plant
// @Tags         plants
// @Accept       json
// @Produce      json
// @Param        body  body  greenpulse.Plant  true  "Plant; empty id creates"
// @Success      200  {object}  greenpulse.Plant
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/plants [post]
// @Security     BearerAuth
func (h *Handler) upsertPlant(c *gin.Context) {
	var input greenpulse.Plant
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	plant, err := h.services.Upsert(c.Request.Context(), userEmail(c), input)
	if err != nil {
		h.respondError(c, err, "plant_upsert_failed", "email", userEmail(c))
		return
	}

	c.JSON(http.StatusOK, plant)
}

// @Summary      Add a plant to the user record
// @Tags         plants
// @Accept       json
// @Produce      json
// @Param        body  body  addEmbeddedPlantRequest  true  "Plant fields"
// @Success      200  {object}  greenpulse.Plant
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/plants/embedded [post]
// @Security     BearerAuth
func (h *Handler) addEmbeddedPlant(c *gin.Context) {
	var input addEmbeddedPlantRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	plant, err := h.services.AddEmbedded(c.Request.Context(), userEmail(c), service.PlantParams{
		Name:        input.Name,
		Species:     input.Species,
		PlantedOn:   input.PlantedOn,
		Description: input.Description,
		Growth:      input.Growth,
		MinMoisture: input.MinMoisture,
		Notes:       input.Notes,
		Photo:       input.Photo,
	})
	if err != nil {
		h.respondError(c, err, "plant_add_failed", "email", userEmail(c))
		return
	}

	c.JSON(http.StatusOK, plant)
}

// @Summary      Get the active plant
// @Tags         plants
// @Produce      json
// @Success      200  {object}  greenpulse.Plant
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/plants/active [get]
// @Security     BearerAuth
func (h *Handler) getActivePlant(c *gin.Context) {
	plant, err := h.services.Active(c.Request.Context(), userEmail(c))
	if err != nil {
		h.respondError(c, err, "plant_active_failed", "email", userEmail(c))
		return
	}
	if plant == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active plant"})
		return
	}
	c.JSON(http.StatusOK, plant)
}

// @Summary      Set the active plant
// @Tags         plants
// @Accept       json
// @Produce      json
// @Param        body  body  setActivePlantRequest  true  "Plant id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/plants/active [put]
// @Security     BearerAuth
func (h *Handler) setActivePlant(c *gin.Context) {
	var input setActivePlantRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	if err := h.services.SetActive(c.Request.Context(), userEmail(c), input.ID); err != nil {
		h.respondError(c, err, "plant_set_active_failed", "email", userEmail(c), "id", input.ID)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Get a plant's pump status
// @Tags         plants
// @Produce      json
// @Param        id  path  string  true  "Plant id"
// @Success      200  {object}  map[string]string
// @Router       /api/v1/plants/{id}/pump [get]
// @Security     BearerAuth
func (h *Handler) getPumpStatus(c *gin.Context) {
	status, err := h.services.PumpStatus(c.Request.Context(), userEmail(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "pump_status_failed", "email", userEmail(c))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// @Summary      Set a plant's pump status
// @Tags         plants
// @Accept       json
// @Produce      json
// @Param        id    path  string          true  "Plant id"
// @Param        body  body  setPumpRequest  true  "ON or OFF"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/plants/{id}/pump [put]
// @Security     BearerAuth
func (h *Handler) setPumpStatus(c *gin.Context) {
	var input setPumpRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	if err := h.services.SetPumpStatus(c.Request.Context(), userEmail(c), c.Param("id"), input.Status); err != nil {
		h.respondError(c, err, "pump_set_failed", "email", userEmail(c), "id", c.Param("id"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": input.Status})
}
