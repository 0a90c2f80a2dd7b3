package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gamehub/models"
	"gamehub/service"
	"gamehub/utils"
)

type PlatformHandler struct {
	catalog *service.CatalogService
}

func NewPlatformHandler(catalog *service.CatalogService) *PlatformHandler {
	return &PlatformHandler{catalog: catalog}
}

// List handles GET /platforms
func (h *PlatformHandler) List(c *gin.Context) {
	platforms, err := h.catalog.ListPlatforms(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, platforms)
}

// Create handles POST /platforms
func (h *PlatformHandler) Create(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}

	var input models.PlatformInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	platform, err := h.catalog.CreatePlatform(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, platform)
}

// Update handles PUT /platforms/:id
func (h *PlatformHandler) Update(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}

	id, err := idParam(c)
	if err != nil {
		return
	}

	var input models.PlatformInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	platform, err := h.catalog.UpdatePlatform(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, platform)
}

// Delete handles DELETE /platforms/:id. Deleting a platform still
// referenced by any game answers 409.
func (h *PlatformHandler) Delete(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}

	id, err := idParam(c)
	if err != nil {
		return
	}

	if err := h.catalog.DeletePlatform(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Platform deleted"})
}
