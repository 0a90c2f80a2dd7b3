package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gamehub/models"
	"gamehub/service"
	"gamehub/utils"
)

type GenreHandler struct {
	catalog *service.CatalogService
}

func NewGenreHandler(catalog *service.CatalogService) *GenreHandler {
	return &GenreHandler{catalog: catalog}
}

// List handles GET /genres
func (h *GenreHandler) List(c *gin.Context) {
	genres, err := h.catalog.ListGenres(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, genres)
}

// Create handles POST /genres
func (h *GenreHandler) Create(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}

	var input models.GenreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	genre, err := h.catalog.CreateGenre(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, genre)
}

// Update handles PUT /genres/:id
func (h *GenreHandler) Update(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}

	id, err := idParam(c)
	if err != nil {
		return
	}

	var input models.GenreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	genre, err := h.catalog.UpdateGenre(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, genre)
}

// Delete handles DELETE /genres/:id. Deleting a genre still referenced
// by any game answers 409.
func (h *GenreHandler) Delete(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}

	id, err := idParam(c)
	if err != nil {
		return
	}

	if err := h.catalog.DeleteGenre(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Genre deleted"})
}
