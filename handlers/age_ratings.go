package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gamehub/models"
	"gamehub/service"
	"gamehub/utils"
)

type AgeRatingHandler struct {
	catalog *service.CatalogService
}

func NewAgeRatingHandler(catalog *service.CatalogService) *AgeRatingHandler {
	return &AgeRatingHandler{catalog: catalog}
}

// List handles GET /age-ratings
func (h *AgeRatingHandler) List(c *gin.Context) {
	ratings, err := h.catalog.ListAgeRatings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratings)
}

// Create handles POST /age-ratings. Ratings are immutable once created;
// there is no update or delete route.
func (h *AgeRatingHandler) Create(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}

	var input models.AgeRatingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	rating, err := h.catalog.CreateAgeRating(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rating)
}
