package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"gamehub/models"
	"gamehub/service"
	"gamehub/utils"
)

type GameHandler struct {
	games *service.GameService
}

func NewGameHandler(games *service.GameService) *GameHandler {
	return &GameHandler{games: games}
}

// List handles GET /games?page=&order=
func (h *GameHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	order, ok := sortOrderParam(c)
	if !ok {
		return
	}

	result, err := h.games.GetAll(c.Request.Context(), page, "releaseDate", order)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Search handles GET /games/search?q=&page=&order=
func (h *GameHandler) Search(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	order, ok := sortOrderParam(c)
	if !ok {
		return
	}

	games, err := h.games.SearchByTerm(c.Request.Context(), term, page, "releaseDate", order)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"query":   term,
		"results": games,
	})
}

// Get handles GET /games/:id
func (h *GameHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		return
	}

	game, err := h.games.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// Create handles POST /games
func (h *GameHandler) Create(c *gin.Context) {
	if _, ok := requireRole(c, "admin", "developer"); !ok {
		return
	}

	var input models.GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	game, err := h.games.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

// Update handles PUT /games/:id
func (h *GameHandler) Update(c *gin.Context) {
	if _, ok := requireRole(c, "admin", "developer"); !ok {
		return
	}

	id, err := idParam(c)
	if err != nil {
		return
	}

	var input models.GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	game, err := h.games.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// Delete handles DELETE /games/:id
func (h *GameHandler) Delete(c *gin.Context) {
	if _, ok := requireRole(c, "admin", "developer"); !ok {
		return
	}

	id, err := idParam(c)
	if err != nil {
		return
	}

	if err := h.games.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Game deleted"})
}

// sortOrderParam restricts ?order= to ASC or DESC (default DESC).
func sortOrderParam(c *gin.Context) (string, bool) {
	order := strings.ToUpper(c.DefaultQuery("order", "DESC"))
	if order != "ASC" && order != "DESC" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order must be ASC or DESC"})
		return "", false
	}
	return order, true
}

func idParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, err
	}
	return uint(id), nil
}
