package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gamehub/service"
)

type StatsHandler struct {
	stats *service.StatsService
}

func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Dashboard handles GET /admin/stats
func (h *StatsHandler) Dashboard(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}

	stats, err := h.stats.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
