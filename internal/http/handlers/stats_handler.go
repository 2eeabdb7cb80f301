package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paltattoo/paltattoo-backend/internal/http/handlers/common"
	"github.com/paltattoo/paltattoo-backend/internal/service"
)

// StatsHandler expone el dashboard de estadísticas por rol.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler crea el handler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Dashboard maneja GET /stats/dashboard.
func (h *StatsHandler) Dashboard(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	stats, err := h.stats.GetDashboard(c.Request.Context(), userID, role)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
