package handler

import (
	"github.com/Amen1235f/ecommerce-cms/internal/service"
	"github.com/Amen1235f/ecommerce-cms/pkg/logger"
	"github.com/Amen1235f/ecommerce-cms/pkg/response"
	"github.com/gin-gonic/gin"
)

// StatsHandler serves the admin dashboard
type StatsHandler struct {
	statsService service.StatsService
	log          *logger.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsService service.StatsService, log *logger.Logger) *StatsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &StatsHandler{statsService: statsService, log: log}
}

// Dashboard handles GET /api/v1/admin/stats
func (h *StatsHandler) Dashboard(c *gin.Context) {
	stats, err := h.statsService.Dashboard(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	response.Success(c, "dashboard stats", stats)
}
