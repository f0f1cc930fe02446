package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicedesk/admin-api/internal/core/ports"
)

type StatsHandler struct {
	service ports.ResourceService
}

func NewStatsHandler(service ports.ResourceService) *StatsHandler {
	return &StatsHandler{service: service}
}

// OrderStats aggregates ticketed orders into coarse status buckets.
//
// @Summary      Ticketed order counts by status bucket
// @Tags         orders
// @Produce      json
// @Success      200  {object}  ports.OrderStats
// @Failure      403  {object}  map[string]string
// @Router       /order_stats [get]
func (h *StatsHandler) OrderStats(c echo.Context) error {
	sess, err := sessionFrom(c)
	if err != nil {
		return err
	}

	stats, err := h.service.OrderStats(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
