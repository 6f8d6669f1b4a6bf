package api

import (
	"net/http"

	"github.com/Domenick1991/aviabooking/internal/service/status"
	"github.com/gin-gonic/gin"
)

type StatusHandler struct {
	service status.StatusUseCase
}

func NewStatusHandler(service status.StatusUseCase) *StatusHandler {
	return &StatusHandler{service: service}
}

func (h *StatusHandler) Register(router *gin.RouterGroup) {
	router.GET("/status", h.get)
}

func (h *StatusHandler) get(c *gin.Context) {
	report, err := h.service.Report(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, statusResponse{Status: report.Status, Database: report.Database})
		return
	}
	c.JSON(http.StatusOK, statusResponse{
		Status:   report.Status,
		Database: report.Database,
		Stats: &statsResponse{
			AirplanesCount: report.Stats.AirplanesCount,
			FlightsCount:   report.Stats.FlightsCount,
			BookingsCount:  report.Stats.BookingsCount,
		},
	})
}
