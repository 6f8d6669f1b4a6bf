package api

import (
	"net/http"

	"github.com/Domenick1991/aviabooking/internal/service/airplanes"
	"github.com/gin-gonic/gin"
)

type AirplaneHandler struct {
	service airplanes.AirplaneUseCase
}

func NewAirplaneHandler(service airplanes.AirplaneUseCase) *AirplaneHandler {
	return &AirplaneHandler{service: service}
}

func (h *AirplaneHandler) Register(router *gin.RouterGroup) {
	router.GET("/airplanes", h.list)
	router.POST("/airplanes", h.create)
}

func (h *AirplaneHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]airplaneResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAirplaneResponse(a))
	}
	c.JSON(http.StatusOK, out)
}

func (h *AirplaneHandler) create(c *gin.Context) {
	var req airplanes.AirplaneInput
	if !bindJSON(c, &req) {
		return
	}
	airplane, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createdResponse{ID: airplane.ID, Message: "airplane created"})
}
