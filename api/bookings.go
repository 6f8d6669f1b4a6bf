package api

import (
	"net/http"

	"github.com/Domenick1991/aviabooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights/:id/bookings", h.list)
	router.POST("/flights/:id/bookings", h.create)
	router.GET("/flights/:id/available-transfer", h.candidates)
	router.DELETE("/bookings/:id", h.delete)
	router.POST("/bookings/:id/transfer", h.transfer)
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListByFlight(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(bookings))
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.service.CreateBooking(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createdResponse{ID: created.ID, Message: "booking created"})
}

func (h *BookingHandler) delete(c *gin.Context) {
	if err := h.service.DeleteBooking(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "booking deleted"})
}

func (h *BookingHandler) transfer(c *gin.Context) {
	var req booking.TransferInput
	if !bindJSON(c, &req) {
		return
	}
	transfer, err := h.service.TransferBooking(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, transferResponse{
		Message:       "booking transferred",
		BookingID:     transfer.BookingID,
		OldFlightID:   transfer.OldFlightID,
		NewFlightID:   transfer.NewFlightID,
		PassengerName: transfer.PassengerName,
	})
}

func (h *BookingHandler) candidates(c *gin.Context) {
	list, err := h.service.TransferCandidates(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponses(list))
}
