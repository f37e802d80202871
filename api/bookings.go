package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/Domenick1991/flightledger/internal/service/ledger"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service ledger.BookingLedger
}

type bookRequest struct {
	Seats int   `json:"seats"`
	Paid  int64 `json:"paid"`
}

type bookingResponse struct {
	FlightID   int64  `json:"flight_id"`
	BookingID  int64  `json:"booking_id"`
	Passenger  string `json:"passenger"`
	Seats      int    `json:"seats"`
	TotalPrice int64  `json:"total_price"`
	CheckedIn  bool   `json:"checked_in"`
	Cancelled  bool   `json:"cancelled"`
	CreatedAt  string `json:"created_at"`
}

func NewBookingHandler(service ledger.BookingLedger) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/:id/bookings", h.book)
	router.POST("/:id/bookings/:bookingId/checkin", h.checkIn)
	router.POST("/:id/bookings/:bookingId/refund", h.refund)
}

func (h *BookingHandler) book(c *gin.Context) {
	flightID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight id"})
		return
	}
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.service.Book(c.Request.Context(), ledger.BookInput{
		FlightID:  flightID,
		Seats:     req.Seats,
		Paid:      req.Paid,
		Passenger: caller(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(booking))
}

func (h *BookingHandler) checkIn(c *gin.Context) {
	flightID, bookingID, ok := bookingIDs(c)
	if !ok {
		return
	}
	booking, err := h.service.CheckIn(c.Request.Context(), flightID, bookingID, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) refund(c *gin.Context) {
	flightID, bookingID, ok := bookingIDs(c)
	if !ok {
		return
	}
	booking, err := h.service.Refund(c.Request.Context(), flightID, bookingID, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func bookingIDs(c *gin.Context) (flightID, bookingID int64, ok bool) {
	flightID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight id"})
		return 0, 0, false
	}
	bookingID, err = strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return 0, 0, false
	}
	return flightID, bookingID, true
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		FlightID:   b.FlightID,
		BookingID:  b.ID,
		Passenger:  b.Passenger,
		Seats:      b.Seats,
		TotalPrice: b.TotalPrice,
		CheckedIn:  b.CheckedIn,
		Cancelled:  b.Cancelled,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
}
