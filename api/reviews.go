package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/flightledger/internal/service/ledger"
	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	service ledger.BookingLedger
}

type addReviewRequest struct {
	Text string `json:"text"`
}

func NewReviewHandler(service ledger.BookingLedger) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) Register(router *gin.RouterGroup) {
	router.POST("/:id/reviews", h.add)
	router.GET("/:id/reviews", h.list)
}

func (h *ReviewHandler) add(c *gin.Context) {
	flightID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight id"})
		return
	}
	var req addReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.service.AddReview(c.Request.Context(), flightID, req.Text, caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) list(c *gin.Context) {
	flightID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight id"})
		return
	}
	reviews, err := h.service.ListReviews(c.Request.Context(), flightID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}
