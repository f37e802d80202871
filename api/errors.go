package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/gin-gonic/gin"
)

// callerHeader carries the caller identity. Authentication beyond caller
// equality is handled upstream.
const callerHeader = "X-Caller"

func caller(c *gin.Context) string {
	return c.GetHeader(callerHeader)
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrFlightInactive),
		errors.Is(err, domain.ErrAlreadyFinalized),
		errors.Is(err, domain.ErrInsufficientInventory),
		errors.Is(err, domain.ErrBookingBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTransferFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
