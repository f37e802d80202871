package access

import (
	"testing"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestIsFlightOwner(t *testing.T) {
	flight := &domain.Flight{ID: 1, Operator: "operator"}

	assert.True(t, IsFlightOwner(flight, "operator"))
	assert.False(t, IsFlightOwner(flight, "mallory"))
	assert.False(t, IsFlightOwner(flight, ""))
	assert.False(t, IsFlightOwner(nil, "operator"))
}

func TestIsBookingOwner(t *testing.T) {
	booking := &domain.Booking{FlightID: 1, Passenger: "alice"}

	assert.True(t, IsBookingOwner(booking, "alice"))
	assert.False(t, IsBookingOwner(booking, "bob"))
	assert.False(t, IsBookingOwner(booking, ""))
	assert.False(t, IsBookingOwner(nil, "alice"))
}

func TestIsPlatformOwner(t *testing.T) {
	assert.True(t, IsPlatformOwner("platform", "platform"))
	assert.False(t, IsPlatformOwner("platform", "mallory"))
	assert.False(t, IsPlatformOwner("", ""))
}
