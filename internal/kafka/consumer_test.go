package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeEvent(t *testing.T) {
	event, err := decodeEvent([]byte(`{"type":"booking_checked_in","flight_id":1,"booking_id":0,"caller":"alice","seats":3,"total_price":305}`))

	assert.NoError(t, err)
	assert.Equal(t, EventBookingCheckedIn, event.Type)
	assert.Equal(t, int64(1), event.FlightID)
	assert.Equal(t, int64(305), event.TotalPrice)
}

func TestDecodeEvent_Malformed(t *testing.T) {
	_, err := decodeEvent([]byte("not json"))

	assert.Error(t, err)
}
