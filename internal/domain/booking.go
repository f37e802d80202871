package domain

import "time"

type Booking struct {
	// ID is a sequence number scoped to the flight, starting at 0.
	ID         int64
	FlightID   int64
	Passenger  string
	Seats      int
	TotalPrice int64
	CheckedIn  bool
	Cancelled  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Finalized reports whether the booking reached a terminal state.
func (b *Booking) Finalized() bool {
	return b.CheckedIn || b.Cancelled
}
