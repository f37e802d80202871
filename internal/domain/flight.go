package domain

import "time"

type Flight struct {
	ID             int64
	FlightNumber   string
	Departure      string
	Arrival        string
	Date           string
	TotalSeats     int
	AvailableSeats int
	PricePerSeat   int64
	Operator       string
	Active         bool
	Deleted        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
