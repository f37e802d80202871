package domain

import "time"

type Review struct {
	ID        int64
	FlightID  int64
	Author    string
	Text      string
	CreatedAt time.Time
}
