// Package access holds the ownership predicates consulted before any
// catalog or ledger mutation. Stateless by design.
package access

import "github.com/Domenick1991/flightledger/internal/domain"

func IsFlightOwner(flight *domain.Flight, caller string) bool {
	return flight != nil && caller != "" && flight.Operator == caller
}

func IsBookingOwner(booking *domain.Booking, caller string) bool {
	return booking != nil && caller != "" && booking.Passenger == caller
}

func IsPlatformOwner(platformOwner, caller string) bool {
	return platformOwner != "" && platformOwner == caller
}
