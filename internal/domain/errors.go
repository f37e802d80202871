package domain

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrFlightInactive        = errors.New("flight is not active")
	ErrInsufficientInventory = errors.New("not enough available seats")
	ErrInsufficientFunds     = errors.New("paid amount does not cover total price")
	ErrAlreadyFinalized      = errors.New("booking is already finalized")
	ErrTransferFailed        = errors.New("fund transfer failed")
	// ErrBookingBusy is returned when another checkIn/refund on the same
	// booking still has transfers in flight.
	ErrBookingBusy = errors.New("booking operation already in flight")
)
