package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettleFunc executes the fund transfers for a booking transition. It
// receives the transition's open transaction: transfers journal onto it, so
// an error rolls back both the flag flip and every transfer already made.
type SettleFunc func(ctx context.Context, tx pgx.Tx, booking *domain.Booking) error

type BookingRepository interface {
	Book(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, flightID, bookingID int64) (*domain.Booking, error)
	CheckIn(ctx context.Context, flightID, bookingID int64, settle SettleFunc) (*domain.Booking, error)
	Cancel(ctx context.Context, flightID, bookingID int64, payout SettleFunc) (*domain.Booking, error)
	HasBooked(ctx context.Context, passenger string, flightID int64) (bool, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `flight_id, booking_id, passenger, seats, total_price, checked_in, cancelled, created_at, updated_at`

// Book decrements the flight's seat inventory and appends the booking record
// as one transaction. The flight row update takes the row lock, so the
// per-flight booking sequence is race-free.
func (r *PGBookingRepository) Book(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	res, err := tx.Exec(ctx, `UPDATE flights SET available_seats = available_seats - $2, updated_at = now()
		WHERE id=$1 AND NOT deleted AND active AND available_seats >= $2`, booking.FlightID, booking.Seats)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		var deleted, active bool
		err := tx.QueryRow(ctx, `SELECT deleted, active FROM flights WHERE id=$1`, booking.FlightID).Scan(&deleted, &active)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		return bookConflict(deleted, active)
	}

	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE flight_id=$1`, booking.FlightID).Scan(&booking.ID); err != nil {
		return err
	}

	if err := tx.QueryRow(ctx, `INSERT INTO bookings (flight_id, booking_id, passenger, seats, total_price, checked_in, cancelled)
		VALUES ($1, $2, $3, $4, $5, false, false)
		RETURNING created_at, updated_at`,
		booking.FlightID, booking.ID, booking.Passenger, booking.Seats, booking.TotalPrice).
		Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	// One-way review-eligibility flag, survives cancellation.
	if _, err := tx.Exec(ctx, `INSERT INTO flight_passengers (flight_id, passenger) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		booking.FlightID, booking.Passenger); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, flightID, bookingID int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE flight_id=$1 AND booking_id=$2`, flightID, bookingID)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// CheckIn flips the checked_in flag and runs settle while the transaction is
// still open. Commit happens only after every transfer succeeded, so a failed
// transfer leaves the booking untouched.
func (r *PGBookingRepository) CheckIn(ctx context.Context, flightID, bookingID int64, settle SettleFunc) (*domain.Booking, error) {
	return r.transition(ctx, flightID, bookingID, settle, func(ctx context.Context, tx pgx.Tx, b *domain.Booking) error {
		if _, err := tx.Exec(ctx, `UPDATE bookings SET checked_in=true, updated_at=now() WHERE flight_id=$1 AND booking_id=$2`, flightID, bookingID); err != nil {
			return err
		}
		b.CheckedIn = true
		return nil
	})
}

// Cancel flips the cancelled flag and returns the booking's seats to the
// flight, clamped so available_seats never exceeds total_seats even after a
// seat-total reset by update.
func (r *PGBookingRepository) Cancel(ctx context.Context, flightID, bookingID int64, payout SettleFunc) (*domain.Booking, error) {
	return r.transition(ctx, flightID, bookingID, payout, func(ctx context.Context, tx pgx.Tx, b *domain.Booking) error {
		if _, err := tx.Exec(ctx, `UPDATE bookings SET cancelled=true, updated_at=now() WHERE flight_id=$1 AND booking_id=$2`, flightID, bookingID); err != nil {
			return err
		}
		var available, total int
		if err := tx.QueryRow(ctx, `SELECT available_seats, total_seats FROM flights WHERE id=$1 FOR UPDATE`, flightID).Scan(&available, &total); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE flights SET available_seats=$2, updated_at=now() WHERE id=$1`, flightID, restoreSeats(available, b.Seats, total)); err != nil {
			return err
		}
		b.Cancelled = true
		return nil
	})
}

// restoreSeats returns the seat count after giving a cancelled booking's
// seats back, clamped to the flight's current seat total.
func restoreSeats(available, seats, total int) int {
	restored := available + seats
	if restored > total {
		return total
	}
	return restored
}

// bookConflict classifies a booking attempt that matched no bookable flight
// row. The flight row's state tells deleted, deactivated, and sold-out
// flights apart.
func bookConflict(deleted, active bool) error {
	if deleted {
		return domain.ErrNotFound
	}
	if !active {
		return domain.ErrFlightInactive
	}
	return domain.ErrInsufficientInventory
}

func (r *PGBookingRepository) transition(ctx context.Context, flightID, bookingID int64, settle SettleFunc, mutate func(context.Context, pgx.Tx, *domain.Booking) error) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE flight_id=$1 AND booking_id=$2 FOR UPDATE`, flightID, bookingID)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if b.Finalized() {
		return nil, domain.ErrAlreadyFinalized
	}

	if err := mutate(ctx, tx, &b); err != nil {
		return nil, err
	}
	if settle != nil {
		if err := settle(ctx, tx, &b); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking transition: %w", err)
	}
	return &b, nil
}

func (r *PGBookingRepository) HasBooked(ctx context.Context, passenger string, flightID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM flight_passengers WHERE flight_id=$1 AND passenger=$2)`, flightID, passenger).Scan(&exists)
	return exists, err
}

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(&b.FlightID, &b.ID, &b.Passenger, &b.Seats, &b.TotalPrice, &b.CheckedIn, &b.Cancelled, &b.CreatedAt, &b.UpdatedAt)
}

var _ BookingRepository = (*PGBookingRepository)(nil)
