package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id int64) error
	ListActive(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Audit(ctx context.Context) ([]domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, departure, arrival, date, total_seats, available_seats, price_per_seat, operator, active, deleted, created_at, updated_at`

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	row := r.db.QueryRow(ctx, `INSERT INTO flights (flight_number, departure, arrival, date, total_seats, available_seats, price_per_seat, operator, active, deleted)
		VALUES ($1, $2, $3, $4, $5, $5, $6, $7, true, false)
		RETURNING id, created_at, updated_at`,
		flight.FlightNumber, flight.Departure, flight.Arrival, flight.Date, flight.TotalSeats, flight.PricePerSeat, flight.Operator)
	if err := row.Scan(&flight.ID, &flight.CreatedAt, &flight.UpdatedAt); err != nil {
		return fmt.Errorf("insert flight: %w", err)
	}
	flight.AvailableSeats = flight.TotalSeats
	flight.Active = true
	flight.Deleted = false
	return nil
}

// Update resets available_seats to the new total. Outstanding bookings are
// not reconciled; refunds clamp the restore against total_seats.
func (r *PGFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	res, err := r.db.Exec(ctx, `UPDATE flights SET departure=$2, arrival=$3, date=$4, total_seats=$5, available_seats=$5, price_per_seat=$6, updated_at=now()
		WHERE id=$1 AND NOT deleted`,
		flight.ID, flight.Departure, flight.Arrival, flight.Date, flight.TotalSeats, flight.PricePerSeat)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `UPDATE flights SET deleted=true, updated_at=now() WHERE id=$1 AND NOT deleted`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGFlightRepository) ListActive(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights WHERE NOT deleted AND active ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// Audit returns flights whose seat counters escaped their bounds.
func (r *PGFlightRepository) Audit(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights WHERE available_seats < 0 OR available_seats > total_seats ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var violations []domain.Flight
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		violations = append(violations, f)
	}
	return violations, rows.Err()
}

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.ID, &f.FlightNumber, &f.Departure, &f.Arrival, &f.Date, &f.TotalSeats, &f.AvailableSeats, &f.PricePerSeat, &f.Operator, &f.Active, &f.Deleted, &f.CreatedAt, &f.UpdatedAt)
}

var _ FlightRepository = (*PGFlightRepository)(nil)
