package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/Domenick1991/flightledger/internal/kafka"
	"github.com/Domenick1991/flightledger/internal/logger"
	"github.com/Domenick1991/flightledger/internal/repository"
	"github.com/Domenick1991/flightledger/internal/service/access"
)

type FlightCatalog interface {
	Create(ctx context.Context, input FlightInput, caller string) (*domain.Flight, error)
	Update(ctx context.Context, id int64, input FlightInput, caller string) (*domain.Flight, error)
	Delete(ctx context.Context, id int64, caller string) error
	ListActive(ctx context.Context) ([]domain.Flight, error)
	Get(ctx context.Context, id int64) (*domain.Flight, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type FlightInput struct {
	FlightNumber string `json:"flight_number"`
	Departure    string `json:"departure"`
	Arrival      string `json:"arrival"`
	Date         string `json:"date"`
	TotalSeats   int    `json:"total_seats"`
	PricePerSeat int64  `json:"price_per_seat"`
}

type CatalogService struct {
	flights     repository.FlightRepository
	producer    Producer
	eventsTopic string
	log         logger.Logger
}

func NewCatalogService(flights repository.FlightRepository, producer Producer, eventsTopic string, log logger.Logger) *CatalogService {
	return &CatalogService{
		flights:     flights,
		producer:    producer,
		eventsTopic: eventsTopic,
		log:         log,
	}
}

func (s *CatalogService) Create(ctx context.Context, input FlightInput, caller string) (*domain.Flight, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if caller == "" {
		return nil, fmt.Errorf("%w: operator is required", domain.ErrInvalidInput)
	}

	flight := &domain.Flight{
		FlightNumber: input.FlightNumber,
		Departure:    input.Departure,
		Arrival:      input.Arrival,
		Date:         input.Date,
		TotalSeats:   input.TotalSeats,
		PricePerSeat: input.PricePerSeat,
		Operator:     caller,
	}
	if err := s.flights.Create(ctx, flight); err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventFlightCreated, flight.ID, caller)
	return flight, nil
}

// Update resets available seats to the new total without reconciling
// outstanding bookings. Flight number never changes after creation.
func (s *CatalogService) Update(ctx context.Context, id int64, input FlightInput, caller string) (*domain.Flight, error) {
	flight, err := s.flights.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if flight.Deleted {
		return nil, domain.ErrNotFound
	}
	if !access.IsFlightOwner(flight, caller) {
		return nil, domain.ErrUnauthorized
	}
	if input.TotalSeats <= 0 || input.PricePerSeat <= 0 {
		return nil, fmt.Errorf("%w: total seats and price per seat must be positive", domain.ErrInvalidInput)
	}

	flight.Departure = input.Departure
	flight.Arrival = input.Arrival
	flight.Date = input.Date
	flight.TotalSeats = input.TotalSeats
	flight.AvailableSeats = input.TotalSeats
	flight.PricePerSeat = input.PricePerSeat
	if err := s.flights.Update(ctx, flight); err != nil {
		return nil, err
	}
	flight.UpdatedAt = time.Now()

	s.publish(ctx, kafka.EventFlightUpdated, flight.ID, caller)
	return flight, nil
}

// Delete is permanent; there is no undelete. Existing bookings are untouched.
func (s *CatalogService) Delete(ctx context.Context, id int64, caller string) error {
	flight, err := s.flights.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if flight.Deleted {
		return domain.ErrNotFound
	}
	if !access.IsFlightOwner(flight, caller) {
		return domain.ErrUnauthorized
	}
	if err := s.flights.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, kafka.EventFlightDeleted, id, caller)
	return nil
}

// ListActive always reads the store directly so listings reflect the latest
// committed state.
func (s *CatalogService) ListActive(ctx context.Context) ([]domain.Flight, error) {
	return s.flights.ListActive(ctx)
}

// Get returns the stored record verbatim, deleted and inactive flights
// included. Unknown ids are a NotFound error.
func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.flights.GetByID(ctx, id)
}

func validateInput(input FlightInput) error {
	if input.FlightNumber == "" || input.Departure == "" || input.Arrival == "" || input.Date == "" {
		return fmt.Errorf("%w: flight number, departure, arrival and date are required", domain.ErrInvalidInput)
	}
	if input.TotalSeats <= 0 || input.PricePerSeat <= 0 {
		return fmt.Errorf("%w: total seats and price per seat must be positive", domain.ErrInvalidInput)
	}
	return nil
}

func (s *CatalogService) publish(ctx context.Context, eventType string, flightID int64, caller string) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.LedgerEvent{
		Type:       eventType,
		FlightID:   flightID,
		Caller:     caller,
		OccurredAt: time.Now(),
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, fmt.Sprintf("flight-%d", flightID), event); err != nil {
		s.log.Warn("failed to publish flight event", "type", eventType, "flight_id", flightID, "error", err)
	}
}

var _ FlightCatalog = (*CatalogService)(nil)
