package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/Domenick1991/flightledger/internal/kafka"
	"github.com/Domenick1991/flightledger/internal/logger"
	"github.com/Domenick1991/flightledger/internal/metrics"
	"github.com/Domenick1991/flightledger/internal/repository"
	"github.com/Domenick1991/flightledger/internal/service/access"
	"github.com/Domenick1991/flightledger/internal/service/settlement"
	"github.com/jackc/pgx/v5"
)

type BookingLedger interface {
	Book(ctx context.Context, input BookInput) (*domain.Booking, error)
	CheckIn(ctx context.Context, flightID, bookingID int64, caller string) (*domain.Booking, error)
	Refund(ctx context.Context, flightID, bookingID int64, caller string) (*domain.Booking, error)
	AddReview(ctx context.Context, flightID int64, text, author string) (*domain.Review, error)
	ListReviews(ctx context.Context, flightID int64) ([]domain.Review, error)
}

// Cache is the distributed lock keeping concurrent checkIn/refund calls on
// the same booking mutually exclusive across instances.
type Cache interface {
	AcquireBookingLock(ctx context.Context, flightID, bookingID int64) (bool, error)
	ReleaseBookingLock(ctx context.Context, flightID, bookingID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookInput struct {
	FlightID  int64  `json:"flight_id"`
	Seats     int    `json:"seats"`
	Paid      int64  `json:"paid"`
	Passenger string `json:"passenger"`
}

type LedgerService struct {
	bookings    repository.BookingRepository
	flights     repository.FlightRepository
	reviews     repository.ReviewRepository
	engine      *settlement.Engine
	cache       Cache
	producer    Producer
	eventsTopic string

	notificationsTopic string
	log                logger.Logger
	metrics            *metrics.Metrics

	// Serializes state transitions that trigger transfers: at most one
	// checkIn or refund may have transfers in flight at any time.
	mu sync.Mutex
}

type LedgerServiceOption func(*LedgerService)

func WithNotificationsTopic(topic string) LedgerServiceOption {
	return func(s *LedgerService) {
		s.notificationsTopic = topic
	}
}

func WithMetrics(m *metrics.Metrics) LedgerServiceOption {
	return func(s *LedgerService) {
		s.metrics = m
	}
}

func NewLedgerService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	reviews repository.ReviewRepository,
	engine *settlement.Engine,
	cache Cache,
	producer Producer,
	eventsTopic string,
	log logger.Logger,
	opts ...LedgerServiceOption,
) *LedgerService {
	service := &LedgerService{
		bookings:    bookings,
		flights:     flights,
		reviews:     reviews,
		engine:      engine,
		cache:       cache,
		producer:    producer,
		eventsTopic: eventsTopic,
		log:         log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Book reserves seats on a flight and appends the booking record. The seat
// decrement and the append commit as one transaction.
func (s *LedgerService) Book(ctx context.Context, input BookInput) (*domain.Booking, error) {
	if input.Seats <= 0 {
		return nil, fmt.Errorf("%w: seat count must be positive", domain.ErrInvalidInput)
	}
	if input.Passenger == "" {
		return nil, fmt.Errorf("%w: passenger is required", domain.ErrInvalidInput)
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	if flight.Deleted {
		return nil, domain.ErrNotFound
	}
	if !flight.Active {
		return nil, domain.ErrFlightInactive
	}
	if flight.AvailableSeats < input.Seats {
		return nil, domain.ErrInsufficientInventory
	}

	totalPrice := s.engine.Quote(input.Seats, flight.PricePerSeat)
	if input.Paid < totalPrice {
		return nil, fmt.Errorf("%w: need %d, got %d", domain.ErrInsufficientFunds, totalPrice, input.Paid)
	}

	booking := &domain.Booking{
		FlightID:   input.FlightID,
		Passenger:  input.Passenger,
		Seats:      input.Seats,
		TotalPrice: totalPrice,
	}
	if err := s.bookings.Book(ctx, booking); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	s.publish(ctx, kafka.EventBookingCreated, booking, input.Passenger)
	return booking, nil
}

// CheckIn finalizes a booking and settles it: seat revenue is split between
// operator and platform, the security fee goes back to the passenger. The
// flag flip and the transfers commit or roll back together.
func (s *LedgerService) CheckIn(ctx context.Context, flightID, bookingID int64, caller string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lockBooking(ctx, flightID, bookingID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		return nil, err
	}
	booking, err := s.bookings.GetByID(ctx, flightID, bookingID)
	if err != nil {
		return nil, err
	}
	if !access.IsBookingOwner(booking, caller) {
		return nil, domain.ErrUnauthorized
	}

	updated, err := s.bookings.CheckIn(ctx, flightID, bookingID, func(ctx context.Context, tx pgx.Tx, b *domain.Booking) error {
		return s.engine.PayoutCheckIn(ctx, tx, b, flight.Operator)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BookingsCheckedIn.Inc()
	}
	s.publish(ctx, kafka.EventBookingCheckedIn, updated, caller)
	return updated, nil
}

// Refund cancels a booking, returns its seats to inventory and pays the
// caller the total price minus the forfeited security fee. The passenger or
// the platform owner may refund; a checked-in booking cannot be refunded.
func (s *LedgerService) Refund(ctx context.Context, flightID, bookingID int64, caller string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lockBooking(ctx, flightID, bookingID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	booking, err := s.bookings.GetByID(ctx, flightID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Finalized() {
		return nil, domain.ErrAlreadyFinalized
	}
	if !access.IsBookingOwner(booking, caller) && !access.IsPlatformOwner(s.engine.PlatformOwner(), caller) {
		return nil, domain.ErrUnauthorized
	}

	updated, err := s.bookings.Cancel(ctx, flightID, bookingID, func(ctx context.Context, tx pgx.Tx, b *domain.Booking) error {
		return s.engine.PayoutRefund(ctx, tx, b, caller)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BookingsRefunded.Inc()
	}
	s.publish(ctx, kafka.EventBookingRefunded, updated, caller)
	return updated, nil
}

// AddReview appends a review for a flight. The author must have booked the
// flight at least once; cancelled bookings still qualify.
func (s *LedgerService) AddReview(ctx context.Context, flightID int64, text, author string) (*domain.Review, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: review text is required", domain.ErrInvalidInput)
	}
	if author == "" {
		return nil, fmt.Errorf("%w: author is required", domain.ErrInvalidInput)
	}
	if _, err := s.flights.GetByID(ctx, flightID); err != nil {
		return nil, err
	}

	booked, err := s.bookings.HasBooked(ctx, author, flightID)
	if err != nil {
		return nil, err
	}
	if !booked {
		return nil, domain.ErrUnauthorized
	}

	review := &domain.Review{
		FlightID: flightID,
		Author:   author,
		Text:     text,
	}
	if err := s.reviews.Add(ctx, review); err != nil {
		return nil, err
	}

	s.publishReview(ctx, review)
	return review, nil
}

func (s *LedgerService) ListReviews(ctx context.Context, flightID int64) ([]domain.Review, error) {
	return s.reviews.ListByFlight(ctx, flightID)
}

func (s *LedgerService) lockBooking(ctx context.Context, flightID, bookingID int64) (func(), error) {
	if s.cache == nil {
		return func() {}, nil
	}
	ok, err := s.cache.AcquireBookingLock(ctx, flightID, bookingID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrBookingBusy
	}
	return func() {
		if err := s.cache.ReleaseBookingLock(ctx, flightID, bookingID); err != nil {
			s.log.Warn("failed to release booking lock", "flight_id", flightID, "booking_id", bookingID, "error", err)
		}
	}, nil
}

func (s *LedgerService) publish(ctx context.Context, eventType string, booking *domain.Booking, caller string) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.LedgerEvent{
		Type:       eventType,
		FlightID:   booking.FlightID,
		BookingID:  booking.ID,
		Caller:     caller,
		Seats:      booking.Seats,
		TotalPrice: booking.TotalPrice,
		OccurredAt: time.Now(),
	}
	key := fmt.Sprintf("flight-%d-booking-%d", booking.FlightID, booking.ID)
	if err := s.producer.Publish(ctx, s.eventsTopic, key, event); err != nil {
		s.log.Warn("failed to publish booking event", "type", eventType, "key", key, "error", err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, key, event); err != nil {
			s.log.Warn("failed to publish notification", "type", eventType, "key", key, "error", err)
		}
	}
}

func (s *LedgerService) publishReview(ctx context.Context, review *domain.Review) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.LedgerEvent{
		Type:       kafka.EventReviewAdded,
		FlightID:   review.FlightID,
		Caller:     review.Author,
		OccurredAt: time.Now(),
	}
	key := fmt.Sprintf("flight-%d-review-%d", review.FlightID, review.ID)
	if err := s.producer.Publish(ctx, s.eventsTopic, key, event); err != nil {
		s.log.Warn("failed to publish review event", "key", key, "error", err)
	}
}

var _ BookingLedger = (*LedgerService)(nil)
