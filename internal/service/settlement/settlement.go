package settlement

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/Domenick1991/flightledger/internal/logger"
	"github.com/Domenick1991/flightledger/internal/metrics"
	"github.com/jackc/pgx/v5"
)

// Treasury is the outbound transfer primitive supplied by the hosting
// environment. The engine orchestrates movement, it never holds funds.
// Transfers execute on the caller's transaction so that a rolled-back
// booking transition also reverts every transfer it issued.
type Treasury interface {
	Transfer(ctx context.Context, tx pgx.Tx, to string, amount int64) error
}

// Engine computes fee splits and executes the transfers triggered by booking
// transitions. Tax percent and security fee are fixed for its lifetime.
type Engine struct {
	treasury      Treasury
	platformOwner string
	taxPercent    int
	securityFee   int64
	log           logger.Logger
	metrics       *metrics.Metrics
}

type EngineOption func(*Engine)

func WithMetrics(m *metrics.Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

func NewEngine(treasury Treasury, platformOwner string, taxPercent int, securityFee int64, log logger.Logger, opts ...EngineOption) *Engine {
	engine := &Engine{
		treasury:      treasury,
		platformOwner: platformOwner,
		taxPercent:    taxPercent,
		securityFee:   securityFee,
		log:           log,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

func (e *Engine) PlatformOwner() string {
	return e.platformOwner
}

func (e *Engine) SecurityFee() int64 {
	return e.securityFee
}

// Quote returns the total price of a booking: seats at the flight price plus
// the fixed security fee.
func (e *Engine) Quote(seats int, pricePerSeat int64) int64 {
	return int64(seats)*pricePerSeat + e.securityFee
}

// Split divides an amount between airline and platform. The platform takes
// floor(amount*taxPercent/100), the airline the remainder, so the two shares
// always sum to amount exactly.
func Split(amount int64, taxPercent int) (airlineShare, platformShare int64) {
	platformShare = amount * int64(taxPercent) / 100
	airlineShare = amount - platformShare
	return airlineShare, platformShare
}

// PayoutCheckIn settles a checked-in booking: the seat revenue is split
// between the flight operator and the platform owner, and the security fee
// goes back to the passenger. The three transfers sum to the booking's total
// price.
func (e *Engine) PayoutCheckIn(ctx context.Context, tx pgx.Tx, booking *domain.Booking, operator string) error {
	seatRevenue := booking.TotalPrice - e.securityFee
	airlineShare, platformShare := Split(seatRevenue, e.taxPercent)

	if err := e.transfer(ctx, tx, operator, airlineShare); err != nil {
		return err
	}
	if err := e.transfer(ctx, tx, e.platformOwner, platformShare); err != nil {
		return err
	}
	if err := e.transfer(ctx, tx, booking.Passenger, e.securityFee); err != nil {
		return err
	}

	e.log.Info("check-in settled",
		"flight_id", booking.FlightID,
		"booking_id", booking.ID,
		"airline_share", airlineShare,
		"platform_share", platformShare,
		"security_fee", e.securityFee,
	)
	return nil
}

// PayoutRefund pays the recipient the total price minus the forfeited
// security fee.
func (e *Engine) PayoutRefund(ctx context.Context, tx pgx.Tx, booking *domain.Booking, recipient string) error {
	amount := booking.TotalPrice - e.securityFee
	if err := e.transfer(ctx, tx, recipient, amount); err != nil {
		return err
	}

	e.log.Info("refund settled",
		"flight_id", booking.FlightID,
		"booking_id", booking.ID,
		"recipient", recipient,
		"amount", amount,
	)
	return nil
}

func (e *Engine) transfer(ctx context.Context, tx pgx.Tx, to string, amount int64) error {
	if amount == 0 {
		return nil
	}
	if err := e.treasury.Transfer(ctx, tx, to, amount); err != nil {
		if e.metrics != nil {
			e.metrics.ErrorsCount.WithLabelValues("transfer").Inc()
		}
		return fmt.Errorf("%w: pay %d to %s: %v", domain.ErrTransferFailed, amount, to, err)
	}
	if e.metrics != nil {
		e.metrics.TransfersExecuted.Inc()
		e.metrics.TransferredAmount.Add(float64(amount))
	}
	return nil
}
