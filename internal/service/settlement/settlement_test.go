package settlement

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/Domenick1991/flightledger/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockTreasury struct {
	mock.Mock
}

func (m *MockTreasury) Transfer(ctx context.Context, tx pgx.Tx, to string, amount int64) error {
	args := m.Called(ctx, tx, to, amount)
	return args.Error(0)
}

type stubTx struct {
	pgx.Tx
}

func TestSplit_SharesAlwaysSumToAmount(t *testing.T) {
	for taxPercent := 0; taxPercent <= 100; taxPercent++ {
		airline, platform := Split(300, taxPercent)
		assert.Equal(t, int64(300), airline+platform, "taxPercent=%d", taxPercent)
		assert.GreaterOrEqual(t, airline, int64(0))
		assert.GreaterOrEqual(t, platform, int64(0))
	}
}

func TestSplit_FloorsPlatformShare(t *testing.T) {
	// 305 * 10 / 100 = 30.5, floored to 30
	airline, platform := Split(305, 10)
	assert.Equal(t, int64(30), platform)
	assert.Equal(t, int64(275), airline)
}

func TestSplit_Boundaries(t *testing.T) {
	airline, platform := Split(300, 0)
	assert.Equal(t, int64(300), airline)
	assert.Equal(t, int64(0), platform)

	airline, platform = Split(300, 100)
	assert.Equal(t, int64(0), airline)
	assert.Equal(t, int64(300), platform)
}

func TestEngine_Quote(t *testing.T) {
	engine := NewEngine(&MockTreasury{}, "platform", 10, 5, logger.NewNop())
	assert.Equal(t, int64(305), engine.Quote(3, 100))
}

// 3 seats at 100 with fee 5 and tax 10: operator gets 270, platform 30,
// the passenger gets the 5 back; the three transfers sum to the 305 paid.
func TestEngine_PayoutCheckIn(t *testing.T) {
	mockTreasury := &MockTreasury{}
	engine := NewEngine(mockTreasury, "platform", 10, 5, logger.NewNop())

	ctx := context.Background()
	booking := &domain.Booking{FlightID: 1, ID: 0, Passenger: "alice", Seats: 3, TotalPrice: 305}

	mockTreasury.On("Transfer", ctx, mock.Anything, "operator", int64(270)).Return(nil).Once()
	mockTreasury.On("Transfer", ctx, mock.Anything, "platform", int64(30)).Return(nil).Once()
	mockTreasury.On("Transfer", ctx, mock.Anything, "alice", int64(5)).Return(nil).Once()

	err := engine.PayoutCheckIn(ctx, nil, booking, "operator")

	assert.NoError(t, err)
	mockTreasury.AssertExpectations(t)
}

// Transfers ride the booking transition's transaction, so a rollback of the
// transition also reverts every journal entry the payout wrote.
func TestEngine_PayoutCheckIn_ForwardsCallerTransaction(t *testing.T) {
	mockTreasury := &MockTreasury{}
	engine := NewEngine(mockTreasury, "platform", 10, 5, logger.NewNop())

	ctx := context.Background()
	tx := &stubTx{}
	booking := &domain.Booking{FlightID: 1, Passenger: "alice", Seats: 3, TotalPrice: 305}

	mockTreasury.On("Transfer", ctx, tx, mock.Anything, mock.Anything).Return(nil).Times(3)

	err := engine.PayoutCheckIn(ctx, tx, booking, "operator")

	assert.NoError(t, err)
	mockTreasury.AssertExpectations(t)
}

func TestEngine_PayoutCheckIn_PayoutsReconcileForEveryTaxPercent(t *testing.T) {
	ctx := context.Background()
	booking := &domain.Booking{FlightID: 1, Passenger: "alice", Seats: 3, TotalPrice: 305}

	for taxPercent := 0; taxPercent <= 100; taxPercent++ {
		mockTreasury := &MockTreasury{}
		engine := NewEngine(mockTreasury, "platform", taxPercent, 5, logger.NewNop())

		var total int64
		mockTreasury.On("Transfer", ctx, mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				total += args.Get(3).(int64)
			}).
			Return(nil)

		err := engine.PayoutCheckIn(ctx, nil, booking, "operator")
		assert.NoError(t, err)
		assert.Equal(t, booking.TotalPrice, total, "taxPercent=%d", taxPercent)
	}
}

func TestEngine_PayoutCheckIn_TransferFailure(t *testing.T) {
	mockTreasury := &MockTreasury{}
	engine := NewEngine(mockTreasury, "platform", 10, 5, logger.NewNop())

	ctx := context.Background()
	booking := &domain.Booking{FlightID: 1, Passenger: "alice", Seats: 3, TotalPrice: 305}

	mockTreasury.On("Transfer", ctx, mock.Anything, "operator", int64(270)).Return(errors.New("wire rejected")).Once()

	err := engine.PayoutCheckIn(ctx, nil, booking, "operator")

	assert.ErrorIs(t, err, domain.ErrTransferFailed)
	// No further transfers after the first failure.
	mockTreasury.AssertNumberOfCalls(t, "Transfer", 1)
}

func TestEngine_PayoutRefund(t *testing.T) {
	mockTreasury := &MockTreasury{}
	engine := NewEngine(mockTreasury, "platform", 10, 5, logger.NewNop())

	ctx := context.Background()
	booking := &domain.Booking{FlightID: 1, Passenger: "alice", Seats: 3, TotalPrice: 305}

	// Security fee is forfeited on cancellation.
	mockTreasury.On("Transfer", ctx, mock.Anything, "alice", int64(300)).Return(nil).Once()

	err := engine.PayoutRefund(ctx, nil, booking, "alice")

	assert.NoError(t, err)
	mockTreasury.AssertExpectations(t)
}

func TestEngine_PayoutRefund_TransferFailure(t *testing.T) {
	mockTreasury := &MockTreasury{}
	engine := NewEngine(mockTreasury, "platform", 10, 5, logger.NewNop())

	ctx := context.Background()
	booking := &domain.Booking{FlightID: 1, Passenger: "alice", Seats: 3, TotalPrice: 305}

	mockTreasury.On("Transfer", ctx, mock.Anything, "alice", int64(300)).Return(errors.New("wire rejected")).Once()

	err := engine.PayoutRefund(ctx, nil, booking, "alice")

	assert.ErrorIs(t, err, domain.ErrTransferFailed)
}
