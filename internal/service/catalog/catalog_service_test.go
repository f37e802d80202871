package catalog

import (
	"context"
	"testing"

	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/Domenick1991/flightledger/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFlightRepository) ListActive(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Audit(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func validInput() FlightInput {
	return FlightInput{
		FlightNumber: "SU100",
		Departure:    "SVO",
		Arrival:      "LED",
		Date:         "2026-09-01",
		TotalSeats:   10,
		PricePerSeat: 100,
	}
}

func newService(repo *MockFlightRepository, producer *MockProducer) *CatalogService {
	return NewCatalogService(repo, producer, "ledger_events", logger.NewNop())
}

func TestCatalogService_Create_Success(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockProducer := &MockProducer{}
	service := newService(mockRepo, mockProducer)

	ctx := context.Background()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Flight")).Return(nil).Once()
	mockProducer.On("Publish", ctx, "ledger_events", mock.Anything, mock.Anything).Return(nil).Once()

	flight, err := service.Create(ctx, validInput(), "operator")

	assert.NoError(t, err)
	assert.Equal(t, "operator", flight.Operator)
	assert.Equal(t, 10, flight.AvailableSeats)
	assert.True(t, flight.Active)
	assert.False(t, flight.Deleted)
	mockRepo.AssertExpectations(t)
}

func TestCatalogService_Create_EmptyStrings(t *testing.T) {
	service := newService(&MockFlightRepository{}, &MockProducer{})

	for _, mutate := range []func(*FlightInput){
		func(in *FlightInput) { in.FlightNumber = "" },
		func(in *FlightInput) { in.Departure = "" },
		func(in *FlightInput) { in.Arrival = "" },
		func(in *FlightInput) { in.Date = "" },
	} {
		input := validInput()
		mutate(&input)
		_, err := service.Create(context.Background(), input, "operator")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestCatalogService_Create_ZeroSeatsOrPrice(t *testing.T) {
	service := newService(&MockFlightRepository{}, &MockProducer{})

	input := validInput()
	input.TotalSeats = 0
	_, err := service.Create(context.Background(), input, "operator")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	input = validInput()
	input.PricePerSeat = 0
	_, err = service.Create(context.Background(), input, "operator")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Updating seat totals resets availability without reconciling outstanding
// bookings. Surprising but intentional; refunds clamp against the new total.
func TestCatalogService_Update_ResetsAvailableSeats(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockProducer := &MockProducer{}
	service := newService(mockRepo, mockProducer)

	ctx := context.Background()
	stored := &domain.Flight{ID: 1, FlightNumber: "SU100", Departure: "SVO", Arrival: "LED", Date: "2026-09-01",
		TotalSeats: 10, AvailableSeats: 4, PricePerSeat: 100, Operator: "operator", Active: true}

	mockRepo.On("GetByID", ctx, int64(1)).Return(stored, nil).Once()
	mockRepo.On("Update", ctx, mock.MatchedBy(func(f *domain.Flight) bool {
		return f.TotalSeats == 20 && f.AvailableSeats == 20
	})).Return(nil).Once()
	mockProducer.On("Publish", ctx, "ledger_events", mock.Anything, mock.Anything).Return(nil).Once()

	input := validInput()
	input.TotalSeats = 20
	flight, err := service.Update(ctx, 1, input, "operator")

	assert.NoError(t, err)
	assert.Equal(t, 20, flight.AvailableSeats)
	mockRepo.AssertExpectations(t)
}

func TestCatalogService_Update_Unauthorized(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newService(mockRepo, &MockProducer{})

	ctx := context.Background()
	stored := &domain.Flight{ID: 1, Operator: "operator", Active: true, TotalSeats: 10, AvailableSeats: 10}
	mockRepo.On("GetByID", ctx, int64(1)).Return(stored, nil).Once()

	_, err := service.Update(ctx, 1, validInput(), "mallory")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCatalogService_Update_DeletedFlight(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newService(mockRepo, &MockProducer{})

	ctx := context.Background()
	stored := &domain.Flight{ID: 1, Operator: "operator", Deleted: true}
	mockRepo.On("GetByID", ctx, int64(1)).Return(stored, nil).Once()

	_, err := service.Update(ctx, 1, validInput(), "operator")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogService_Delete_Success(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockProducer := &MockProducer{}
	service := newService(mockRepo, mockProducer)

	ctx := context.Background()
	stored := &domain.Flight{ID: 1, Operator: "operator", Active: true}
	mockRepo.On("GetByID", ctx, int64(1)).Return(stored, nil).Once()
	mockRepo.On("Delete", ctx, int64(1)).Return(nil).Once()
	mockProducer.On("Publish", ctx, "ledger_events", mock.Anything, mock.Anything).Return(nil).Once()

	err := service.Delete(ctx, 1, "operator")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// Deletion is permanent: a second delete sees the deleted flag and reports
// not found.
func TestCatalogService_Delete_Twice(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newService(mockRepo, &MockProducer{})

	ctx := context.Background()
	stored := &domain.Flight{ID: 1, Operator: "operator", Deleted: true}
	mockRepo.On("GetByID", ctx, int64(1)).Return(stored, nil).Once()

	err := service.Delete(ctx, 1, "operator")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogService_Get_ReturnsDeletedFlight(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newService(mockRepo, &MockProducer{})

	ctx := context.Background()
	stored := &domain.Flight{ID: 1, FlightNumber: "SU100", Operator: "operator", Deleted: true}
	mockRepo.On("GetByID", ctx, int64(1)).Return(stored, nil).Once()

	flight, err := service.Get(ctx, 1)

	assert.NoError(t, err)
	assert.True(t, flight.Deleted)
}

func TestCatalogService_Get_UnknownID(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newService(mockRepo, &MockProducer{})

	ctx := context.Background()
	mockRepo.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrNotFound).Once()

	_, err := service.Get(ctx, 99)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogService_ListActive(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newService(mockRepo, &MockProducer{})

	ctx := context.Background()
	flights := []domain.Flight{
		{ID: 1, FlightNumber: "SU100", Active: true},
		{ID: 3, FlightNumber: "SU300", Active: true},
	}
	mockRepo.On("ListActive", ctx).Return(flights, nil).Once()

	got, err := service.ListActive(ctx)

	assert.NoError(t, err)
	assert.Len(t, got, 2)
}
