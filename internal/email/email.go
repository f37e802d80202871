package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightledger/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.LedgerEvent) error {
	fmt.Printf("notify %s about %s for flight %d booking %d\n", event.Caller, event.Type, event.FlightID, event.BookingID)
	return nil
}
