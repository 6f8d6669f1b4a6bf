package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/aviabooking/internal/kafka"
)

// Notifier turns booking events into passenger messages and writes them to its logger.
type Notifier struct {
	logger *log.Logger
}

func NewNotifier(logger *log.Logger) *Notifier {
	if logger == nil {
		logger = log.Default()
	}
	return &Notifier{logger: logger}
}

func (n *Notifier) Send(_ context.Context, event kafka.BookingEvent) error {
	msg, ok := Message(event)
	if !ok {
		n.logger.Printf("notify: skip event type=%s booking=%s", event.Type, event.BookingID)
		return nil
	}
	n.logger.Printf("notify: passenger=%q booking=%s %s", event.PassengerName, event.BookingID, msg)
	return nil
}

// Message renders the passenger-facing text for event. ok is false for unknown event types.
func Message(event kafka.BookingEvent) (string, bool) {
	when := event.DepartureTime.Format(time.DateTime)
	switch event.Type {
	case kafka.EventBookingCreated:
		return fmt.Sprintf("your seat to %s departing %s is booked", event.Destination, when), true
	case kafka.EventBookingDeleted:
		return fmt.Sprintf("your booking to %s departing %s was cancelled", event.Destination, when), true
	case kafka.EventBookingTransferred:
		return fmt.Sprintf("your booking was moved from flight %s to flight %s to %s departing %s",
			event.PreviousFlightID, event.FlightID, event.Destination, when), true
	default:
		return "", false
	}
}
