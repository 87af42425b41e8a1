package notifications

import (
	"context"
	"fmt"
	"time"

	"railres/internal/booking"
	"railres/internal/cancellation"
	"railres/internal/catalog"
	"railres/pkg/logger"

	"github.com/google/uuid"
)

// Dispatcher turns booking and cascade outcomes into bus messages. It
// implements booking.Notifier and cancellation.Notifier; publish failures
// are logged and swallowed so they cannot roll back a ticket.
type Dispatcher struct {
	producer Producer
	tickets  booking.Repository
	log      *logger.Logger
}

// NewDispatcher creates a new notification dispatcher
func NewDispatcher(producer Producer, tickets booking.Repository, log *logger.Logger) *Dispatcher {
	return &Dispatcher{producer: producer, tickets: tickets, log: log}
}

// TicketBooked implements booking.Notifier
func (d *Dispatcher) TicketBooked(ctx context.Context, ticket *booking.Ticket, facts *catalog.JourneyFacts) {
	body := fmt.Sprintf(
		"Your booking %s on train %d %s (%s -> %s, departing %s) is %s. Total fare: %.2f.",
		ticket.PNR, facts.TrainNumber, facts.TrainName, facts.SourceCode, facts.DestCode,
		facts.DepartureAt.Format("02 Jan 2006 15:04"), ticket.Status, ticket.TotalFare)

	d.publish(ctx, &Message{
		ID:        uuid.New(),
		Type:      EventTicketBooked,
		PNR:       ticket.PNR,
		Recipient: ticket.ContactEmail,
		Subject:   fmt.Sprintf("Booking %s confirmed", ticket.PNR),
		Body:      body,
		AttachQR:  true,
		CreatedAt: time.Now(),
	})
}

// TicketCancelled implements cancellation.Notifier
func (d *Dispatcher) TicketCancelled(ctx context.Context, ticket *booking.Ticket, record *cancellation.CancellationRecord) {
	body := fmt.Sprintf(
		"%d passenger(s) on ticket %s have been cancelled. Refund: %.2f, cancellation charges: %.2f. Your refund is %s.",
		record.CancelledLineCount, ticket.PNR, record.RefundAmount, record.CancellationCharges, record.RefundStatus)

	d.publish(ctx, &Message{
		ID:        uuid.New(),
		Type:      EventTicketCancelled,
		PNR:       ticket.PNR,
		Recipient: ticket.ContactEmail,
		Subject:   fmt.Sprintf("Cancellation confirmed for %s", ticket.PNR),
		Body:      body,
		CreatedAt: time.Now(),
	})
}

// LinesPromoted implements cancellation.Notifier. Promoted lines belong
// to other tickets, so each one's contact is resolved through its ticket.
func (d *Dispatcher) LinesPromoted(ctx context.Context, lines []booking.PassengerLine) {
	for i := range lines {
		line := &lines[i]
		ticket, err := d.tickets.GetTicketByID(ctx, line.TicketID)
		if err != nil {
			d.log.Error("failed to resolve ticket for promotion notice",
				"line_id", line.ID.String(), "error", err.Error())
			continue
		}

		var msgType EventType
		var subject, body string
		switch line.Status {
		case booking.LineConfirmed:
			msgType = EventRACConfirmed
			subject = fmt.Sprintf("Seat confirmed on %s", ticket.PNR)
			body = fmt.Sprintf("Good news: %s has been confirmed from RAC. Seat %d (%s, %s berth).",
				line.Name, line.SeatNumber, line.Coach, line.Berth)
		case booking.LineRAC:
			msgType = EventWaitlistPromoted
			subject = fmt.Sprintf("Waitlist promoted on %s", ticket.PNR)
			body = fmt.Sprintf("%s has moved off the waitlist to RAC position %d.",
				line.Name, line.QueuePosition)
		default:
			continue
		}

		d.publish(ctx, &Message{
			ID:        uuid.New(),
			Type:      msgType,
			PNR:       ticket.PNR,
			Recipient: ticket.ContactEmail,
			Subject:   subject,
			Body:      body,
			CreatedAt: time.Now(),
		})
	}
}

func (d *Dispatcher) publish(ctx context.Context, msg *Message) {
	if d.producer == nil {
		return
	}
	if err := d.producer.Publish(ctx, msg); err != nil {
		d.log.Error("failed to publish notification", "error", err.Error(),
			"type", string(msg.Type), "pnr", msg.PNR)
	}
}
