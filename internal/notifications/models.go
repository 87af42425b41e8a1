package notifications

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies what happened to a booking.
type EventType string

const (
	EventTicketBooked      EventType = "TICKET_BOOKED"
	EventTicketCancelled   EventType = "TICKET_CANCELLED"
	EventRACConfirmed      EventType = "RAC_CONFIRMED"
	EventWaitlistPromoted  EventType = "WAITLIST_PROMOTED"
)

// Message is the unit published to the notification topic. The consumer
// renders and delivers it by email; delivery state never feeds back into
// booking state.
type Message struct {
	ID          uuid.UUID `json:"id"`
	Type        EventType `json:"type"`
	PNR         string    `json:"pnr"`
	Recipient   string    `json:"recipient"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	AttachQR    bool      `json:"attach_qr"`
	CreatedAt   time.Time `json:"created_at"`
	RetryCount  int       `json:"retry_count"`
}
