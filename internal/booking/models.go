package booking

import (
	"time"

	"railres/internal/inventory"

	"github.com/google/uuid"
)

// Ticket is one booking transaction for a party of passengers on a
// journey/class. Never physically deleted, only status-flagged.
type Ticket struct {
	ID           uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PNR          string       `gorm:"type:varchar(12);unique;not null" json:"pnr"`
	JourneyID    uuid.UUID    `gorm:"type:uuid;index;not null" json:"journey_id"`
	ClassID      uuid.UUID    `gorm:"type:uuid;index;not null" json:"class_id"`
	Status       TicketStatus `gorm:"type:varchar(24);not null;default:'CONFIRMED'" json:"status"`
	TotalFare    float64      `gorm:"not null" json:"total_fare"`
	ContactEmail string       `gorm:"not null" json:"contact_email"`
	ContactPhone string       `json:"contact_phone"`
	BookedAt     time.Time    `gorm:"not null" json:"booked_at"`
	CancelledAt  *time.Time   `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Relationships
	Lines []PassengerLine `json:"lines,omitempty" gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE;"`
}

// PassengerLine is one traveler on a ticket. Journey and class are
// denormalized so queue scans do not join through tickets.
type PassengerLine struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TicketID        uuid.UUID       `gorm:"type:uuid;index;not null" json:"ticket_id"`
	JourneyID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_line_journey_class" json:"journey_id"`
	ClassID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_line_journey_class" json:"class_id"`
	Name            string          `gorm:"not null" json:"name"`
	Age             int             `gorm:"not null" json:"age"`
	Gender          string          `gorm:"type:varchar(8);not null" json:"gender"`
	BerthPreference inventory.Berth `gorm:"type:varchar(8)" json:"berth_preference,omitempty"`
	Status          LineStatus      `gorm:"type:varchar(12);not null" json:"status"`
	SeatNumber      int             `gorm:"default:0" json:"seat_number,omitempty"`
	Coach           string          `gorm:"type:varchar(6)" json:"coach,omitempty"`
	Berth           inventory.Berth `gorm:"type:varchar(8)" json:"berth,omitempty"`
	QueuePosition   int             `gorm:"default:0;index" json:"queue_position,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relationships
	Ticket *Ticket `json:"ticket,omitempty" gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE;"`
}

// TableName sets the table name for Ticket
func (Ticket) TableName() string {
	return "tickets"
}

// TableName sets the table name for PassengerLine
func (PassengerLine) TableName() string {
	return "passenger_lines"
}

// IsActive reports whether the line still holds inventory.
func (l *PassengerLine) IsActive() bool {
	return l.Status != LineCancelled
}

// Tier maps an active line's status to its inventory tier.
func (l *PassengerLine) Tier() inventory.Tier {
	switch l.Status {
	case LineConfirmed:
		return inventory.TierConfirmed
	case LineRAC:
		return inventory.TierRAC
	case LineWaitlisted:
		return inventory.TierWaitlisted
	}
	return ""
}

// DeriveTicketStatus computes the ticket-level status from its lines:
// CONFIRMED when every active line is confirmed, CANCELLED when no line
// is active, PARTIALLY_CONFIRMED otherwise.
func DeriveTicketStatus(lines []PassengerLine) TicketStatus {
	active := 0
	confirmed := 0
	for i := range lines {
		if lines[i].IsActive() {
			active++
			if lines[i].Status == LineConfirmed {
				confirmed++
			}
		}
	}
	switch {
	case active == 0:
		return TicketCancelled
	case confirmed == active:
		return TicketConfirmed
	default:
		return TicketPartiallyConfirmed
	}
}
