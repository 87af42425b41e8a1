package booking

import (
	"railres/internal/inventory"

	"github.com/google/uuid"
)

// PassengerInput describes one traveler in a booking request
type PassengerInput struct {
	Name            string          `json:"name" binding:"required,min=2,max=80"`
	Age             int             `json:"age" binding:"required,min=1,max=120"`
	Gender          string          `json:"gender" binding:"required,oneof=M F O"`
	BerthPreference inventory.Berth `json:"berth_preference" binding:"omitempty,oneof=LOWER MIDDLE UPPER"`
}

// CreateTicketRequest represents a booking request for a party
type CreateTicketRequest struct {
	JourneyID    uuid.UUID        `json:"journey_id" binding:"required"`
	ClassID      uuid.UUID        `json:"class_id" binding:"required"`
	Passengers   []PassengerInput `json:"passengers" binding:"required,min=1,max=6,dive"`
	ContactEmail string           `json:"contact_email" binding:"required,email"`
	ContactPhone string           `json:"contact_phone" binding:"omitempty,e164"`
}
