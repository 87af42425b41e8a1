package inventory

import (
	"fmt"
	"time"

	"railres/pkg/apperrors"

	"github.com/google/uuid"
)

// Tier is the allocation tier a passenger holds on a journey/class.
type Tier string

const (
	TierConfirmed  Tier = "CONFIRMED"
	TierRAC        Tier = "RAC"
	TierWaitlisted Tier = "WAITLISTED"
)

// IsValid checks if the tier is a known allocation tier
func (t Tier) IsValid() bool {
	switch t {
	case TierConfirmed, TierRAC, TierWaitlisted:
		return true
	}
	return false
}

// String returns the string representation of Tier
func (t Tier) String() string {
	return string(t)
}

// Berth is the physical berth position of a confirmed seat.
type Berth string

const (
	BerthLower  Berth = "LOWER"
	BerthMiddle Berth = "MIDDLE"
	BerthUpper  Berth = "UPPER"
)

// SeatClassInventory is the per-(journey, class) counter row: the single
// source of truth for "can I book". Mutated only by the booking allocator
// and the cancellation cascade, always under the row lock.
type SeatClassInventory struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	JourneyID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_journey_class" json:"journey_id"`
	ClassID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_journey_class" json:"class_id"`
	TotalSeats      int       `gorm:"not null" json:"total_seats"`
	ConfirmedCount  int       `gorm:"not null;default:0" json:"confirmed_count"`
	RacCurrent      int       `gorm:"not null;default:0" json:"rac_current"`
	RacMax          int       `gorm:"not null" json:"rac_max"`
	WaitlistCurrent int       `gorm:"not null;default:0" json:"waitlist_current"`
	WaitlistMax     int       `gorm:"not null" json:"waitlist_max"`
	SeatsPerCoach   int       `gorm:"not null;default:72" json:"seats_per_coach"`
	Version         int       `gorm:"not null;default:0" json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName sets the table name for SeatClassInventory
func (SeatClassInventory) TableName() string {
	return "seat_class_inventories"
}

// Check verifies the capacity invariants. A violation means a bug in the
// locking discipline, not bad user input, so it maps to ErrInvariantViolation.
func (inv *SeatClassInventory) Check() error {
	if inv.ConfirmedCount < 0 || inv.ConfirmedCount > inv.TotalSeats {
		return fmt.Errorf("confirmed_count %d outside [0,%d] for journey %s: %w",
			inv.ConfirmedCount, inv.TotalSeats, inv.JourneyID, apperrors.ErrInvariantViolation)
	}
	if inv.RacCurrent < 0 || inv.RacCurrent > inv.RacMax {
		return fmt.Errorf("rac_current %d outside [0,%d] for journey %s: %w",
			inv.RacCurrent, inv.RacMax, inv.JourneyID, apperrors.ErrInvariantViolation)
	}
	if inv.WaitlistCurrent < 0 || inv.WaitlistCurrent > inv.WaitlistMax {
		return fmt.Errorf("waitlist_current %d outside [0,%d] for journey %s: %w",
			inv.WaitlistCurrent, inv.WaitlistMax, inv.JourneyID, apperrors.ErrInvariantViolation)
	}
	return nil
}

// Release decrements the counter matching each released tier. It performs
// no promotion; that is the cascade engine's job.
func (inv *SeatClassInventory) Release(tiers []Tier) {
	for _, tier := range tiers {
		switch tier {
		case TierConfirmed:
			inv.ConfirmedCount--
		case TierRAC:
			inv.RacCurrent--
		case TierWaitlisted:
			inv.WaitlistCurrent--
		}
	}
}

// TierAssignment is the outcome of reserving one slot of a party.
type TierAssignment struct {
	Tier          Tier   `json:"tier"`
	SeatNumber    int    `json:"seat_number,omitempty"`
	Coach         string `json:"coach,omitempty"`
	Berth         Berth  `json:"berth,omitempty"`
	QueuePosition int    `json:"queue_position,omitempty"`
}

// AvailabilityResponse is the public availability view for a journey/class
type AvailabilityResponse struct {
	JourneyID      uuid.UUID `json:"journey_id"`
	ClassID        uuid.UUID `json:"class_id"`
	SeatsLeft      int       `json:"seats_left"`
	RacLeft        int       `json:"rac_left"`
	WaitlistLeft   int       `json:"waitlist_left"`
	Status         string    `json:"status"` // e.g. "AVAILABLE 23", "RAC 4", "WL 7", "REGRET"
}
