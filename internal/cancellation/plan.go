package cancellation

import (
	"fmt"

	"railres/internal/inventory"
	"railres/pkg/apperrors"

	"github.com/google/uuid"
)

// QueueEntry is one surviving queue holder, identified by passenger line.
type QueueEntry struct {
	LineID   uuid.UUID
	Position int
}

// SeatGrant assigns a concrete freed seat to a promoted RAC line.
type SeatGrant struct {
	LineID     uuid.UUID
	SeatNumber int
	Coach      string
	Berth      inventory.Berth
}

// PositionGrant assigns a new queue position to a line.
type PositionGrant struct {
	LineID   uuid.UUID
	Position int
}

// CascadeInput is everything the planner needs, read under the inventory
// row lock after the cancelled lines have been released: how many lines of
// each tier were just cancelled, the surviving queues in ascending position
// order, and the free seat numbers.
type CascadeInput struct {
	CancelledConfirmed int
	CancelledRAC       int
	CancelledWaitlist  int
	RACQueue           []QueueEntry
	WaitQueue          []QueueEntry
	FreeSeats          []int // ascending, available after the release
	SeatsPerCoach      int
}

// CascadePlan is the full set of promotions and renumberings that restore
// the queue invariants. Applied atomically with the counter updates.
type CascadePlan struct {
	ConfirmRAC       []SeatGrant     // RAC -> Confirmed with a freed seat
	PromoteWaitlist  []PositionGrant // Waitlisted -> RAC, appended after survivors
	RenumberRAC      []PositionGrant // surviving RAC lines whose position changes
	RenumberWaitlist []PositionGrant // surviving waitlist lines whose position changes

	PromotedToConfirmed int
	PromotedToRAC       int
}

// PlanCascade computes the promotion chain for a cancellation: the k RAC
// holders with the lowest positions take the freed seats, the vacated RAC
// slots pull in the lowest waitlist holders, and both queues are renumbered
// to contiguous 1..n ranges preserving relative order.
func PlanCascade(in CascadeInput) (*CascadePlan, error) {
	plan := &CascadePlan{}

	// Step 2: promote RAC holders into the freed confirmed seats.
	promoteK := min(in.CancelledConfirmed, len(in.RACQueue))
	if promoteK > len(in.FreeSeats) {
		return nil, fmt.Errorf("%d RAC promotions but only %d free seats: %w",
			promoteK, len(in.FreeSeats), apperrors.ErrInvariantViolation)
	}
	for i := 0; i < promoteK; i++ {
		seat := in.FreeSeats[i]
		plan.ConfirmRAC = append(plan.ConfirmRAC, SeatGrant{
			LineID:     in.RACQueue[i].LineID,
			SeatNumber: seat,
			Coach:      inventory.CoachFor(seat, in.SeatsPerCoach),
			Berth:      inventory.BerthFor(seat),
		})
	}
	plan.PromotedToConfirmed = promoteK

	// Step 3: fill the vacated RAC slots from the waitlist. Slots come
	// from RAC cancellations and from the promotions above.
	survivors := in.RACQueue[promoteK:]
	vacated := in.CancelledRAC + promoteK
	promoteM := min(vacated, len(in.WaitQueue))

	for i, entry := range survivors {
		if entry.Position != i+1 {
			plan.RenumberRAC = append(plan.RenumberRAC, PositionGrant{LineID: entry.LineID, Position: i + 1})
		}
	}
	for i := 0; i < promoteM; i++ {
		plan.PromoteWaitlist = append(plan.PromoteWaitlist, PositionGrant{
			LineID:   in.WaitQueue[i].LineID,
			Position: len(survivors) + i + 1,
		})
	}
	plan.PromotedToRAC = promoteM

	// Step 4: close the gaps in the remaining waitlist.
	for i, entry := range in.WaitQueue[promoteM:] {
		if entry.Position != i+1 {
			plan.RenumberWaitlist = append(plan.RenumberWaitlist, PositionGrant{LineID: entry.LineID, Position: i + 1})
		}
	}

	return plan, nil
}
