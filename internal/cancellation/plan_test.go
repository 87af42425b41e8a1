package cancellation

import (
	"testing"

	"railres/internal/inventory"
	"railres/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queue(positions ...int) []QueueEntry {
	entries := make([]QueueEntry, 0, len(positions))
	for _, p := range positions {
		entries = append(entries, QueueEntry{LineID: uuid.New(), Position: p})
	}
	return entries
}

func TestPlanCascadeConfirmedCancellationPromotesChain(t *testing.T) {
	// One confirmed cancellation with one RAC holder and two waitlisted.
	rac := queue(1)
	wait := queue(1, 2)

	plan, err := PlanCascade(CascadeInput{
		CancelledConfirmed: 1,
		RACQueue:           rac,
		WaitQueue:          wait,
		FreeSeats:          []int{2},
		SeatsPerCoach:      72,
	})
	require.NoError(t, err)

	// RAC 1 takes the freed seat.
	require.Len(t, plan.ConfirmRAC, 1)
	assert.Equal(t, rac[0].LineID, plan.ConfirmRAC[0].LineID)
	assert.Equal(t, 2, plan.ConfirmRAC[0].SeatNumber)
	assert.Equal(t, inventory.BerthMiddle, plan.ConfirmRAC[0].Berth)
	assert.Equal(t, "S1", plan.ConfirmRAC[0].Coach)

	// Waitlist 1 fills the vacated RAC slot at position 1.
	require.Len(t, plan.PromoteWaitlist, 1)
	assert.Equal(t, wait[0].LineID, plan.PromoteWaitlist[0].LineID)
	assert.Equal(t, 1, plan.PromoteWaitlist[0].Position)

	// Waitlist 2 closes the gap.
	require.Len(t, plan.RenumberWaitlist, 1)
	assert.Equal(t, wait[1].LineID, plan.RenumberWaitlist[0].LineID)
	assert.Equal(t, 1, plan.RenumberWaitlist[0].Position)

	assert.Equal(t, 1, plan.PromotedToConfirmed)
	assert.Equal(t, 1, plan.PromotedToRAC)
	assert.Empty(t, plan.RenumberRAC)
}

func TestPlanCascadeMultipleConfirmedCancellations(t *testing.T) {
	rac := queue(1, 2, 3)
	wait := queue(1, 2, 3, 4)

	plan, err := PlanCascade(CascadeInput{
		CancelledConfirmed: 2,
		RACQueue:           rac,
		WaitQueue:          wait,
		FreeSeats:          []int{4, 9},
		SeatsPerCoach:      72,
	})
	require.NoError(t, err)

	// RAC 1 and 2 take seats in ascending order.
	require.Len(t, plan.ConfirmRAC, 2)
	assert.Equal(t, 4, plan.ConfirmRAC[0].SeatNumber)
	assert.Equal(t, 9, plan.ConfirmRAC[1].SeatNumber)

	// Surviving RAC 3 renumbers to 1; waitlist 1 and 2 append after it.
	require.Len(t, plan.RenumberRAC, 1)
	assert.Equal(t, rac[2].LineID, plan.RenumberRAC[0].LineID)
	assert.Equal(t, 1, plan.RenumberRAC[0].Position)

	require.Len(t, plan.PromoteWaitlist, 2)
	assert.Equal(t, 2, plan.PromoteWaitlist[0].Position)
	assert.Equal(t, 3, plan.PromoteWaitlist[1].Position)

	// Remaining waitlist 3, 4 renumber to 1, 2.
	require.Len(t, plan.RenumberWaitlist, 2)
	assert.Equal(t, 1, plan.RenumberWaitlist[0].Position)
	assert.Equal(t, 2, plan.RenumberWaitlist[1].Position)
}

func TestPlanCascadeRACCancellationPullsWaitlistOnly(t *testing.T) {
	// Cancelling a RAC line frees no seat, so nobody confirms; the
	// waitlist head fills the RAC slot.
	rac := queue(2, 3) // position 1 was just cancelled
	wait := queue(1)

	plan, err := PlanCascade(CascadeInput{
		CancelledRAC:  1,
		RACQueue:      rac,
		WaitQueue:     wait,
		SeatsPerCoach: 72,
	})
	require.NoError(t, err)

	assert.Empty(t, plan.ConfirmRAC)
	assert.Equal(t, 0, plan.PromotedToConfirmed)

	// Survivors close up to 1, 2; the promoted waitlister becomes RAC 3.
	require.Len(t, plan.RenumberRAC, 2)
	assert.Equal(t, 1, plan.RenumberRAC[0].Position)
	assert.Equal(t, 2, plan.RenumberRAC[1].Position)

	require.Len(t, plan.PromoteWaitlist, 1)
	assert.Equal(t, 3, plan.PromoteWaitlist[0].Position)
}

func TestPlanCascadeWaitlistCancellationOnlyRenumbers(t *testing.T) {
	wait := queue(2, 4) // positions 1 and 3 cancelled

	plan, err := PlanCascade(CascadeInput{
		CancelledWaitlist: 2,
		WaitQueue:         wait,
		SeatsPerCoach:     72,
	})
	require.NoError(t, err)

	assert.Empty(t, plan.ConfirmRAC)
	assert.Empty(t, plan.PromoteWaitlist)
	require.Len(t, plan.RenumberWaitlist, 2)
	assert.Equal(t, 1, plan.RenumberWaitlist[0].Position)
	assert.Equal(t, 2, plan.RenumberWaitlist[1].Position)
}

func TestPlanCascadeShortQueuesLeaveSeatsFree(t *testing.T) {
	// More freed seats than RAC holders: the extra seat stays free.
	rac := queue(1)

	plan, err := PlanCascade(CascadeInput{
		CancelledConfirmed: 3,
		RACQueue:           rac,
		FreeSeats:          []int{1, 5, 7},
		SeatsPerCoach:      72,
	})
	require.NoError(t, err)

	require.Len(t, plan.ConfirmRAC, 1)
	assert.Equal(t, 1, plan.ConfirmRAC[0].SeatNumber)
	assert.Equal(t, 1, plan.PromotedToConfirmed)
	assert.Equal(t, 0, plan.PromotedToRAC)
}

func TestPlanCascadeNoPromotionWhenQueuesEmpty(t *testing.T) {
	plan, err := PlanCascade(CascadeInput{
		CancelledConfirmed: 2,
		FreeSeats:          []int{1, 2},
		SeatsPerCoach:      72,
	})
	require.NoError(t, err)

	assert.Empty(t, plan.ConfirmRAC)
	assert.Empty(t, plan.PromoteWaitlist)
	assert.Empty(t, plan.RenumberRAC)
	assert.Empty(t, plan.RenumberWaitlist)
}

func TestPlanCascadeRejectsSeatShortfall(t *testing.T) {
	_, err := PlanCascade(CascadeInput{
		CancelledConfirmed: 2,
		RACQueue:           queue(1, 2),
		FreeSeats:          []int{1},
		SeatsPerCoach:      72,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvariantViolation)
}
