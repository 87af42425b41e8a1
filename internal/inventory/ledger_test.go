package inventory

import (
	"testing"

	"railres/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnapshot(total, confirmed, racCur, racMax, wlCur, wlMax int, occupied ...int) *Snapshot {
	occ := make(map[int]bool)
	for _, seat := range occupied {
		occ[seat] = true
	}
	return &Snapshot{
		Inventory: SeatClassInventory{
			TotalSeats:      total,
			ConfirmedCount:  confirmed,
			RacCurrent:      racCur,
			RacMax:          racMax,
			WaitlistCurrent: wlCur,
			WaitlistMax:     wlMax,
			SeatsPerCoach:   72,
		},
		OccupiedSeats: occ,
	}
}

func TestAssignTiersFillsSeatsFirst(t *testing.T) {
	snap := newSnapshot(3, 0, 0, 2, 0, 2)

	got, err := AssignTiers(snap, 2, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, TierConfirmed, got[0].Tier)
	assert.Equal(t, 1, got[0].SeatNumber)
	assert.Equal(t, TierConfirmed, got[1].Tier)
	assert.Equal(t, 2, got[1].SeatNumber)
	assert.Equal(t, 2, snap.Inventory.ConfirmedCount)
}

func TestAssignTiersSkipsOccupiedSeats(t *testing.T) {
	snap := newSnapshot(4, 2, 0, 2, 0, 2, 1, 3)

	got, err := AssignTiers(snap, 2, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, got[0].SeatNumber)
	assert.Equal(t, 4, got[1].SeatNumber)
}

func TestAssignTiersSpillsIntoRACThenWaitlist(t *testing.T) {
	snap := newSnapshot(1, 0, 0, 2, 0, 2)

	got, err := AssignTiers(snap, 5, nil)
	require.NoError(t, err)
	require.Len(t, got, 5)

	assert.Equal(t, TierConfirmed, got[0].Tier)
	assert.Equal(t, TierRAC, got[1].Tier)
	assert.Equal(t, 1, got[1].QueuePosition)
	assert.Equal(t, TierRAC, got[2].Tier)
	assert.Equal(t, 2, got[2].QueuePosition)
	assert.Equal(t, TierWaitlisted, got[3].Tier)
	assert.Equal(t, 1, got[3].QueuePosition)
	assert.Equal(t, TierWaitlisted, got[4].Tier)
	assert.Equal(t, 2, got[4].QueuePosition)
}

func TestAssignTiersCapacityExceededIsAllOrNothing(t *testing.T) {
	snap := newSnapshot(1, 1, 2, 2, 1, 2, 1)

	_, err := AssignTiers(snap, 2, nil)
	assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)
}

func TestAssignTiersRejectsEmptyParty(t *testing.T) {
	snap := newSnapshot(2, 0, 0, 2, 0, 2)

	_, err := AssignTiers(snap, 0, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassenger)
}

func TestAssignTiersHonorsBerthPreference(t *testing.T) {
	// Seats 1..6: LOWER MIDDLE UPPER LOWER MIDDLE UPPER
	snap := newSnapshot(6, 0, 0, 2, 0, 2)

	got, err := AssignTiers(snap, 2, []Berth{BerthUpper, BerthUpper})
	require.NoError(t, err)

	assert.Equal(t, 3, got[0].SeatNumber)
	assert.Equal(t, BerthUpper, got[0].Berth)
	assert.Equal(t, 6, got[1].SeatNumber)
	assert.Equal(t, BerthUpper, got[1].Berth)
}

func TestAssignTiersFallsBackWhenPreferenceUnavailable(t *testing.T) {
	snap := newSnapshot(3, 1, 0, 2, 0, 2, 3) // seat 3 is the only UPPER

	got, err := AssignTiers(snap, 1, []Berth{BerthUpper})
	require.NoError(t, err)

	assert.Equal(t, 1, got[0].SeatNumber)
	assert.Equal(t, BerthLower, got[0].Berth)
}

func TestAssignTiersDetectsCounterSeatMapDisagreement(t *testing.T) {
	// Counter says seats free, but the seat map is full.
	snap := newSnapshot(2, 0, 0, 2, 0, 2, 1, 2)

	_, err := AssignTiers(snap, 1, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvariantViolation)
}

func TestBerthForCyclesWithinCoach(t *testing.T) {
	assert.Equal(t, BerthLower, BerthFor(1))
	assert.Equal(t, BerthMiddle, BerthFor(2))
	assert.Equal(t, BerthUpper, BerthFor(3))
	assert.Equal(t, BerthLower, BerthFor(4))
	assert.Equal(t, BerthUpper, BerthFor(72))
}

func TestCoachFor(t *testing.T) {
	assert.Equal(t, "S1", CoachFor(1, 72))
	assert.Equal(t, "S1", CoachFor(72, 72))
	assert.Equal(t, "S2", CoachFor(73, 72))
	assert.Equal(t, "S3", CoachFor(145, 72))
}

func TestLowestFreeSeats(t *testing.T) {
	inv := &SeatClassInventory{TotalSeats: 5}
	occupied := map[int]bool{1: true, 3: true}

	assert.Equal(t, []int{2, 4}, LowestFreeSeats(inv, occupied, 2))
	assert.Equal(t, []int{2, 4, 5}, LowestFreeSeats(inv, occupied, 10))
}

func TestCheckQueueContiguity(t *testing.T) {
	assert.NoError(t, CheckQueueContiguity(nil))
	assert.NoError(t, CheckQueueContiguity([]int{1, 2, 3}))
	assert.NoError(t, CheckQueueContiguity([]int{3, 1, 2}))

	assert.ErrorIs(t, CheckQueueContiguity([]int{1, 3}), apperrors.ErrInvariantViolation)
	assert.ErrorIs(t, CheckQueueContiguity([]int{1, 1, 2}), apperrors.ErrInvariantViolation)
	assert.ErrorIs(t, CheckQueueContiguity([]int{0, 1}), apperrors.ErrInvariantViolation)
}

func TestInventoryCheck(t *testing.T) {
	inv := SeatClassInventory{TotalSeats: 2, RacMax: 1, WaitlistMax: 1}
	assert.NoError(t, inv.Check())

	inv.ConfirmedCount = 3
	assert.ErrorIs(t, inv.Check(), apperrors.ErrInvariantViolation)

	inv.ConfirmedCount = 2
	inv.RacCurrent = -1
	assert.ErrorIs(t, inv.Check(), apperrors.ErrInvariantViolation)
}

func TestReleaseDecrementsMatchingTiers(t *testing.T) {
	inv := SeatClassInventory{ConfirmedCount: 2, RacCurrent: 2, WaitlistCurrent: 1}
	inv.Release([]Tier{TierConfirmed, TierRAC, TierRAC, TierWaitlisted})

	assert.Equal(t, 1, inv.ConfirmedCount)
	assert.Equal(t, 0, inv.RacCurrent)
	assert.Equal(t, 0, inv.WaitlistCurrent)
}
