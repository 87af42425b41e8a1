package inventory

import (
	"fmt"
	"sort"

	"railres/pkg/apperrors"
)

// Snapshot is one consistent read of the counters plus the seats currently
// held by non-cancelled confirmed lines. All tier decisions for a party are
// made against a single snapshot while the row lock is held.
type Snapshot struct {
	Inventory     SeatClassInventory
	OccupiedSeats map[int]bool
}

// BerthFor derives the berth position from a seat number. Seats cycle
// LOWER, MIDDLE, UPPER within a coach.
func BerthFor(seatNumber int) Berth {
	switch (seatNumber - 1) % 3 {
	case 0:
		return BerthLower
	case 1:
		return BerthMiddle
	default:
		return BerthUpper
	}
}

// CoachFor derives the coach label from a seat number.
func CoachFor(seatNumber, seatsPerCoach int) string {
	if seatsPerCoach <= 0 {
		seatsPerCoach = 72
	}
	return fmt.Sprintf("S%d", (seatNumber-1)/seatsPerCoach+1)
}

// AssignTiers decides the tier for each of n passengers in request order,
// mutating the snapshot's counters as it goes so later passengers see the
// slots taken by earlier ones. Preferences supply the wanted berth per
// passenger (may be shorter than n, or hold empty entries).
//
// Either all n passengers get assignments or none do: on CapacityExceeded
// the caller discards the snapshot and must not create a ticket.
func AssignTiers(snap *Snapshot, n int, preferences []Berth) ([]TierAssignment, error) {
	if n <= 0 {
		return nil, fmt.Errorf("party size must be positive: %w", apperrors.ErrInvalidPassenger)
	}

	inv := &snap.Inventory
	free := freeSeats(inv, snap.OccupiedSeats)

	assignments := make([]TierAssignment, 0, n)
	for i := 0; i < n; i++ {
		var pref Berth
		if i < len(preferences) {
			pref = preferences[i]
		}

		switch {
		case inv.ConfirmedCount < inv.TotalSeats:
			seat, ok := takeSeat(free, pref)
			if !ok {
				// Counter says a seat is free but none is unassigned:
				// the ledger and the seat map disagree.
				return nil, fmt.Errorf("confirmed_count %d below total %d but no free seat: %w",
					inv.ConfirmedCount, inv.TotalSeats, apperrors.ErrInvariantViolation)
			}
			inv.ConfirmedCount++
			assignments = append(assignments, TierAssignment{
				Tier:       TierConfirmed,
				SeatNumber: seat,
				Coach:      CoachFor(seat, inv.SeatsPerCoach),
				Berth:      BerthFor(seat),
			})

		case inv.RacCurrent < inv.RacMax:
			inv.RacCurrent++
			assignments = append(assignments, TierAssignment{
				Tier:          TierRAC,
				QueuePosition: inv.RacCurrent,
			})

		case inv.WaitlistCurrent < inv.WaitlistMax:
			inv.WaitlistCurrent++
			assignments = append(assignments, TierAssignment{
				Tier:          TierWaitlisted,
				QueuePosition: inv.WaitlistCurrent,
			})

		default:
			return nil, apperrors.ErrCapacityExceeded
		}
	}

	return assignments, nil
}

// freeSeats returns the unoccupied seat numbers in ascending order, keyed
// for fast removal.
func freeSeats(inv *SeatClassInventory, occupied map[int]bool) map[int]bool {
	free := make(map[int]bool, inv.TotalSeats-len(occupied))
	for seat := 1; seat <= inv.TotalSeats; seat++ {
		if !occupied[seat] {
			free[seat] = true
		}
	}
	return free
}

// takeSeat removes and returns the lowest free seat matching the berth
// preference, falling back to the lowest free seat of any berth.
func takeSeat(free map[int]bool, pref Berth) (int, bool) {
	if len(free) == 0 {
		return 0, false
	}

	seats := make([]int, 0, len(free))
	for seat := range free {
		seats = append(seats, seat)
	}
	sort.Ints(seats)

	if pref != "" {
		for _, seat := range seats {
			if BerthFor(seat) == pref {
				delete(free, seat)
				return seat, true
			}
		}
	}

	seat := seats[0]
	delete(free, seat)
	return seat, true
}

// LowestFreeSeats returns up to k free seats in ascending order without
// consuming them. The cascade engine uses this to hand freed seats to
// promoted RAC passengers.
func LowestFreeSeats(inv *SeatClassInventory, occupied map[int]bool, k int) []int {
	seats := make([]int, 0, k)
	for seat := 1; seat <= inv.TotalSeats && len(seats) < k; seat++ {
		if !occupied[seat] {
			seats = append(seats, seat)
		}
	}
	return seats
}

// CheckQueueContiguity verifies that queue positions form exactly
// 1..len(positions) with no duplicates or gaps.
func CheckQueueContiguity(positions []int) error {
	seen := make(map[int]bool, len(positions))
	for _, p := range positions {
		if p < 1 || p > len(positions) || seen[p] {
			return fmt.Errorf("queue positions %v are not a contiguous 1..%d range: %w",
				positions, len(positions), apperrors.ErrInvariantViolation)
		}
		seen[p] = true
	}
	return nil
}
