package booking

import (
	"testing"

	"railres/internal/inventory"

	"github.com/stretchr/testify/assert"
)

func TestLineStatusTransitions(t *testing.T) {
	cases := []struct {
		from    LineStatus
		to      LineStatus
		allowed bool
	}{
		{LineConfirmed, LineCancelled, true},
		{LineConfirmed, LineRAC, false},
		{LineConfirmed, LineWaitlisted, false},
		{LineRAC, LineConfirmed, true},
		{LineRAC, LineCancelled, true},
		{LineRAC, LineWaitlisted, false},
		{LineWaitlisted, LineRAC, true},
		{LineWaitlisted, LineCancelled, true},
		{LineWaitlisted, LineConfirmed, false},
		{LineCancelled, LineConfirmed, false},
		{LineCancelled, LineRAC, false},
		{LineCancelled, LineWaitlisted, false},
		{LineCancelled, LineCancelled, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestStatusValidity(t *testing.T) {
	assert.True(t, TicketConfirmed.IsValid())
	assert.True(t, TicketPartiallyConfirmed.IsValid())
	assert.True(t, TicketCancelled.IsValid())
	assert.False(t, TicketStatus("REFUNDED").IsValid())

	assert.True(t, LineConfirmed.IsValid())
	assert.True(t, LineRAC.IsValid())
	assert.True(t, LineWaitlisted.IsValid())
	assert.True(t, LineCancelled.IsValid())
	assert.False(t, LineStatus("").IsValid())
}

func TestDeriveTicketStatus(t *testing.T) {
	lines := func(statuses ...LineStatus) []PassengerLine {
		out := make([]PassengerLine, len(statuses))
		for i, s := range statuses {
			out[i].Status = s
		}
		return out
	}

	assert.Equal(t, TicketConfirmed, DeriveTicketStatus(lines(LineConfirmed, LineConfirmed)))
	assert.Equal(t, TicketPartiallyConfirmed, DeriveTicketStatus(lines(LineConfirmed, LineRAC)))
	assert.Equal(t, TicketPartiallyConfirmed, DeriveTicketStatus(lines(LineRAC, LineWaitlisted)))
	assert.Equal(t, TicketCancelled, DeriveTicketStatus(lines(LineCancelled, LineCancelled)))

	// Cancelled lines do not drag a fully confirmed ticket down.
	assert.Equal(t, TicketConfirmed, DeriveTicketStatus(lines(LineConfirmed, LineCancelled)))
}

func TestLineTierMapping(t *testing.T) {
	line := PassengerLine{Status: LineConfirmed}
	assert.Equal(t, inventory.TierConfirmed, line.Tier())
	assert.True(t, line.IsActive())

	line.Status = LineRAC
	assert.Equal(t, inventory.TierRAC, line.Tier())

	line.Status = LineWaitlisted
	assert.Equal(t, inventory.TierWaitlisted, line.Tier())

	line.Status = LineCancelled
	assert.False(t, line.IsActive())
	assert.Equal(t, inventory.Tier(""), line.Tier())
}
