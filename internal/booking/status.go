package booking

// TicketStatus is the derived ticket-level status.
type TicketStatus string

const (
	TicketConfirmed          TicketStatus = "CONFIRMED"
	TicketPartiallyConfirmed TicketStatus = "PARTIALLY_CONFIRMED"
	TicketCancelled          TicketStatus = "CANCELLED"
)

// IsValid checks if the ticket status is valid
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketConfirmed, TicketPartiallyConfirmed, TicketCancelled:
		return true
	}
	return false
}

// String returns the string representation of TicketStatus
func (s TicketStatus) String() string {
	return string(s)
}

// LineStatus is the per-passenger allocation state. Cancellation is
// terminal; promotions move up the tier ladder only.
type LineStatus string

const (
	LineConfirmed  LineStatus = "CONFIRMED"
	LineRAC        LineStatus = "RAC"
	LineWaitlisted LineStatus = "WAITLISTED"
	LineCancelled  LineStatus = "CANCELLED"
)

// IsValid checks if the line status is valid
func (s LineStatus) IsValid() bool {
	switch s {
	case LineConfirmed, LineRAC, LineWaitlisted, LineCancelled:
		return true
	}
	return false
}

// String returns the string representation of LineStatus
func (s LineStatus) String() string {
	return string(s)
}

// CanTransitionTo enforces the line state machine: any active status may
// cancel, RAC may confirm, waitlisted may become RAC. Everything else is
// rejected, including any transition out of CANCELLED.
func (s LineStatus) CanTransitionTo(next LineStatus) bool {
	switch s {
	case LineConfirmed:
		return next == LineCancelled
	case LineRAC:
		return next == LineConfirmed || next == LineCancelled
	case LineWaitlisted:
		return next == LineRAC || next == LineCancelled
	}
	return false
}
