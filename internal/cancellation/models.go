package cancellation

import (
	"time"

	"github.com/google/uuid"
)

// RefundStatus tracks the external payment collaborator's progress.
type RefundStatus string

const (
	RefundPending   RefundStatus = "PENDING"
	RefundProcessed RefundStatus = "PROCESSED"
)

// IsValid checks if the refund status is valid
func (s RefundStatus) IsValid() bool {
	switch s {
	case RefundPending, RefundProcessed:
		return true
	}
	return false
}

// CancellationRecord is created once per cancellation and is immutable
// afterwards except for the refund-status flip.
type CancellationRecord struct {
	ID                  uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TicketID            uuid.UUID    `gorm:"type:uuid;index;not null" json:"ticket_id"`
	Reason              string       `gorm:"not null" json:"reason"`
	CancelledLineCount  int          `gorm:"not null" json:"cancelled_line_count"`
	RefundAmount        float64      `gorm:"not null" json:"refund_amount"`
	CancellationCharges float64      `gorm:"not null" json:"cancellation_charges"`
	RefundStatus        RefundStatus `gorm:"type:varchar(12);not null;default:'PENDING'" json:"refund_status"`
	RequestedAt         time.Time    `gorm:"not null" json:"requested_at"`
	ProcessedAt         *time.Time   `json:"processed_at,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// TableName sets the table name for CancellationRecord
func (CancellationRecord) TableName() string {
	return "cancellation_records"
}

// CancelTicketRequest represents a request to cancel a ticket or a subset
// of its passenger lines. Exactly one of the override fields may be set;
// the other side of the split is derived as the complement.
type CancelTicketRequest struct {
	Reason              string      `json:"reason" binding:"required,min=3,max=500"`
	LineIDs             []uuid.UUID `json:"line_ids" binding:"omitempty,min=1"`
	RefundAmount        *float64    `json:"refund_amount" binding:"omitempty,min=0"`
	CancellationCharges *float64    `json:"cancellation_charges" binding:"omitempty,min=0"`
}

// CancellationResponse is returned after a successful cascade
type CancellationResponse struct {
	RecordID            uuid.UUID    `json:"record_id"`
	PNR                 string       `json:"pnr"`
	CancelledLines      int          `json:"cancelled_lines"`
	RefundAmount        float64      `json:"refund_amount"`
	CancellationCharges float64      `json:"cancellation_charges"`
	RefundStatus        RefundStatus `json:"refund_status"`
	PromotedToConfirmed int          `json:"promoted_to_confirmed"`
	PromotedToRAC       int          `json:"promoted_to_rac"`
}
