package booking

import (
	"time"

	"railres/internal/fare"
	"railres/internal/inventory"

	"github.com/google/uuid"
)

// LineResponse is the per-passenger view of an allocation
type LineResponse struct {
	LineID        uuid.UUID       `json:"line_id"`
	Name          string          `json:"name"`
	Age           int             `json:"age"`
	Gender        string          `json:"gender"`
	Status        LineStatus      `json:"status"`
	SeatNumber    int             `json:"seat_number,omitempty"`
	Coach         string          `json:"coach,omitempty"`
	Berth         inventory.Berth `json:"berth,omitempty"`
	QueuePosition int             `json:"queue_position,omitempty"`
}

// TicketResponse is the full ticket view returned after booking or lookup
type TicketResponse struct {
	TicketID    uuid.UUID      `json:"ticket_id"`
	PNR         string         `json:"pnr"`
	Status      TicketStatus   `json:"status"`
	TrainNumber int            `json:"train_number"`
	TrainName   string         `json:"train_name"`
	ClassCode   string         `json:"class_code"`
	SourceCode  string         `json:"source_code"`
	DestCode    string         `json:"dest_code"`
	DepartureAt time.Time      `json:"departure_at"`
	TotalFare   float64        `json:"total_fare"`
	Fare        fare.Breakdown `json:"fare"`
	BookedAt    time.Time      `json:"booked_at"`
	Lines       []LineResponse `json:"lines"`
}

// BillResponse is the itemized bill view
type BillResponse struct {
	PNR         string             `json:"pnr"`
	TrainNumber int                `json:"train_number"`
	TrainName   string             `json:"train_name"`
	ClassCode   string             `json:"class_code"`
	SourceCode  string             `json:"source_code"`
	DestCode    string             `json:"dest_code"`
	Bill        fare.BillBreakdown `json:"bill"`
}

func newLineResponses(lines []PassengerLine) []LineResponse {
	out := make([]LineResponse, 0, len(lines))
	for i := range lines {
		l := &lines[i]
		out = append(out, LineResponse{
			LineID:        l.ID,
			Name:          l.Name,
			Age:           l.Age,
			Gender:        l.Gender,
			Status:        l.Status,
			SeatNumber:    l.SeatNumber,
			Coach:         l.Coach,
			Berth:         l.Berth,
			QueuePosition: l.QueuePosition,
		})
	}
	return out
}
