package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"railres/internal/catalog"
	"railres/internal/fare"
	"railres/internal/inventory"
	"railres/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxTxRetries = 3
	retryBackoff = 25 * time.Millisecond
)

// CatalogFacts is the read-only catalog lookup the allocator consumes.
type CatalogFacts interface {
	GetJourneyFacts(ctx context.Context, journeyID, classID uuid.UUID) (*catalog.JourneyFacts, error)
}

// Notifier publishes a confirmation for a finalized ticket. Failures are
// the notifier's problem; they never roll back the booking.
type Notifier interface {
	TicketBooked(ctx context.Context, ticket *Ticket, facts *catalog.JourneyFacts)
}

// TxRunner runs a unit of work in a database transaction. The allocator
// depends on this interface so its transactional flow can be exercised
// with an in-memory fake.
type TxRunner interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service interface defines the contract for the booking allocator
type Service interface {
	CreateTicket(ctx context.Context, req CreateTicketRequest) (*TicketResponse, error)
	GetTicket(ctx context.Context, pnr string) (*TicketResponse, error)
	GetItemizedBill(ctx context.Context, pnr string) (*BillResponse, error)
	GetBillPDF(ctx context.Context, pnr string) ([]byte, error)
}

// service implements the Service interface
type service struct {
	repo     Repository
	invRepo  inventory.Repository
	catalog  CatalogFacts
	fareCalc *fare.Calculator
	txRunner TxRunner
	locker   *inventory.JourneyClassLocker
	notifier Notifier
}

// NewService creates a new booking service instance
func NewService(
	repo Repository,
	invRepo inventory.Repository,
	catalogFacts CatalogFacts,
	fareCalc *fare.Calculator,
	txRunner TxRunner,
	locker *inventory.JourneyClassLocker,
	notifier Notifier,
) Service {
	return &service{
		repo:     repo,
		invRepo:  invRepo,
		catalog:  catalogFacts,
		fareCalc: fareCalc,
		txRunner: txRunner,
		locker:   locker,
		notifier: notifier,
	}
}

// CreateTicket prices the party, then reserves all its slots from one
// consistent inventory snapshot and persists ticket plus lines in a single
// transaction. Either the whole party books or nothing does.
func (s *service) CreateTicket(ctx context.Context, req CreateTicketRequest) (*TicketResponse, error) {
	facts, err := s.catalog.GetJourneyFacts(ctx, req.JourneyID, req.ClassID)
	if err != nil {
		return nil, err
	}
	if !time.Now().Before(facts.DepartureAt) {
		return nil, fmt.Errorf("journey %s departed at %s: %w",
			facts.JourneyID, facts.DepartureAt.Format(time.RFC3339), apperrors.ErrJourneyDeparted)
	}

	fareBreakdown := s.fareCalc.Fare(facts.RatePerKm, facts.DistanceKm, len(req.Passengers))

	pnr, err := s.uniquePNR(ctx)
	if err != nil {
		return nil, err
	}

	preferences := make([]inventory.Berth, len(req.Passengers))
	for i, p := range req.Passengers {
		preferences[i] = p.BerthPreference
	}

	var ticket *Ticket

	// Bookings and cancellations on the same journey/class are mutually
	// exclusive; other pairs proceed in parallel.
	s.locker.Lock(req.JourneyID, req.ClassID)
	defer s.locker.Unlock(req.JourneyID, req.ClassID)

	err = s.withRetry(ctx, func(tx *gorm.DB) error {
		inv, err := s.invRepo.LockForUpdate(ctx, tx, req.JourneyID, req.ClassID)
		if err != nil {
			return err
		}

		occupied, err := s.repo.OccupiedSeats(ctx, tx, req.JourneyID, req.ClassID)
		if err != nil {
			return err
		}

		snap := &inventory.Snapshot{Inventory: *inv, OccupiedSeats: occupied}
		assignments, err := inventory.AssignTiers(snap, len(req.Passengers), preferences)
		if err != nil {
			return err
		}

		now := time.Now()
		ticket = &Ticket{
			PNR:          pnr,
			JourneyID:    req.JourneyID,
			ClassID:      req.ClassID,
			TotalFare:    fareBreakdown.Total,
			ContactEmail: req.ContactEmail,
			ContactPhone: req.ContactPhone,
			BookedAt:     now,
		}
		for i, p := range req.Passengers {
			a := assignments[i]
			ticket.Lines = append(ticket.Lines, PassengerLine{
				JourneyID:       req.JourneyID,
				ClassID:         req.ClassID,
				Name:            p.Name,
				Age:             p.Age,
				Gender:          p.Gender,
				BerthPreference: p.BerthPreference,
				Status:          LineStatus(a.Tier),
				SeatNumber:      a.SeatNumber,
				Coach:           a.Coach,
				Berth:           a.Berth,
				QueuePosition:   a.QueuePosition,
			})
		}
		ticket.Status = DeriveTicketStatus(ticket.Lines)

		if err := s.repo.CreateTicket(ctx, tx, ticket); err != nil {
			return fmt.Errorf("failed to persist ticket: %w", err)
		}

		// Write back the counters mutated by AssignTiers.
		inv.ConfirmedCount = snap.Inventory.ConfirmedCount
		inv.RacCurrent = snap.Inventory.RacCurrent
		inv.WaitlistCurrent = snap.Inventory.WaitlistCurrent
		return s.invRepo.SaveCounters(ctx, tx, inv)
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.TicketBooked(ctx, ticket, facts)
	}

	return s.buildTicketResponse(ticket, facts, fareBreakdown), nil
}

func (s *service) GetTicket(ctx context.Context, pnr string) (*TicketResponse, error) {
	ticket, err := s.repo.GetTicketByPNR(ctx, pnr)
	if err != nil {
		return nil, err
	}

	facts, err := s.catalog.GetJourneyFacts(ctx, ticket.JourneyID, ticket.ClassID)
	if err != nil {
		return nil, err
	}

	fareBreakdown := s.fareCalc.Fare(facts.RatePerKm, facts.DistanceKm, len(ticket.Lines))
	return s.buildTicketResponse(ticket, facts, fareBreakdown), nil
}

// GetItemizedBill recomputes the extended line-item bill from persisted
// journey facts. Deterministic: regenerating an old bill gives the same
// figures the passenger saw at booking time.
func (s *service) GetItemizedBill(ctx context.Context, pnr string) (*BillResponse, error) {
	ticket, err := s.repo.GetTicketByPNR(ctx, pnr)
	if err != nil {
		return nil, err
	}

	facts, err := s.catalog.GetJourneyFacts(ctx, ticket.JourneyID, ticket.ClassID)
	if err != nil {
		return nil, err
	}

	bill := s.fareCalc.ItemizedBill(facts.RatePerKm, facts.DistanceKm, len(ticket.Lines), facts.IsSuperfast)
	return &BillResponse{
		PNR:         ticket.PNR,
		TrainNumber: facts.TrainNumber,
		TrainName:   facts.TrainName,
		ClassCode:   facts.ClassCode,
		SourceCode:  facts.SourceCode,
		DestCode:    facts.DestCode,
		Bill:        bill,
	}, nil
}

func (s *service) GetBillPDF(ctx context.Context, pnr string) ([]byte, error) {
	bill, err := s.GetItemizedBill(ctx, pnr)
	if err != nil {
		return nil, err
	}

	ticket, err := s.repo.GetTicketByPNR(ctx, pnr)
	if err != nil {
		return nil, err
	}
	facts, err := s.catalog.GetJourneyFacts(ctx, ticket.JourneyID, ticket.ClassID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(ticket.Lines))
	for i := range ticket.Lines {
		names = append(names, ticket.Lines[i].Name)
	}

	return fare.RenderBillPDF(fare.BillDocument{
		PNR:         bill.PNR,
		TrainNumber: bill.TrainNumber,
		TrainName:   bill.TrainName,
		ClassCode:   bill.ClassCode,
		SourceCode:  bill.SourceCode,
		DestCode:    bill.DestCode,
		DepartureAt: facts.DepartureAt,
		Passengers:  names,
		Breakdown:   bill.Bill,
	})
}

// withRetry reruns the transaction on lock/version conflicts a bounded
// number of times before surfacing the conflict.
func (s *service) withRetry(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff * time.Duration(attempt)):
			}
		}
		err = s.txRunner.Transaction(ctx, fn)
		if err == nil || !errors.Is(err, apperrors.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}

// uniquePNR draws locator codes until one misses the table. Collisions on
// a 28^10 space are vanishingly rare so two draws is already generous.
func (s *service) uniquePNR(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		pnr, err := generatePNR()
		if err != nil {
			return "", err
		}
		exists, err := s.repo.PNRExists(ctx, pnr)
		if err != nil {
			return "", err
		}
		if !exists {
			return pnr, nil
		}
	}
	return "", fmt.Errorf("failed to allocate a unique PNR")
}

func (s *service) buildTicketResponse(ticket *Ticket, facts *catalog.JourneyFacts, fareBreakdown fare.Breakdown) *TicketResponse {
	return &TicketResponse{
		TicketID:    ticket.ID,
		PNR:         ticket.PNR,
		Status:      ticket.Status,
		TrainNumber: facts.TrainNumber,
		TrainName:   facts.TrainName,
		ClassCode:   facts.ClassCode,
		SourceCode:  facts.SourceCode,
		DestCode:    facts.DestCode,
		DepartureAt: facts.DepartureAt,
		TotalFare:   ticket.TotalFare,
		Fare:        fareBreakdown,
		BookedAt:    ticket.BookedAt,
		Lines:       newLineResponses(ticket.Lines),
	}
}
