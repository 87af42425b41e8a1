package cancellation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"railres/internal/booking"
	"railres/internal/inventory"
	"railres/internal/shared/config"
	"railres/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxTxRetries = 3
	retryBackoff = 25 * time.Millisecond
)

// Notifier fans out cascade outcomes. Failures never roll anything back.
type Notifier interface {
	TicketCancelled(ctx context.Context, ticket *booking.Ticket, record *CancellationRecord)
	LinesPromoted(ctx context.Context, lines []booking.PassengerLine)
}

// Service interface defines the contract for the cancellation cascade engine
type Service interface {
	CancelTicket(ctx context.Context, pnr string, req CancelTicketRequest) (*CancellationResponse, error)
	GetRecordsForTicket(ctx context.Context, pnr string) ([]CancellationRecord, error)

	// ProcessPendingRefunds flips pending refunds whose processing delay
	// has elapsed. Returns how many were processed.
	ProcessPendingRefunds(ctx context.Context) (int, error)
}

// service implements the Service interface
type service struct {
	repo        Repository
	bookingRepo booking.Repository
	invRepo     inventory.Repository
	catalog     booking.CatalogFacts
	policy      config.RefundPolicy
	txRunner    booking.TxRunner
	locker      *inventory.JourneyClassLocker
	notifier    Notifier
}

// NewService creates a new cancellation service instance
func NewService(
	repo Repository,
	bookingRepo booking.Repository,
	invRepo inventory.Repository,
	catalogFacts booking.CatalogFacts,
	policy config.RefundPolicy,
	txRunner booking.TxRunner,
	locker *inventory.JourneyClassLocker,
	notifier Notifier,
) Service {
	return &service{
		repo:        repo,
		bookingRepo: bookingRepo,
		invRepo:     invRepo,
		catalog:     catalogFacts,
		policy:      policy,
		txRunner:    txRunner,
		locker:      locker,
		notifier:    notifier,
	}
}

// CancelTicket runs the full cascade as one unit of work: release the
// cancelled lines, promote RAC into the freed seats, pull the waitlist
// into the vacated RAC slots, renumber both queues, and write the
// cancellation record. The inventory row lock is held throughout so no
// concurrent booking can grab a seat mid-cascade.
func (s *service) CancelTicket(ctx context.Context, pnr string, req CancelTicketRequest) (*CancellationResponse, error) {
	ref, err := s.bookingRepo.GetTicketByPNR(ctx, pnr)
	if err != nil {
		return nil, err
	}

	facts, err := s.catalog.GetJourneyFacts(ctx, ref.JourneyID, ref.ClassID)
	if err != nil {
		return nil, err
	}

	var (
		record    *CancellationRecord
		ticket    *booking.Ticket
		promoted  []booking.PassengerLine
		plan      *CascadePlan
		cancelled int
	)

	s.locker.Lock(ref.JourneyID, ref.ClassID)
	defer s.locker.Unlock(ref.JourneyID, ref.ClassID)

	err = s.withRetry(ctx, func(tx *gorm.DB) error {
		promoted = promoted[:0]

		inv, err := s.invRepo.LockForUpdate(ctx, tx, ref.JourneyID, ref.ClassID)
		if err != nil {
			return err
		}

		ticket, err = s.bookingRepo.GetTicketForUpdate(ctx, tx, pnr)
		if err != nil {
			return err
		}

		targets, err := selectTargets(ticket, req.LineIDs)
		if err != nil {
			return err
		}
		cancelled = len(targets)

		// Step 1: flag the lines and release their counters.
		released := make([]inventory.Tier, 0, len(targets))
		var freedConfirmed, freedRAC, freedWaitlist int
		now := time.Now()
		for _, line := range targets {
			if !line.Status.CanTransitionTo(booking.LineCancelled) {
				return fmt.Errorf("line %s cannot move from %s to CANCELLED: %w",
					line.ID, line.Status, apperrors.ErrInvariantViolation)
			}
			released = append(released, line.Tier())
			switch line.Status {
			case booking.LineConfirmed:
				freedConfirmed++
			case booking.LineRAC:
				freedRAC++
			case booking.LineWaitlisted:
				freedWaitlist++
			}

			line.Status = booking.LineCancelled
			line.QueuePosition = 0
			if err := s.bookingRepo.SaveLine(ctx, tx, line); err != nil {
				return err
			}
		}
		inv.Release(released)

		// Steps 2-4: plan and apply the promotion chain. The queue reads
		// see the cancellations applied above.
		racLines, err := s.bookingRepo.QueueLinesForUpdate(ctx, tx, ref.JourneyID, ref.ClassID, booking.LineRAC)
		if err != nil {
			return err
		}
		waitLines, err := s.bookingRepo.QueueLinesForUpdate(ctx, tx, ref.JourneyID, ref.ClassID, booking.LineWaitlisted)
		if err != nil {
			return err
		}
		occupied, err := s.bookingRepo.OccupiedSeats(ctx, tx, ref.JourneyID, ref.ClassID)
		if err != nil {
			return err
		}

		plan, err = PlanCascade(CascadeInput{
			CancelledConfirmed: freedConfirmed,
			CancelledRAC:       freedRAC,
			CancelledWaitlist:  freedWaitlist,
			RACQueue:           toQueueEntries(racLines),
			WaitQueue:          toQueueEntries(waitLines),
			FreeSeats:          inventory.LowestFreeSeats(inv, occupied, freedConfirmed),
			SeatsPerCoach:      inv.SeatsPerCoach,
		})
		if err != nil {
			return err
		}

		if err := s.applyPlan(ctx, tx, plan, racLines, waitLines, &promoted); err != nil {
			return err
		}

		// A partial cancellation can promote this ticket's own surviving
		// lines; fold those updates back in before deriving its status.
		syncTicketLines(ticket, racLines, waitLines)

		inv.ConfirmedCount += plan.PromotedToConfirmed
		inv.RacCurrent += plan.PromotedToRAC - plan.PromotedToConfirmed
		inv.WaitlistCurrent -= plan.PromotedToRAC
		if err := s.invRepo.SaveCounters(ctx, tx, inv); err != nil {
			return err
		}

		if err := verifyContiguity(racLines, waitLines, plan); err != nil {
			return err
		}

		// Step 5: refund split and record. Partial cancellations refund
		// the cancelled lines' share of the fare.
		share := ticket.TotalFare * float64(len(targets)) / float64(len(ticket.Lines))
		refund, charges := ComputeRefund(s.policy, share, facts.DepartureAt, now, overrideFrom(req))

		record = &CancellationRecord{
			TicketID:            ticket.ID,
			Reason:              req.Reason,
			CancelledLineCount:  len(targets),
			RefundAmount:        refund,
			CancellationCharges: charges,
			RefundStatus:        RefundPending,
			RequestedAt:         now,
		}
		if err := s.repo.CreateRecord(ctx, tx, record); err != nil {
			return err
		}

		status := booking.DeriveTicketStatus(ticket.Lines)
		var cancelledAt *time.Time
		if status == booking.TicketCancelled {
			cancelledAt = &now
		}
		ticket.Status = status
		return s.bookingRepo.UpdateTicketStatus(ctx, tx, ticket.ID, status, cancelledAt)
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.TicketCancelled(ctx, ticket, record)
		if len(promoted) > 0 {
			s.notifier.LinesPromoted(ctx, promoted)
		}
	}

	return &CancellationResponse{
		RecordID:            record.ID,
		PNR:                 pnr,
		CancelledLines:      cancelled,
		RefundAmount:        record.RefundAmount,
		CancellationCharges: record.CancellationCharges,
		RefundStatus:        record.RefundStatus,
		PromotedToConfirmed: plan.PromotedToConfirmed,
		PromotedToRAC:       plan.PromotedToRAC,
	}, nil
}

func (s *service) GetRecordsForTicket(ctx context.Context, pnr string) ([]CancellationRecord, error) {
	ticket, err := s.bookingRepo.GetTicketByPNR(ctx, pnr)
	if err != nil {
		return nil, err
	}
	return s.repo.GetRecordsByTicketID(ctx, ticket.ID)
}

func (s *service) ProcessPendingRefunds(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.policy.ProcessingDelay)
	records, err := s.repo.ListPendingBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	processed := 0
	for i := range records {
		if err := s.repo.MarkProcessed(ctx, records[i].ID, time.Now()); err != nil {
			return processed, err
		}
		processed++
	}
	return processed, nil
}

// selectTargets picks the active lines to cancel: the requested subset, or
// every active line when none is named. All-cancelled is reported
// explicitly instead of silently double-releasing.
func selectTargets(ticket *booking.Ticket, lineIDs []uuid.UUID) ([]*booking.PassengerLine, error) {
	wanted := make(map[uuid.UUID]bool, len(lineIDs))
	for _, id := range lineIDs {
		wanted[id] = true
	}

	var targets []*booking.PassengerLine
	for i := range ticket.Lines {
		line := &ticket.Lines[i]
		if !line.IsActive() {
			continue
		}
		if len(wanted) == 0 || wanted[line.ID] {
			targets = append(targets, line)
		}
	}

	if len(targets) == 0 {
		return nil, apperrors.ErrAlreadyCancelled
	}
	if len(wanted) > 0 && len(targets) != len(wanted) {
		return nil, fmt.Errorf("some requested lines are unknown or already cancelled: %w", apperrors.ErrAlreadyCancelled)
	}
	return targets, nil
}

func (s *service) applyPlan(ctx context.Context, tx *gorm.DB, plan *CascadePlan, racLines, waitLines []booking.PassengerLine, promoted *[]booking.PassengerLine) error {
	racByID := linesByID(racLines)
	waitByID := linesByID(waitLines)

	for _, grant := range plan.ConfirmRAC {
		line := racByID[grant.LineID]
		line.Status = booking.LineConfirmed
		line.SeatNumber = grant.SeatNumber
		line.Coach = grant.Coach
		line.Berth = grant.Berth
		line.QueuePosition = 0
		if err := s.bookingRepo.SaveLine(ctx, tx, line); err != nil {
			return err
		}
		*promoted = append(*promoted, *line)
	}

	for _, grant := range plan.RenumberRAC {
		line := racByID[grant.LineID]
		line.QueuePosition = grant.Position
		if err := s.bookingRepo.SaveLine(ctx, tx, line); err != nil {
			return err
		}
	}

	for _, grant := range plan.PromoteWaitlist {
		line := waitByID[grant.LineID]
		line.Status = booking.LineRAC
		line.QueuePosition = grant.Position
		if err := s.bookingRepo.SaveLine(ctx, tx, line); err != nil {
			return err
		}
		*promoted = append(*promoted, *line)
	}

	for _, grant := range plan.RenumberWaitlist {
		line := waitByID[grant.LineID]
		line.QueuePosition = grant.Position
		if err := s.bookingRepo.SaveLine(ctx, tx, line); err != nil {
			return err
		}
	}

	return nil
}

// verifyContiguity re-checks the queue invariant on the post-plan
// positions before the transaction commits.
func verifyContiguity(racLines, waitLines []booking.PassengerLine, plan *CascadePlan) error {
	confirmed := make(map[uuid.UUID]bool, len(plan.ConfirmRAC))
	for _, grant := range plan.ConfirmRAC {
		confirmed[grant.LineID] = true
	}

	var racPositions []int
	for i := range racLines {
		if !confirmed[racLines[i].ID] {
			racPositions = append(racPositions, racLines[i].QueuePosition)
		}
	}
	promotedToRAC := make(map[uuid.UUID]bool, len(plan.PromoteWaitlist))
	for _, grant := range plan.PromoteWaitlist {
		racPositions = append(racPositions, grant.Position)
		promotedToRAC[grant.LineID] = true
	}
	if err := inventory.CheckQueueContiguity(racPositions); err != nil {
		return err
	}

	var waitPositions []int
	for i := range waitLines {
		if !promotedToRAC[waitLines[i].ID] {
			waitPositions = append(waitPositions, waitLines[i].QueuePosition)
		}
	}
	return inventory.CheckQueueContiguity(waitPositions)
}

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

func syncTicketLines(ticket *booking.Ticket, racLines, waitLines []booking.PassengerLine) {
	updated := make(map[uuid.UUID]*booking.PassengerLine, len(racLines)+len(waitLines))
	for i := range racLines {
		updated[racLines[i].ID] = &racLines[i]
	}
	for i := range waitLines {
		updated[waitLines[i].ID] = &waitLines[i]
	}
	for i := range ticket.Lines {
		if line, ok := updated[ticket.Lines[i].ID]; ok {
			ticket.Lines[i] = *line
		}
	}
}

func toQueueEntries(lines []booking.PassengerLine) []QueueEntry {
	entries := make([]QueueEntry, 0, len(lines))
	for i := range lines {
		entries = append(entries, QueueEntry{LineID: lines[i].ID, Position: lines[i].QueuePosition})
	}
	return entries
}

func linesByID(lines []booking.PassengerLine) map[uuid.UUID]*booking.PassengerLine {
	byID := make(map[uuid.UUID]*booking.PassengerLine, len(lines))
	for i := range lines {
		byID[lines[i].ID] = &lines[i]
	}
	return byID
}

func overrideFrom(req CancelTicketRequest) *RefundOverride {
	if req.RefundAmount == nil && req.CancellationCharges == nil {
		return nil
	}
	return &RefundOverride{RefundAmount: req.RefundAmount, CancellationCharges: req.CancellationCharges}
}
