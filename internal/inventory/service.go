package inventory

import (
	"context"
	"fmt"

	"railres/internal/catalog"

	"github.com/google/uuid"
)

// QueueInspector reports the live queue positions for a journey/class tier.
// Implemented by the booking repository (defined here to avoid an import
// cycle with internal/booking).
type QueueInspector interface {
	QueuePositions(ctx context.Context, journeyID, classID uuid.UUID, tier Tier) ([]int, error)
}

// Service interface defines the contract for inventory queries and
// provisioning. Counter mutation happens only inside booking/cancellation
// transactions through the Repository.
type Service interface {
	ProvisionJourney(ctx context.Context, journeyID uuid.UUID, classes []catalog.TrainClass) error
	GetAvailability(ctx context.Context, journeyID, classID uuid.UUID) (*AvailabilityResponse, error)

	// AuditAll re-checks the capacity and queue-contiguity invariants
	// across every inventory row. Returns the violations found.
	AuditAll(ctx context.Context) ([]error, error)
}

type service struct {
	repo      Repository
	inspector QueueInspector
}

// NewService creates a new inventory service instance
func NewService(repo Repository, inspector QueueInspector) Service {
	return &service{repo: repo, inspector: inspector}
}

// ProvisionJourney creates one inventory row per fare class of the journey's train.
func (s *service) ProvisionJourney(ctx context.Context, journeyID uuid.UUID, classes []catalog.TrainClass) error {
	for _, class := range classes {
		inv := &SeatClassInventory{
			JourneyID:     journeyID,
			ClassID:       class.ID,
			TotalSeats:    class.TotalSeats,
			RacMax:        class.RacMax,
			WaitlistMax:   class.WaitlistMax,
			SeatsPerCoach: class.SeatsPerCoach,
		}
		if err := s.repo.Create(ctx, inv); err != nil {
			return fmt.Errorf("failed to provision inventory for class %s: %w", class.Code, err)
		}
	}
	return nil
}

func (s *service) GetAvailability(ctx context.Context, journeyID, classID uuid.UUID) (*AvailabilityResponse, error) {
	inv, err := s.repo.GetByJourneyClass(ctx, journeyID, classID)
	if err != nil {
		return nil, err
	}

	resp := &AvailabilityResponse{
		JourneyID:    inv.JourneyID,
		ClassID:      inv.ClassID,
		SeatsLeft:    inv.TotalSeats - inv.ConfirmedCount,
		RacLeft:      inv.RacMax - inv.RacCurrent,
		WaitlistLeft: inv.WaitlistMax - inv.WaitlistCurrent,
	}
	switch {
	case resp.SeatsLeft > 0:
		resp.Status = fmt.Sprintf("AVAILABLE %d", resp.SeatsLeft)
	case resp.RacLeft > 0:
		resp.Status = fmt.Sprintf("RAC %d", inv.RacCurrent+1)
	case resp.WaitlistLeft > 0:
		resp.Status = fmt.Sprintf("WL %d", inv.WaitlistCurrent+1)
	default:
		resp.Status = "REGRET"
	}
	return resp, nil
}

func (s *service) AuditAll(ctx context.Context) ([]error, error) {
	invs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var violations []error
	for i := range invs {
		inv := &invs[i]
		if err := inv.Check(); err != nil {
			violations = append(violations, err)
			continue
		}
		if s.inspector == nil {
			continue
		}
		for _, tier := range []Tier{TierRAC, TierWaitlisted} {
			positions, err := s.inspector.QueuePositions(ctx, inv.JourneyID, inv.ClassID, tier)
			if err != nil {
				return violations, err
			}
			if err := CheckQueueContiguity(positions); err != nil {
				violations = append(violations, fmt.Errorf("journey %s class %s tier %s: %w",
					inv.JourneyID, inv.ClassID, tier, err))
			}
		}
	}
	return violations, nil
}
