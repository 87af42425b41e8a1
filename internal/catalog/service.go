package catalog

import (
	"context"
	"fmt"
	"time"

	"railres/internal/shared/constants"
	"railres/pkg/cache"

	"github.com/google/uuid"
)

// InventoryProvisioner creates the seat-class inventory rows for a new
// journey (defined here to avoid an import cycle with internal/inventory).
type InventoryProvisioner interface {
	ProvisionJourney(ctx context.Context, journeyID uuid.UUID, classes []TrainClass) error
}

// Service interface defines the contract for catalog operations. The
// booking core treats everything here as read-only immutable facts.
type Service interface {
	CreateStation(ctx context.Context, req CreateStationRequest) (*Station, error)
	ListStations(ctx context.Context) ([]Station, error)

	CreateTrain(ctx context.Context, req CreateTrainRequest) (*Train, error)
	ListTrains(ctx context.Context) ([]Train, error)

	CreateJourney(ctx context.Context, req CreateJourneyRequest) (*Journey, error)
	GetJourney(ctx context.Context, id uuid.UUID) (*Journey, error)
	SearchJourneys(ctx context.Context, sourceCode, destCode, travelDate string) ([]Journey, error)

	// GetJourneyFacts is the lookup the booking and billing paths use.
	GetJourneyFacts(ctx context.Context, journeyID, classID uuid.UUID) (*JourneyFacts, error)
}

type service struct {
	repo        Repository
	cache       cache.Service
	cacheTTL    time.Duration
	provisioner InventoryProvisioner
}

// NewService creates a new catalog service instance
func NewService(repo Repository, cacheService cache.Service, cacheTTL time.Duration, provisioner InventoryProvisioner) Service {
	return &service{
		repo:        repo,
		cache:       cacheService,
		cacheTTL:    cacheTTL,
		provisioner: provisioner,
	}
}

func (s *service) CreateStation(ctx context.Context, req CreateStationRequest) (*Station, error) {
	station := &Station{
		Code: req.Code,
		Name: req.Name,
		City: req.City,
	}
	if err := s.repo.CreateStation(ctx, station); err != nil {
		return nil, fmt.Errorf("failed to create station: %w", err)
	}
	return station, nil
}

func (s *service) ListStations(ctx context.Context) ([]Station, error) {
	return s.repo.ListStations(ctx)
}

func (s *service) CreateTrain(ctx context.Context, req CreateTrainRequest) (*Train, error) {
	train := &Train{
		Number:      req.Number,
		Name:        req.Name,
		IsSuperfast: req.IsSuperfast,
	}
	for _, c := range req.Classes {
		train.Classes = append(train.Classes, TrainClass{
			Code:          c.Code,
			RatePerKm:     c.RatePerKm,
			TotalSeats:    c.TotalSeats,
			SeatsPerCoach: c.SeatsPerCoach,
			RacMax:        c.RacMax,
			WaitlistMax:   c.WaitlistMax,
		})
	}
	if err := s.repo.CreateTrain(ctx, train); err != nil {
		return nil, fmt.Errorf("failed to create train: %w", err)
	}
	return train, nil
}

func (s *service) ListTrains(ctx context.Context) ([]Train, error) {
	return s.repo.ListTrains(ctx)
}

// CreateJourney creates the journey and provisions one inventory row per
// fare class of the train in the same call.
func (s *service) CreateJourney(ctx context.Context, req CreateJourneyRequest) (*Journey, error) {
	train, err := s.repo.GetTrainByID(ctx, req.TrainID)
	if err != nil {
		return nil, err
	}

	source, err := s.repo.GetStationByCode(ctx, req.SourceCode)
	if err != nil {
		return nil, err
	}
	dest, err := s.repo.GetStationByCode(ctx, req.DestCode)
	if err != nil {
		return nil, err
	}

	journey := &Journey{
		TrainID:       train.ID,
		SourceID:      source.ID,
		DestinationID: dest.ID,
		TravelDate:    req.DepartureAt.Truncate(24 * time.Hour),
		DepartureAt:   req.DepartureAt,
		DistanceKm:    req.DistanceKm,
	}
	if err := s.repo.CreateJourney(ctx, journey); err != nil {
		return nil, fmt.Errorf("failed to create journey: %w", err)
	}

	if s.provisioner != nil {
		if err := s.provisioner.ProvisionJourney(ctx, journey.ID, train.Classes); err != nil {
			return nil, fmt.Errorf("failed to provision inventory for journey: %w", err)
		}
	}

	return journey, nil
}

func (s *service) GetJourney(ctx context.Context, id uuid.UUID) (*Journey, error) {
	return s.repo.GetJourneyByID(ctx, id)
}

func (s *service) SearchJourneys(ctx context.Context, sourceCode, destCode, travelDate string) ([]Journey, error) {
	return s.repo.SearchJourneys(ctx, sourceCode, destCode, travelDate)
}

// GetJourneyFacts serves journey/class facts read-through from Redis.
// Journeys are immutable after creation so stale reads are not a concern
// within the TTL.
func (s *service) GetJourneyFacts(ctx context.Context, journeyID, classID uuid.UUID) (*JourneyFacts, error) {
	if s.cache == nil {
		return s.repo.GetJourneyFacts(ctx, journeyID, classID)
	}

	key := constants.BuildJourneyFactsKey(journeyID.String(), classID.String())
	var facts JourneyFacts
	err := s.cache.GetOrSet(ctx, key, s.cacheTTL, func() (interface{}, error) {
		return s.repo.GetJourneyFacts(ctx, journeyID, classID)
	}, &facts)
	if err != nil {
		return nil, err
	}
	return &facts, nil
}
