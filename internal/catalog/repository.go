package catalog

import (
	"context"
	"errors"
	"fmt"

	"railres/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Station operations
	CreateStation(ctx context.Context, station *Station) error
	GetStationByCode(ctx context.Context, code string) (*Station, error)
	ListStations(ctx context.Context) ([]Station, error)

	// Train operations
	CreateTrain(ctx context.Context, train *Train) error
	GetTrainByID(ctx context.Context, id uuid.UUID) (*Train, error)
	ListTrains(ctx context.Context) ([]Train, error)

	// Class operations
	GetClassByID(ctx context.Context, id uuid.UUID) (*TrainClass, error)

	// Journey operations
	CreateJourney(ctx context.Context, journey *Journey) error
	GetJourneyByID(ctx context.Context, id uuid.UUID) (*Journey, error)
	SearchJourneys(ctx context.Context, sourceCode, destCode string, travelDate string) ([]Journey, error)
	GetJourneyFacts(ctx context.Context, journeyID, classID uuid.UUID) (*JourneyFacts, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateStation(ctx context.Context, station *Station) error {
	return r.db.WithContext(ctx).Create(station).Error
}

func (r *repository) GetStationByCode(ctx context.Context, code string) (*Station, error) {
	var station Station
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&station).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidReference
		}
		return nil, err
	}
	return &station, nil
}

func (r *repository) ListStations(ctx context.Context) ([]Station, error) {
	var stations []Station
	err := r.db.WithContext(ctx).Order("code ASC").Find(&stations).Error
	return stations, err
}

func (r *repository) CreateTrain(ctx context.Context, train *Train) error {
	return r.db.WithContext(ctx).Create(train).Error
}

func (r *repository) GetTrainByID(ctx context.Context, id uuid.UUID) (*Train, error) {
	var train Train
	err := r.db.WithContext(ctx).
		Preload("Classes").
		Where("id = ?", id).
		First(&train).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidReference
		}
		return nil, err
	}
	return &train, nil
}

func (r *repository) ListTrains(ctx context.Context) ([]Train, error) {
	var trains []Train
	err := r.db.WithContext(ctx).Preload("Classes").Order("number ASC").Find(&trains).Error
	return trains, err
}

func (r *repository) GetClassByID(ctx context.Context, id uuid.UUID) (*TrainClass, error) {
	var class TrainClass
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&class).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidReference
		}
		return nil, err
	}
	return &class, nil
}

func (r *repository) CreateJourney(ctx context.Context, journey *Journey) error {
	return r.db.WithContext(ctx).Create(journey).Error
}

func (r *repository) GetJourneyByID(ctx context.Context, id uuid.UUID) (*Journey, error) {
	var journey Journey
	err := r.db.WithContext(ctx).
		Preload("Train").
		Preload("Source").
		Preload("Destination").
		Where("id = ?", id).
		First(&journey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidReference
		}
		return nil, err
	}
	return &journey, nil
}

func (r *repository) SearchJourneys(ctx context.Context, sourceCode, destCode string, travelDate string) ([]Journey, error) {
	var journeys []Journey
	query := r.db.WithContext(ctx).
		Preload("Train.Classes").
		Preload("Source").
		Preload("Destination").
		Joins("JOIN stations src ON src.id = journeys.source_id").
		Joins("JOIN stations dst ON dst.id = journeys.destination_id").
		Where("src.code = ? AND dst.code = ?", sourceCode, destCode)
	if travelDate != "" {
		query = query.Where("journeys.travel_date = ?", travelDate)
	}
	err := query.Order("journeys.departure_at ASC").Find(&journeys).Error
	return journeys, err
}

func (r *repository) GetJourneyFacts(ctx context.Context, journeyID, classID uuid.UUID) (*JourneyFacts, error) {
	journey, err := r.GetJourneyByID(ctx, journeyID)
	if err != nil {
		return nil, err
	}

	class, err := r.GetClassByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class.TrainID != journey.TrainID {
		return nil, fmt.Errorf("class %s does not belong to journey's train: %w", class.Code, apperrors.ErrInvalidReference)
	}

	facts := &JourneyFacts{
		JourneyID:   journey.ID,
		ClassID:     class.ID,
		ClassCode:   class.Code,
		DistanceKm:  journey.DistanceKm,
		RatePerKm:   class.RatePerKm,
		DepartureAt: journey.DepartureAt,
	}
	if journey.Train != nil {
		facts.TrainNumber = journey.Train.Number
		facts.TrainName = journey.Train.Name
		facts.IsSuperfast = journey.Train.IsSuperfast
	}
	if journey.Source != nil {
		facts.SourceCode = journey.Source.Code
	}
	if journey.Destination != nil {
		facts.DestCode = journey.Destination.Code
	}
	return facts, nil
}
