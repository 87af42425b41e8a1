package catalog

import (
	"time"

	"github.com/google/uuid"
)

// CreateStationRequest represents a request to register a station
type CreateStationRequest struct {
	Code string `json:"code" binding:"required,min=2,max=8,uppercase"`
	Name string `json:"name" binding:"required"`
	City string `json:"city"`
}

// ClassConfig describes one fare class when creating a train
type ClassConfig struct {
	Code          string  `json:"code" binding:"required,oneof=SL 3A 2A 1A CC EC"`
	RatePerKm     float64 `json:"rate_per_km" binding:"required,gt=0"`
	TotalSeats    int     `json:"total_seats" binding:"required,min=1"`
	SeatsPerCoach int     `json:"seats_per_coach" binding:"omitempty,min=1"`
	RacMax        int     `json:"rac_max" binding:"min=0"`
	WaitlistMax   int     `json:"waitlist_max" binding:"min=0"`
}

// CreateTrainRequest represents a request to register a train with its classes
type CreateTrainRequest struct {
	Number      int           `json:"number" binding:"required,min=1"`
	Name        string        `json:"name" binding:"required"`
	IsSuperfast bool          `json:"is_superfast"`
	Classes     []ClassConfig `json:"classes" binding:"required,min=1,dive"`
}

// CreateJourneyRequest represents a request to schedule a journey
type CreateJourneyRequest struct {
	TrainID     uuid.UUID `json:"train_id" binding:"required"`
	SourceCode  string    `json:"source_code" binding:"required"`
	DestCode    string    `json:"dest_code" binding:"required,nefield=SourceCode"`
	DepartureAt time.Time `json:"departure_at" binding:"required"`
	DistanceKm  float64   `json:"distance_km" binding:"required,gt=0"`
}
