package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Station represents a stop on the network
type Station struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code      string    `gorm:"type:varchar(8);unique;not null" json:"code"`
	Name      string    `gorm:"not null" json:"name"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Train represents a scheduled service that runs journeys
type Train struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Number      int       `gorm:"unique;not null" json:"number"`
	Name        string    `gorm:"not null" json:"name"`
	IsSuperfast bool      `gorm:"default:false" json:"is_superfast"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Classes []TrainClass `json:"classes,omitempty" gorm:"foreignKey:TrainID;constraint:OnDelete:CASCADE;"`
}

// TrainClass is a bookable fare class on a train. It carries the per-km
// rate and the capacity template applied to every journey of the train.
type TrainClass struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TrainID       uuid.UUID `gorm:"type:uuid;index;not null" json:"train_id"`
	Code          string    `gorm:"type:varchar(4);not null;uniqueIndex:idx_train_class" json:"code"`
	RatePerKm     float64   `gorm:"not null" json:"rate_per_km"`
	TotalSeats    int       `gorm:"not null" json:"total_seats"`
	SeatsPerCoach int       `gorm:"not null;default:72" json:"seats_per_coach"`
	RacMax        int       `gorm:"not null;default:0" json:"rac_max"`
	WaitlistMax   int       `gorm:"not null;default:0" json:"waitlist_max"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Train *Train `json:"train,omitempty" gorm:"foreignKey:TrainID;constraint:OnDelete:CASCADE;"`
}

// Journey is one priced, dated leg of a train's run. Immutable once
// created except for administrative correction; every ticket references one.
type Journey struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TrainID       uuid.UUID `gorm:"type:uuid;index;not null" json:"train_id"`
	SourceID      uuid.UUID `gorm:"type:uuid;not null" json:"source_id"`
	DestinationID uuid.UUID `gorm:"type:uuid;not null" json:"destination_id"`
	TravelDate    time.Time `gorm:"type:date;not null;index" json:"travel_date"`
	DepartureAt   time.Time `gorm:"not null" json:"departure_at"`
	DistanceKm    float64   `gorm:"not null" json:"distance_km"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Train       *Train   `json:"train,omitempty" gorm:"foreignKey:TrainID;constraint:OnDelete:RESTRICT;"`
	Source      *Station `json:"source,omitempty" gorm:"foreignKey:SourceID;constraint:OnDelete:RESTRICT;"`
	Destination *Station `json:"destination,omitempty" gorm:"foreignKey:DestinationID;constraint:OnDelete:RESTRICT;"`
}

// TableName sets the table name for Station
func (Station) TableName() string {
	return "stations"
}

// TableName sets the table name for Train
func (Train) TableName() string {
	return "trains"
}

// TableName sets the table name for TrainClass
func (TrainClass) TableName() string {
	return "train_classes"
}

// TableName sets the table name for Journey
func (Journey) TableName() string {
	return "journeys"
}

// JourneyFacts is the read-only view the booking core consumes: everything
// needed to price and allocate a party without touching catalog rows again.
type JourneyFacts struct {
	JourneyID   uuid.UUID `json:"journey_id"`
	ClassID     uuid.UUID `json:"class_id"`
	ClassCode   string    `json:"class_code"`
	TrainNumber int       `json:"train_number"`
	TrainName   string    `json:"train_name"`
	IsSuperfast bool      `json:"is_superfast"`
	SourceCode  string    `json:"source_code"`
	DestCode    string    `json:"dest_code"`
	DistanceKm  float64   `json:"distance_km"`
	RatePerKm   float64   `json:"rate_per_km"`
	DepartureAt time.Time `json:"departure_at"`
}
