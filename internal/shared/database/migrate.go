package database

import (
	"railres/internal/booking"
	"railres/internal/cancellation"
	"railres/internal/catalog"
	"railres/internal/inventory"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalog.Station{},
		&catalog.Train{},
		&catalog.TrainClass{},
		&catalog.Journey{},
		&inventory.SeatClassInventory{},
		&booking.Ticket{},
		&booking.PassengerLine{},
		&cancellation.CancellationRecord{},
	)
}
