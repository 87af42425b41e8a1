package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// No two confirmed passengers may hold the same seat on a journey/class
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_confirmed_seat_per_class
		ON passenger_lines (journey_id, class_id, seat_number)
		WHERE status = 'CONFIRMED' AND seat_number > 0;
	`).Error
	if err != nil {
		return err
	}

	// Queue positions must be unique within a tier on a journey/class
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_queue_position_per_tier
		ON passenger_lines (journey_id, class_id, status, queue_position)
		WHERE status IN ('RAC', 'WAITLISTED');
	`).Error
	if err != nil {
		return err
	}

	// Index for cascade queue scans
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_passenger_lines_queue_scan
		ON passenger_lines (journey_id, class_id, status, queue_position);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
