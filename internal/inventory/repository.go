package inventory

import (
	"context"
	"errors"
	"fmt"

	"railres/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, inv *SeatClassInventory) error
	GetByJourneyClass(ctx context.Context, journeyID, classID uuid.UUID) (*SeatClassInventory, error)
	ListAll(ctx context.Context) ([]SeatClassInventory, error)

	// LockForUpdate loads the inventory row under SELECT ... FOR UPDATE.
	// Must be called inside tx; the lock is held until tx ends.
	LockForUpdate(ctx context.Context, tx *gorm.DB, journeyID, classID uuid.UUID) (*SeatClassInventory, error)

	// SaveCounters persists the counter fields guarded by the optimistic
	// version column. A version mismatch reports ErrConcurrencyConflict.
	SaveCounters(ctx context.Context, tx *gorm.DB, inv *SeatClassInventory) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, inv *SeatClassInventory) error {
	if err := inv.Check(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *repository) GetByJourneyClass(ctx context.Context, journeyID, classID uuid.UUID) (*SeatClassInventory, error) {
	var inv SeatClassInventory
	err := r.db.WithContext(ctx).
		Where("journey_id = ? AND class_id = ?", journeyID, classID).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidReference
		}
		return nil, err
	}
	return &inv, nil
}

func (r *repository) ListAll(ctx context.Context) ([]SeatClassInventory, error) {
	var invs []SeatClassInventory
	err := r.db.WithContext(ctx).Find(&invs).Error
	return invs, err
}

func (r *repository) LockForUpdate(ctx context.Context, tx *gorm.DB, journeyID, classID uuid.UUID) (*SeatClassInventory, error) {
	var inv SeatClassInventory
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("journey_id = ? AND class_id = ?", journeyID, classID).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidReference
		}
		return nil, err
	}
	return &inv, nil
}

func (r *repository) SaveCounters(ctx context.Context, tx *gorm.DB, inv *SeatClassInventory) error {
	if err := inv.Check(); err != nil {
		return err
	}

	result := tx.WithContext(ctx).
		Model(&SeatClassInventory{}).
		Where("id = ? AND version = ?", inv.ID, inv.Version).
		Updates(map[string]interface{}{
			"confirmed_count":  inv.ConfirmedCount,
			"rac_current":      inv.RacCurrent,
			"waitlist_current": inv.WaitlistCurrent,
			"version":          inv.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("inventory %s version %d was updated concurrently: %w",
			inv.ID, inv.Version, apperrors.ErrConcurrencyConflict)
	}
	inv.Version++
	return nil
}
