package cancellation

import (
	"context"
	"errors"
	"time"

	"railres/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateRecord(ctx context.Context, tx *gorm.DB, record *CancellationRecord) error
	GetRecordByID(ctx context.Context, id uuid.UUID) (*CancellationRecord, error)
	GetRecordsByTicketID(ctx context.Context, ticketID uuid.UUID) ([]CancellationRecord, error)

	// Refund processing, driven by the background sweep
	ListPendingBefore(ctx context.Context, cutoff time.Time) ([]CancellationRecord, error)
	MarkProcessed(ctx context.Context, id uuid.UUID, processedAt time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *repository) CreateRecord(ctx context.Context, tx *gorm.DB, record *CancellationRecord) error {
	return r.conn(tx).WithContext(ctx).Create(record).Error
}

func (r *repository) GetRecordByID(ctx context.Context, id uuid.UUID) (*CancellationRecord, error) {
	var record CancellationRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidReference
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) GetRecordsByTicketID(ctx context.Context, ticketID uuid.UUID) ([]CancellationRecord, error) {
	var records []CancellationRecord
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("requested_at DESC").
		Find(&records).Error
	return records, err
}

func (r *repository) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]CancellationRecord, error) {
	var records []CancellationRecord
	err := r.db.WithContext(ctx).
		Where("refund_status = ? AND requested_at <= ?", RefundPending, cutoff).
		Order("requested_at ASC").
		Find(&records).Error
	return records, err
}

func (r *repository) MarkProcessed(ctx context.Context, id uuid.UUID, processedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&CancellationRecord{}).
		Where("id = ? AND refund_status = ?", id, RefundPending).
		Updates(map[string]interface{}{
			"refund_status": RefundProcessed,
			"processed_at":  processedAt,
			"updated_at":    time.Now(),
		}).Error
}
