package booking

import (
	"context"
	"errors"
	"time"

	"railres/internal/inventory"
	"railres/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Ticket operations
	CreateTicket(ctx context.Context, tx *gorm.DB, ticket *Ticket) error
	GetTicketByPNR(ctx context.Context, pnr string) (*Ticket, error)
	GetTicketByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	PNRExists(ctx context.Context, pnr string) (bool, error)

	// Cascade support: all reads/writes below run inside the caller's
	// transaction while the inventory row lock is held.
	GetTicketForUpdate(ctx context.Context, tx *gorm.DB, pnr string) (*Ticket, error)
	OccupiedSeats(ctx context.Context, tx *gorm.DB, journeyID, classID uuid.UUID) (map[int]bool, error)
	QueueLinesForUpdate(ctx context.Context, tx *gorm.DB, journeyID, classID uuid.UUID, status LineStatus) ([]PassengerLine, error)
	SaveLine(ctx context.Context, tx *gorm.DB, line *PassengerLine) error
	UpdateTicketStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status TicketStatus, cancelledAt *time.Time) error

	// Audit support
	QueuePositions(ctx context.Context, journeyID, classID uuid.UUID, tier inventory.Tier) ([]int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// conn picks the transaction when one is supplied.
func (r *repository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *repository) CreateTicket(ctx context.Context, tx *gorm.DB, ticket *Ticket) error {
	return r.conn(tx).WithContext(ctx).Create(ticket).Error
}

func (r *repository) GetTicketByPNR(ctx context.Context, pnr string) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("pnr = ?", pnr).
		First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) GetTicketByID(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("id = ?", id).
		First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) PNRExists(ctx context.Context, pnr string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Ticket{}).Where("pnr = ?", pnr).Count(&count).Error
	return count > 0, err
}

func (r *repository) GetTicketForUpdate(ctx context.Context, tx *gorm.DB, pnr string) (*Ticket, error) {
	var ticket Ticket
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("pnr = ?", pnr).
		First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	err = tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("ticket_id = ?", ticket.ID).
		Order("created_at ASC").
		Find(&ticket.Lines).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) OccupiedSeats(ctx context.Context, tx *gorm.DB, journeyID, classID uuid.UUID) (map[int]bool, error) {
	var seats []int
	err := r.conn(tx).WithContext(ctx).
		Model(&PassengerLine{}).
		Where("journey_id = ? AND class_id = ? AND status = ? AND seat_number > 0",
			journeyID, classID, LineConfirmed).
		Pluck("seat_number", &seats).Error
	if err != nil {
		return nil, err
	}

	occupied := make(map[int]bool, len(seats))
	for _, seat := range seats {
		occupied[seat] = true
	}
	return occupied, nil
}

// QueueLinesForUpdate locks and returns the active queue lines of one tier
// across all tickets, lowest position first.
func (r *repository) QueueLinesForUpdate(ctx context.Context, tx *gorm.DB, journeyID, classID uuid.UUID, status LineStatus) ([]PassengerLine, error) {
	var lines []PassengerLine
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("journey_id = ? AND class_id = ? AND status = ?", journeyID, classID, status).
		Order("queue_position ASC").
		Find(&lines).Error
	return lines, err
}

func (r *repository) SaveLine(ctx context.Context, tx *gorm.DB, line *PassengerLine) error {
	return r.conn(tx).WithContext(ctx).
		Model(&PassengerLine{}).
		Where("id = ?", line.ID).
		Updates(map[string]interface{}{
			"status":         line.Status,
			"seat_number":    line.SeatNumber,
			"coach":          line.Coach,
			"berth":          line.Berth,
			"queue_position": line.QueuePosition,
			"updated_at":     time.Now(),
		}).Error
}

func (r *repository) UpdateTicketStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status TicketStatus, cancelledAt *time.Time) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if cancelledAt != nil {
		updates["cancelled_at"] = *cancelledAt
	}
	return r.conn(tx).WithContext(ctx).
		Model(&Ticket{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) QueuePositions(ctx context.Context, journeyID, classID uuid.UUID, tier inventory.Tier) ([]int, error) {
	status := LineStatus(tier)
	var positions []int
	err := r.db.WithContext(ctx).
		Model(&PassengerLine{}).
		Where("journey_id = ? AND class_id = ? AND status = ?", journeyID, classID, status).
		Order("queue_position ASC").
		Pluck("queue_position", &positions).Error
	return positions, err
}
