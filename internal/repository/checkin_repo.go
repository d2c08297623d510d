package repository

import (
	"context"

	"fitledger/internal/model"

	"gorm.io/gorm"
)

// CheckinRepository persists the check-in attempt audit trail.
// Append-only, denied attempts included.
type CheckinRepository struct {
	db *gorm.DB
}

func NewCheckinRepository(db *gorm.DB) *CheckinRepository {
	return &CheckinRepository{db: db}
}

func (r *CheckinRepository) Create(ctx context.Context, tx *gorm.DB, record *model.CheckinRecord) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(record).Error
}

func (r *CheckinRepository) ListByBooking(ctx context.Context, bookingID string) ([]*model.CheckinRecord, error) {
	var records []*model.CheckinRecord
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}
