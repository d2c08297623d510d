package repository

import (
	"context"
	"errors"

	"fitledger/internal/model"

	"gorm.io/gorm"
)

var (
	ErrBookingNotFound     = errors.New("agendamento não encontrado")
	ErrBookingNotCheckable = errors.New("agendamento não está em estado de check-in")
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// MarkCompleted transitions a booking PAID -> COMPLETED with a
// compare-and-swap on the canonical status. RowsAffected == 0 means a
// concurrent check-in already took the booking; the caller must abort
// its transaction so no ledger entry survives.
func (r *BookingRepository) MarkCompleted(ctx context.Context, tx *gorm.DB, bookingID string) error {
	if tx == nil {
		tx = r.db
	}

	result := tx.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ? AND status_canonical = ?", bookingID, model.BookingStatusPaid).
		Updates(map[string]interface{}{
			"status_canonical": model.BookingStatusCompleted,
			"status":           model.BookingStatusCompleted,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrBookingNotCheckable
	}

	return nil
}
