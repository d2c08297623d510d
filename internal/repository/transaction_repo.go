package repository

import (
	"context"
	"errors"

	"fitledger/internal/model"

	"gorm.io/gorm"
)

// TransactionRepository writes and reads both ledgers. Writes are
// append-only: there is deliberately no Update or Delete here.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// ============================================================
// Professor hour ledger
// ============================================================

func (r *TransactionRepository) CreateHourTransaction(ctx context.Context, tx *gorm.DB, trans *model.HourTransaction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(trans).Error
}

func (r *TransactionRepository) GetHourTransactionByBooking(ctx context.Context, bookingID string) (*model.HourTransaction, error) {
	var trans model.HourTransaction
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&trans).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trans, nil
}

func (r *TransactionRepository) ListHourTransactions(ctx context.Context, professorID string, page, pageSize int) ([]*model.HourTransaction, int64, error) {
	var transactions []*model.HourTransaction
	var total int64

	query := r.db.WithContext(ctx).Model(&model.HourTransaction{}).Where("professor_id = ?", professorID)

	err := query.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	err = query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&transactions).Error

	return transactions, total, err
}

// ============================================================
// Student class ledger
// ============================================================

func (r *TransactionRepository) CreateStudentTransaction(ctx context.Context, tx *gorm.DB, trans *model.StudentClassTransaction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(trans).Error
}

func (r *TransactionRepository) GetStudentTransactionByNo(ctx context.Context, transactionNo string) (*model.StudentClassTransaction, error) {
	var trans model.StudentClassTransaction
	err := r.db.WithContext(ctx).Where("transaction_no = ?", transactionNo).First(&trans).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trans, nil
}

func (r *TransactionRepository) ListStudentTransactions(ctx context.Context, studentID string, page, pageSize int) ([]*model.StudentClassTransaction, int64, error) {
	var transactions []*model.StudentClassTransaction
	var total int64

	query := r.db.WithContext(ctx).Model(&model.StudentClassTransaction{}).Where("student_id = ?", studentID)

	err := query.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	err = query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&transactions).Error

	return transactions, total, err
}
