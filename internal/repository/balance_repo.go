package repository

import (
	"context"
	"errors"

	"fitledger/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrBalanceNotFound = errors.New("saldo não encontrado")
	ErrBalanceConflict = errors.New("conflito ao atualizar saldo, tente novamente")
)

type BalanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// ============================================================
// Professor hour balance
// ============================================================

func (r *BalanceRepository) GetProfessorBalance(ctx context.Context, professorID, franqueadoraID string) (*model.ProfHourBalance, error) {
	var balance model.ProfHourBalance
	err := r.db.WithContext(ctx).
		Where("professor_id = ? AND franqueadora_id = ?", professorID, franqueadoraID).
		First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBalanceNotFound
		}
		return nil, err
	}
	return &balance, nil
}

func (r *BalanceRepository) GetOrCreateProfessorBalance(ctx context.Context, tx *gorm.DB, professorID, franqueadoraID string) (*model.ProfHourBalance, error) {
	if tx == nil {
		tx = r.db
	}

	newBalance := &model.ProfHourBalance{
		ProfessorID:    professorID,
		FranqueadoraID: franqueadoraID,
	}
	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "professor_id"}, {Name: "franqueadora_id"}},
			DoNothing: true,
		}).
		Create(newBalance).Error
	if err != nil {
		return nil, err
	}

	var balance model.ProfHourBalance
	err = tx.WithContext(ctx).
		Where("professor_id = ? AND franqueadora_id = ?", professorID, franqueadoraID).
		First(&balance).Error
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// UnlockProfessorHours moves hours from locked to available in one
// guarded UPDATE. The locked_hours >= hours predicate keeps the locked
// side from going negative even under a concurrent unlock.
func (r *BalanceRepository) UnlockProfessorHours(ctx context.Context, tx *gorm.DB, professorID, franqueadoraID string, hours float64) error {
	if tx == nil {
		tx = r.db
	}

	result := tx.WithContext(ctx).
		Model(&model.ProfHourBalance{}).
		Where("professor_id = ? AND franqueadora_id = ? AND locked_hours >= ?", professorID, franqueadoraID, hours).
		Updates(map[string]interface{}{
			"locked_hours":    gorm.Expr("locked_hours - ?", hours),
			"available_hours": gorm.Expr("available_hours + ?", hours),
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrBalanceConflict
	}

	return nil
}

func (r *BalanceRepository) IncreaseProfessorAvailable(ctx context.Context, tx *gorm.DB, professorID, franqueadoraID string, hours float64) error {
	if tx == nil {
		tx = r.db
	}

	result := tx.WithContext(ctx).
		Model(&model.ProfHourBalance{}).
		Where("professor_id = ? AND franqueadora_id = ?", professorID, franqueadoraID).
		UpdateColumn("available_hours", gorm.Expr("available_hours + ?", hours))

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrBalanceNotFound
	}

	return nil
}

// ============================================================
// Student class balance
// ============================================================

func (r *BalanceRepository) GetStudentBalance(ctx context.Context, studentID, franqueadoraID string) (*model.StudentClassBalance, error) {
	var balance model.StudentClassBalance
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND franqueadora_id = ?", studentID, franqueadoraID).
		First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBalanceNotFound
		}
		return nil, err
	}
	return &balance, nil
}

func (r *BalanceRepository) GetOrCreateStudentBalance(ctx context.Context, tx *gorm.DB, studentID, franqueadoraID string) (*model.StudentClassBalance, error) {
	if tx == nil {
		tx = r.db
	}

	newBalance := &model.StudentClassBalance{
		StudentID:      studentID,
		FranqueadoraID: franqueadoraID,
	}
	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "franqueadora_id"}},
			DoNothing: true,
		}).
		Create(newBalance).Error
	if err != nil {
		return nil, err
	}

	var balance model.StudentClassBalance
	err = tx.WithContext(ctx).
		Where("student_id = ? AND franqueadora_id = ?", studentID, franqueadoraID).
		First(&balance).Error
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *BalanceRepository) IncreaseStudentPurchased(ctx context.Context, tx *gorm.DB, studentID, franqueadoraID string, qty int) error {
	if tx == nil {
		tx = r.db
	}

	result := tx.WithContext(ctx).
		Model(&model.StudentClassBalance{}).
		Where("student_id = ? AND franqueadora_id = ?", studentID, franqueadoraID).
		UpdateColumn("total_purchased", gorm.Expr("total_purchased + ?", qty))

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrBalanceNotFound
	}

	return nil
}
