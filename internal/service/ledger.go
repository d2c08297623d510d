package service

import (
	"context"

	"fitledger/internal/model"
	"fitledger/internal/repository"

	"gorm.io/gorm"
)

// LedgerService serves read-only balance and transaction views. It
// never writes: all mutation goes through CheckinService/GrantService.
type LedgerService struct {
	balanceRepo     *repository.BalanceRepository
	transactionRepo *repository.TransactionRepository
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{
		balanceRepo:     repository.NewBalanceRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
	}
}

// GetProfessorBalance returns the professor's balance, or an empty
// balance when none exists yet.
func (s *LedgerService) GetProfessorBalance(ctx context.Context, professorID, franqueadoraID string) (*model.ProfHourBalance, error) {
	balance, err := s.balanceRepo.GetProfessorBalance(ctx, professorID, franqueadoraID)
	if err != nil {
		if err == repository.ErrBalanceNotFound {
			return &model.ProfHourBalance{
				ProfessorID:    professorID,
				FranqueadoraID: franqueadoraID,
			}, nil
		}
		return nil, err
	}
	return balance, nil
}

// GetStudentBalance returns the student's balance, or an empty balance
// when none exists yet.
func (s *LedgerService) GetStudentBalance(ctx context.Context, studentID, franqueadoraID string) (*model.StudentClassBalance, error) {
	balance, err := s.balanceRepo.GetStudentBalance(ctx, studentID, franqueadoraID)
	if err != nil {
		if err == repository.ErrBalanceNotFound {
			return &model.StudentClassBalance{
				StudentID:      studentID,
				FranqueadoraID: franqueadoraID,
			}, nil
		}
		return nil, err
	}
	return balance, nil
}

func (s *LedgerService) ListProfessorTransactions(ctx context.Context, professorID string, page, pageSize int) ([]*model.HourTransaction, int64, error) {
	return s.transactionRepo.ListHourTransactions(ctx, professorID, page, pageSize)
}

func (s *LedgerService) ListStudentTransactions(ctx context.Context, studentID string, page, pageSize int) ([]*model.StudentClassTransaction, int64, error) {
	return s.transactionRepo.ListStudentTransactions(ctx, studentID, page, pageSize)
}
