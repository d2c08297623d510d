package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"fitledger/internal/config"
	"fitledger/internal/infrastructure/lock"
	"fitledger/internal/metrics"
	"fitledger/internal/model"
	"fitledger/internal/repository"
	"fitledger/pkg/idgen"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// CheckinService owns the booking check-in state machine: it is the
// only writer of the PAID -> COMPLETED transition and of the
// BONUS_UNLOCK entries on the professor hour ledger.
type CheckinService struct {
	db              *gorm.DB
	redisClient     *redis.Client
	cfg             *config.Config
	bookingRepo     *repository.BookingRepository
	balanceRepo     *repository.BalanceRepository
	transactionRepo *repository.TransactionRepository
	checkinRepo     *repository.CheckinRepository
	outboxRepo      *repository.OutboxRepository
}

// NewCheckinService wires the service. redisClient may be nil (tests,
// degraded mode): the per-booking lock then becomes a no-op and the
// status compare-and-swap inside the transaction is the remaining
// guard against concurrent double check-in.
func NewCheckinService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *CheckinService {
	return &CheckinService{
		db:              db,
		redisClient:     redisClient,
		cfg:             cfg,
		bookingRepo:     repository.NewBookingRepository(db),
		balanceRepo:     repository.NewBalanceRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
		checkinRepo:     repository.NewCheckinRepository(db),
		outboxRepo:      repository.NewOutboxRepository(db),
	}
}

// Caller identifies who is attempting the check-in.
type Caller struct {
	UserID string
	Role   string
}

// CheckedInBooking is the booking payload returned on success.
type CheckedInBooking struct {
	ID              string `json:"id"`
	StatusCanonical string `json:"status_canonical"`
}

// CheckinResult is the success payload of an accepted check-in.
type CheckinResult struct {
	Booking     *CheckedInBooking      `json:"booking"`
	Transaction *model.HourTransaction `json:"transaction"`
	Balance     *model.ProfHourBalance `json:"balance"`
}

// AttemptCheckin runs the check-in state machine for one booking.
//
// The branches short-circuit in a fixed order:
//  1. authorization (teacher, student, or admin-class role);
//  2. idempotency — a terminal booking always answers
//     ALREADY_COMPLETED, before any status-validity judgment, so it
//     never degrades to INVALID_STATUS on a second attempt;
//  3. status validity — only PAID may check in;
//  4. success — ledger append, balance move, status transition and
//     audit record in one DB transaction.
//
// Denied attempts (steps 1 and 3) write a DENIED CheckinRecord; the
// idempotent outcome writes nothing at all.
func (s *CheckinService) AttemptCheckin(ctx context.Context, bookingID string, caller Caller, method string) (*CheckinResult, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// 1. Authorization
	if !s.isAuthorized(booking, caller) {
		s.recordAttempt(ctx, booking, model.CheckinStatusDenied, model.CheckinReasonUnauthorized, method)
		metrics.CheckinAttempts.WithLabelValues("unauthorized").Inc()
		return nil, domainErr(CodeUnauthorized, "Você não tem permissão para realizar o check-in deste agendamento")
	}

	// Serialize concurrent attempts on the same booking. Best effort:
	// without Redis the CAS in the transaction still prevents a double
	// credit, the loser just surfaces as ALREADY_COMPLETED later.
	if s.redisClient != nil {
		checkinLock := lock.NewCheckinLock(s.redisClient, booking.ID, caller.UserID)
		if err := checkinLock.Lock(ctx, 100*time.Millisecond, 30); err != nil {
			return nil, fmt.Errorf("sistema ocupado, tente novamente: %w", err)
		}
		defer checkinLock.Unlock(ctx)

		// Re-read under the lock; a concurrent winner may have
		// completed the booking while we waited.
		booking, err = s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
	}

	// 2. Idempotency — must run before the status-validity check.
	if booking.IsCompleted() {
		metrics.CheckinAttempts.WithLabelValues("already_completed").Inc()
		return nil, domainErr(CodeAlreadyCompleted, "Check-in já foi realizado para este agendamento")
	}

	// 3. Status validity — the literal current status goes into the
	// message so support can see what state the booking was in.
	if booking.StatusCanonical != model.BookingStatusPaid {
		s.recordAttempt(ctx, booking, model.CheckinStatusDenied, model.CheckinReasonInvalidStatus, method)
		metrics.CheckinAttempts.WithLabelValues("invalid_status").Inc()
		return nil, domainErr(CodeInvalidStatus,
			fmt.Sprintf("Agendamento não está disponível para check-in (status atual: %s)", booking.StatusCanonical))
	}

	// 4. Success path
	result, err := s.executeCheckin(ctx, booking, method)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotCheckable) {
			// Lost the CAS to a concurrent check-in.
			metrics.CheckinAttempts.WithLabelValues("already_completed").Inc()
			return nil, domainErr(CodeAlreadyCompleted, "Check-in já foi realizado para este agendamento")
		}
		metrics.CheckinAttempts.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.CheckinAttempts.WithLabelValues("granted").Inc()
	metrics.HoursUnlocked.Add(result.Transaction.Hours)

	log.Printf("[Checkin] check-in concluído: booking=%s professor=%s hours=%.2f method=%s",
		booking.ID, booking.TeacherID, result.Transaction.Hours, method)

	return result, nil
}

func (s *CheckinService) isAuthorized(booking *model.Booking, caller Caller) bool {
	if caller.UserID == booking.TeacherID {
		return true
	}
	if booking.StudentID != nil && caller.UserID == *booking.StudentID {
		return true
	}
	return model.IsAdminRole(caller.Role)
}

// executeCheckin applies the whole success path atomically: ledger
// append, locked->available move, status transition, GRANTED record
// and outbox event either all land or none do.
func (s *CheckinService) executeCheckin(ctx context.Context, booking *model.Booking, method string) (*CheckinResult, error) {
	var transaction *model.HourTransaction
	var balance *model.ProfHourBalance

	err := s.db.Transaction(func(tx *gorm.DB) error {
		current, err := s.balanceRepo.GetOrCreateProfessorBalance(ctx, tx, booking.TeacherID, booking.FranqueadoraID)
		if err != nil {
			return fmt.Errorf("falha ao obter saldo do professor: %w", err)
		}

		// Never unlock more than is locked. A booking whose nominal
		// duration exceeds the locked balance credits only what is
		// there — a safety clamp, not an error.
		hoursToCredit := booking.HoursCredited()
		hoursToUnlock := hoursToCredit
		if current.LockedHours < hoursToUnlock {
			hoursToUnlock = current.LockedHours
		}

		// With nothing locked the check-in still completes; the ledger
		// entry then records a zero-hour unlock.
		if hoursToUnlock > 0 {
			if err := s.balanceRepo.UnlockProfessorHours(ctx, tx, booking.TeacherID, booking.FranqueadoraID, hoursToUnlock); err != nil {
				return fmt.Errorf("falha ao desbloquear horas: %w", err)
			}
		}

		origin := "checkin_manual"
		if method == model.CheckinMethodQRCode {
			origin = "checkin_qrcode"
		}
		meta := model.TransactionMeta{
			BookingID: booking.ID,
			Origin:    origin,
		}
		if booking.StudentID != nil {
			meta.StudentID = *booking.StudentID
		}
		metaBytes, _ := json.Marshal(meta)

		bookingID := booking.ID
		unitID := booking.FranchiseID
		transaction = &model.HourTransaction{
			TransactionNo:  idgen.GenerateTransactionNo(),
			ProfessorID:    booking.TeacherID,
			FranqueadoraID: booking.FranqueadoraID,
			UnitID:         &unitID,
			Type:           model.TransactionTypeBonusUnlock,
			Source:         model.TransactionSourceSystem,
			Hours:          hoursToUnlock,
			BookingID:      &bookingID,
			MetaJSON:       string(metaBytes),
		}
		if err := s.transactionRepo.CreateHourTransaction(ctx, tx, transaction); err != nil {
			return fmt.Errorf("falha ao registrar transação: %w", err)
		}

		if err := s.bookingRepo.MarkCompleted(ctx, tx, booking.ID); err != nil {
			return err
		}

		record := &model.CheckinRecord{
			AcademyID: booking.FranchiseID,
			TeacherID: booking.TeacherID,
			BookingID: booking.ID,
			Status:    model.CheckinStatusGranted,
			Method:    method,
		}
		if err := s.checkinRepo.Create(ctx, tx, record); err != nil {
			return fmt.Errorf("falha ao registrar check-in: %w", err)
		}

		eventPayload := map[string]interface{}{
			"booking_id":      booking.ID,
			"professor_id":    booking.TeacherID,
			"franqueadora_id": booking.FranqueadoraID,
			"hours_unlocked":  hoursToUnlock,
			"method":          method,
			"completed_at":    time.Now().Format(time.RFC3339),
		}
		payloadBytes, _ := json.Marshal(eventPayload)

		outboxMsg := &model.OutboxMessage{
			MessageKey: booking.ID,
			Topic:      s.cfg.Kafka.Topic.CheckinCompleted,
			Payload:    string(payloadBytes),
			Status:     model.OutboxStatusPending,
		}
		if err := s.outboxRepo.Create(ctx, tx, outboxMsg); err != nil {
			return fmt.Errorf("falha ao gravar evento: %w", err)
		}

		balance, err = s.balanceRepo.GetOrCreateProfessorBalance(ctx, tx, booking.TeacherID, booking.FranqueadoraID)
		if err != nil {
			return fmt.Errorf("falha ao recarregar saldo: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return &CheckinResult{
		Booking: &CheckedInBooking{
			ID:              booking.ID,
			StatusCanonical: model.BookingStatusCompleted,
		},
		Transaction: transaction,
		Balance:     balance,
	}, nil
}

// recordAttempt writes the DENIED audit row. Failing to write it never
// masks the business outcome the caller is about to receive.
func (s *CheckinService) recordAttempt(ctx context.Context, booking *model.Booking, status, reason, method string) {
	record := &model.CheckinRecord{
		AcademyID: booking.FranchiseID,
		TeacherID: booking.TeacherID,
		BookingID: booking.ID,
		Status:    status,
		Reason:    &reason,
		Method:    method,
	}
	if err := s.checkinRepo.Create(ctx, nil, record); err != nil {
		log.Printf("[Checkin] falha ao registrar tentativa negada: booking=%s err=%v", booking.ID, err)
	}
}
