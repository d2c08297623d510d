package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"fitledger/internal/config"
	"fitledger/internal/metrics"
	"fitledger/internal/model"
	"fitledger/internal/repository"
	"fitledger/pkg/idgen"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GrantService applies admin credit grants: STUDENT_CLASS grants land
// on the student class balance/ledger, PROFESSOR_HOUR grants on the
// professor hour balance/ledger. The two paths never mix, and every
// successful grant leaves exactly one audit record pointing at exactly
// one ledger transaction.
type GrantService struct {
	db              *gorm.DB
	cfg             *config.Config
	userRepo        *repository.UserRepository
	balanceRepo     *repository.BalanceRepository
	transactionRepo *repository.TransactionRepository
	grantRepo       *repository.GrantRepository
	outboxRepo      *repository.OutboxRepository
}

func NewGrantService(db *gorm.DB, cfg *config.Config) *GrantService {
	return &GrantService{
		db:              db,
		cfg:             cfg,
		userRepo:        repository.NewUserRepository(db),
		balanceRepo:     repository.NewBalanceRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
		grantRepo:       repository.NewGrantRepository(db),
		outboxRepo:      repository.NewOutboxRepository(db),
	}
}

type GrantRequest struct {
	UserEmail           string
	CreditType          string
	Quantity            int
	Reason              string
	ConfirmHighQuantity bool
}

// GrantResult populates exactly one of StudentTransaction /
// HourTransaction (and the matching balance); the other side stays
// nil.
type GrantResult struct {
	GrantID            string                         `json:"grant_id"`
	StudentTransaction *model.StudentClassTransaction `json:"student_transaction,omitempty"`
	HourTransaction    *model.HourTransaction         `json:"hour_transaction,omitempty"`
	StudentBalance     *model.StudentClassBalance     `json:"student_balance,omitempty"`
	ProfessorBalance   *model.ProfHourBalance         `json:"professor_balance,omitempty"`
}

// GrantCredit validates, authorizes and applies a grant. All checks —
// input validation, recipient resolution, franchise scope, audit field
// completeness — run before any mutation; the balance update, ledger
// append, audit record and outbox event then land in one DB
// transaction.
func (s *GrantService) GrantCredit(ctx context.Context, admin AdminContext, req *GrantRequest) (*GrantResult, error) {
	if req.CreditType != model.CreditTypeStudentClass && req.CreditType != model.CreditTypeProfessorHour {
		return nil, domainErr(CodeValidationError, fmt.Sprintf("Tipo de crédito inválido: %s", req.CreditType))
	}
	if req.Quantity <= 0 {
		return nil, domainErr(CodeValidationError, "A quantidade deve ser um número inteiro positivo")
	}
	if req.Reason == "" {
		return nil, domainErr(CodeValidationError, "O motivo da concessão é obrigatório")
	}

	// Confirmation gate, not a cap: large grants go through when the
	// caller explicitly confirms.
	threshold := s.cfg.Business.HighQuantityThreshold
	if threshold <= 0 {
		threshold = 100
	}
	if req.Quantity > threshold && !req.ConfirmHighQuantity {
		return nil, domainErr(CodeConfirmationRequired,
			fmt.Sprintf("Concessões acima de %d créditos exigem confirmação explícita", threshold))
	}

	recipient, err := s.userRepo.GetByEmail(ctx, req.UserEmail)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, domainErr(CodeUserNotFound, "Usuário não encontrado para o e-mail informado")
		}
		return nil, err
	}

	associations, err := s.userRepo.ListAssociations(ctx, recipient.ID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeForFranchise(admin, recipient.ID, associations); err != nil {
		return nil, err
	}

	grantedBy, err := s.userRepo.GetByID(ctx, admin.AdminID)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, domainErr(CodeValidationError, "Administrador concedente não encontrado")
		}
		return nil, err
	}

	// The audit record is all-or-nothing: build and validate it in
	// full before touching any balance, so a missing field can never
	// leave a ledger entry without its audit row.
	transactionNo := idgen.GenerateTransactionNo()
	grant := &model.CreditGrant{
		ID:             uuid.NewString(),
		RecipientID:    recipient.ID,
		RecipientEmail: recipient.Email,
		RecipientName:  recipient.Name,
		CreditType:     req.CreditType,
		Quantity:       req.Quantity,
		Reason:         req.Reason,
		GrantedByID:    grantedBy.ID,
		GrantedByEmail: grantedBy.Email,
		FranqueadoraID: admin.FranqueadoraID,
		FranchiseID:    admin.FranchiseID,
		TransactionID:  transactionNo,
	}
	if err := validateGrantAudit(grant); err != nil {
		return nil, err
	}

	meta := model.TransactionMeta{
		GrantedByID: grantedBy.ID,
		Reason:      req.Reason,
		GrantType:   req.CreditType,
	}
	metaBytes, _ := json.Marshal(meta)

	result := &GrantResult{GrantID: grant.ID}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		switch req.CreditType {
		case model.CreditTypeStudentClass:
			if _, err := s.balanceRepo.GetOrCreateStudentBalance(ctx, tx, recipient.ID, admin.FranqueadoraID); err != nil {
				return fmt.Errorf("falha ao obter saldo do aluno: %w", err)
			}
			if err := s.balanceRepo.IncreaseStudentPurchased(ctx, tx, recipient.ID, admin.FranqueadoraID, req.Quantity); err != nil {
				return fmt.Errorf("falha ao creditar aulas: %w", err)
			}

			transaction := &model.StudentClassTransaction{
				TransactionNo:  transactionNo,
				StudentID:      recipient.ID,
				FranqueadoraID: admin.FranqueadoraID,
				Type:           model.TransactionTypeGrant,
				Source:         model.TransactionSourceAdmin,
				Qty:            req.Quantity,
				MetaJSON:       string(metaBytes),
			}
			if err := s.transactionRepo.CreateStudentTransaction(ctx, tx, transaction); err != nil {
				return fmt.Errorf("falha ao registrar transação: %w", err)
			}
			result.StudentTransaction = transaction

			balance, err := s.balanceRepo.GetOrCreateStudentBalance(ctx, tx, recipient.ID, admin.FranqueadoraID)
			if err != nil {
				return fmt.Errorf("falha ao recarregar saldo: %w", err)
			}
			result.StudentBalance = balance

		case model.CreditTypeProfessorHour:
			if _, err := s.balanceRepo.GetOrCreateProfessorBalance(ctx, tx, recipient.ID, admin.FranqueadoraID); err != nil {
				return fmt.Errorf("falha ao obter saldo do professor: %w", err)
			}
			if err := s.balanceRepo.IncreaseProfessorAvailable(ctx, tx, recipient.ID, admin.FranqueadoraID, float64(req.Quantity)); err != nil {
				return fmt.Errorf("falha ao creditar horas: %w", err)
			}

			transaction := &model.HourTransaction{
				TransactionNo:  transactionNo,
				ProfessorID:    recipient.ID,
				FranqueadoraID: admin.FranqueadoraID,
				Type:           model.TransactionTypeGrant,
				Source:         model.TransactionSourceAdmin,
				Hours:          float64(req.Quantity),
				MetaJSON:       string(metaBytes),
			}
			if err := s.transactionRepo.CreateHourTransaction(ctx, tx, transaction); err != nil {
				return fmt.Errorf("falha ao registrar transação: %w", err)
			}
			result.HourTransaction = transaction

			balance, err := s.balanceRepo.GetOrCreateProfessorBalance(ctx, tx, recipient.ID, admin.FranqueadoraID)
			if err != nil {
				return fmt.Errorf("falha ao recarregar saldo: %w", err)
			}
			result.ProfessorBalance = balance
		}

		if err := s.grantRepo.Create(ctx, tx, grant); err != nil {
			return fmt.Errorf("falha ao registrar concessão: %w", err)
		}

		eventPayload := map[string]interface{}{
			"grant_id":        grant.ID,
			"recipient_id":    recipient.ID,
			"credit_type":     req.CreditType,
			"quantity":        req.Quantity,
			"granted_by_id":   grantedBy.ID,
			"franqueadora_id": admin.FranqueadoraID,
			"granted_at":      time.Now().Format(time.RFC3339),
		}
		payloadBytes, _ := json.Marshal(eventPayload)

		outboxMsg := &model.OutboxMessage{
			MessageKey: grant.ID,
			Topic:      s.cfg.Kafka.Topic.CreditGranted,
			Payload:    string(payloadBytes),
			Status:     model.OutboxStatusPending,
		}
		if err := s.outboxRepo.Create(ctx, tx, outboxMsg); err != nil {
			return fmt.Errorf("falha ao gravar evento: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	metrics.CreditGrants.WithLabelValues(req.CreditType).Inc()

	log.Printf("[Grant] concessão registrada: grant=%s recipient=%s type=%s qty=%d by=%s",
		grant.ID, recipient.ID, req.CreditType, req.Quantity, grantedBy.ID)

	return result, nil
}

func validateGrantAudit(grant *model.CreditGrant) error {
	missing := ""
	switch {
	case grant.RecipientID == "":
		missing = "recipientId"
	case grant.RecipientEmail == "":
		missing = "recipientEmail"
	case grant.RecipientName == "":
		missing = "recipientName"
	case grant.CreditType == "":
		missing = "creditType"
	case grant.Quantity <= 0:
		missing = "quantity"
	case grant.Reason == "":
		missing = "reason"
	case grant.GrantedByID == "":
		missing = "grantedById"
	case grant.GrantedByEmail == "":
		missing = "grantedByEmail"
	case grant.FranqueadoraID == "":
		missing = "franqueadoraId"
	case grant.TransactionID == "":
		missing = "transactionId"
	}
	if missing != "" {
		return domainErr(CodeValidationError,
			fmt.Sprintf("Registro de auditoria incompleto: campo obrigatório ausente (%s)", missing))
	}
	return nil
}
