package model

import (
	"time"
)

// ============================================================================
// Ledger entry types
// ============================================================================

const (
	TransactionTypePurchase    = "PURCHASE"
	TransactionTypeConsume     = "CONSUME"
	TransactionTypeBonusLock   = "BONUS_LOCK"
	TransactionTypeBonusUnlock = "BONUS_UNLOCK"
	TransactionTypeRefund      = "REFUND"
	TransactionTypeRevoke      = "REVOKE"
	TransactionTypeGrant       = "GRANT"
)

const (
	TransactionSourceAluno     = "ALUNO"
	TransactionSourceProfessor = "PROFESSOR"
	TransactionSourceSystem    = "SYSTEM"
	TransactionSourceAdmin     = "ADMIN"
)

// TransactionMeta is the free-form payload serialized into the
// meta_json column of either ledger.
type TransactionMeta struct {
	BookingID   string `json:"booking_id,omitempty"`
	Origin      string `json:"origin,omitempty"`
	StudentID   string `json:"student_id,omitempty"`
	GrantedByID string `json:"granted_by_id,omitempty"`
	Reason      string `json:"reason,omitempty"`
	GrantType   string `json:"grant_type,omitempty"`
}

// ============================================================================
// Ledger entities
// ============================================================================
//
// Both ledgers follow the same rules:
// 1. Append only — rows are never updated or deleted, so the ledger
//    stays auditable.
// 2. The balance row is mutated in the same DB transaction that
//    appends the entry; the ledger is the source of truth for it.
// 3. One entry per triggering event (check-in, grant, purchase).

// HourTransaction records a movement on a professor's hour ledger.
type HourTransaction struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionNo  string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"transaction_no"`
	ProfessorID    string    `gorm:"type:varchar(36);index;not null" json:"professor_id"`
	FranqueadoraID string    `gorm:"type:varchar(36);index;not null" json:"franqueadora_id"`
	UnitID         *string   `gorm:"type:varchar(36)" json:"unit_id"`
	Type           string    `gorm:"type:varchar(20);not null" json:"type"`
	Source         string    `gorm:"type:varchar(20);not null" json:"source"`
	Hours          float64   `gorm:"not null" json:"hours"`
	BookingID      *string   `gorm:"type:varchar(36);index" json:"booking_id"`
	MetaJSON       string    `gorm:"type:text" json:"meta_json"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (HourTransaction) TableName() string {
	return "hour_transaction"
}

// StudentClassTransaction records a movement on a student's class ledger.
type StudentClassTransaction struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionNo  string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"transaction_no"`
	StudentID      string    `gorm:"type:varchar(36);index;not null" json:"student_id"`
	FranqueadoraID string    `gorm:"type:varchar(36);index;not null" json:"franqueadora_id"`
	UnitID         *string   `gorm:"type:varchar(36)" json:"unit_id"`
	Type           string    `gorm:"type:varchar(20);not null" json:"type"`
	Source         string    `gorm:"type:varchar(20);not null" json:"source"`
	Qty            int       `gorm:"not null" json:"qty"`
	BookingID      *string   `gorm:"type:varchar(36);index" json:"booking_id"`
	MetaJSON       string    `gorm:"type:text" json:"meta_json"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (StudentClassTransaction) TableName() string {
	return "student_class_transaction"
}
