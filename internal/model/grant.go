package model

import (
	"time"
)

// Credit types a grant can target. The two paths are mutually
// exclusive: a grant never touches both balance tables.
const (
	CreditTypeStudentClass  = "STUDENT_CLASS"
	CreditTypeProfessorHour = "PROFESSOR_HOUR"
)

// CreditGrant is the audit record of an admin credit grant. Exactly
// one row per successful grant, referencing exactly one ledger
// transaction; every field except FranchiseID is mandatory. Immutable
// after creation.
type CreditGrant struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	RecipientID    string    `gorm:"type:varchar(36);index;not null" json:"recipient_id"`
	RecipientEmail string    `gorm:"type:varchar(128);not null" json:"recipient_email"`
	RecipientName  string    `gorm:"type:varchar(128);not null" json:"recipient_name"`
	CreditType     string    `gorm:"type:varchar(20);not null" json:"credit_type"`
	Quantity       int       `gorm:"not null" json:"quantity"`
	Reason         string    `gorm:"type:varchar(256);not null" json:"reason"`
	GrantedByID    string    `gorm:"type:varchar(36);index;not null" json:"granted_by_id"`
	GrantedByEmail string    `gorm:"type:varchar(128);not null" json:"granted_by_email"`
	FranqueadoraID string    `gorm:"type:varchar(36);index;not null" json:"franqueadora_id"`
	FranchiseID    *string   `gorm:"type:varchar(36)" json:"franchise_id"`
	TransactionID  string    `gorm:"type:varchar(64);not null" json:"transaction_id"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (CreditGrant) TableName() string {
	return "credit_grant"
}
