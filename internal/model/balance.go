package model

import (
	"time"
)

// Balance rows are redundant aggregates over the ledgers. They are
// only ever mutated as a side effect of a ledger-affecting operation,
// in the same DB transaction that appends the entry. available+locked
// never go negative.

// ProfHourBalance holds a professor's hour balance per franqueadora.
type ProfHourBalance struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfessorID    string    `gorm:"type:varchar(36);uniqueIndex:idx_prof_franq;not null" json:"professor_id"`
	FranqueadoraID string    `gorm:"type:varchar(36);uniqueIndex:idx_prof_franq;not null" json:"franqueadora_id"`
	UnitID         *string   `gorm:"type:varchar(36)" json:"unit_id"`
	AvailableHours float64   `gorm:"not null;default:0" json:"available_hours"`
	LockedHours    float64   `gorm:"not null;default:0" json:"locked_hours"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProfHourBalance) TableName() string {
	return "prof_hour_balance"
}

// StudentClassBalance holds a student's class-credit balance per
// franqueadora.
type StudentClassBalance struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID      string    `gorm:"type:varchar(36);uniqueIndex:idx_student_franq;not null" json:"student_id"`
	FranqueadoraID string    `gorm:"type:varchar(36);uniqueIndex:idx_student_franq;not null" json:"franqueadora_id"`
	UnitID         *string   `gorm:"type:varchar(36)" json:"unit_id"`
	TotalPurchased int       `gorm:"not null;default:0" json:"total_purchased"`
	LockedQty      int       `gorm:"not null;default:0" json:"locked_qty"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StudentClassBalance) TableName() string {
	return "student_class_balance"
}
