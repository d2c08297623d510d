package model

import (
	"time"
)

const (
	CheckinStatusGranted = "GRANTED"
	CheckinStatusDenied  = "DENIED"
)

// Denial reasons recorded on CheckinRecord rows.
const (
	CheckinReasonUnauthorized  = "UNAUTHORIZED"
	CheckinReasonInvalidStatus = "INVALID_STATUS"
)

// CheckinRecord is the audit trail of check-in attempts. One row per
// attempt, including denied ones; never mutated. The idempotent
// ALREADY_COMPLETED outcome writes no row — the original GRANTED row
// already covers that booking.
type CheckinRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AcademyID string    `gorm:"type:varchar(36);index;not null" json:"academy_id"`
	TeacherID string    `gorm:"type:varchar(36);index;not null" json:"teacher_id"`
	BookingID string    `gorm:"type:varchar(36);index;not null" json:"booking_id"`
	Status    string    `gorm:"type:varchar(10);not null" json:"status"`
	Reason    *string   `gorm:"type:varchar(32)" json:"reason"`
	Method    string    `gorm:"type:varchar(10);not null" json:"method"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (CheckinRecord) TableName() string {
	return "checkin_record"
}
