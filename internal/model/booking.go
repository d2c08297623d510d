package model

import (
	"time"
)

// Canonical booking statuses. StatusCanonical is the authoritative
// gate for check-in; the legacy Status column is free text kept for
// older clients and must still be checked for "COMPLETED".
const (
	BookingStatusAvailable = "AVAILABLE"
	BookingStatusPaid      = "PAID"
	BookingStatusDone      = "DONE"
	BookingStatusCanceled  = "CANCELED"
	BookingStatusCompleted = "COMPLETED"
)

// Check-in methods.
const (
	CheckinMethodQRCode = "QRCODE"
	CheckinMethodManual = "MANUAL"
)

// Booking is created by the scheduling system; this service only ever
// moves it PAID -> COMPLETED, exactly once, via check-in.
type Booking struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	StudentID       *string   `gorm:"type:varchar(36);index" json:"student_id"`
	TeacherID       string    `gorm:"type:varchar(36);index;not null" json:"teacher_id"`
	FranchiseID     string    `gorm:"type:varchar(36);index;not null" json:"franchise_id"`
	FranqueadoraID  string    `gorm:"type:varchar(36);index;not null" json:"franqueadora_id"`
	Date            time.Time `gorm:"not null" json:"date"`
	StartAt         time.Time `gorm:"not null" json:"start_at"`
	DurationMinutes int       `gorm:"not null" json:"duration"`
	Status          string    `gorm:"type:varchar(32)" json:"status"`
	StatusCanonical string    `gorm:"type:varchar(20);index;not null" json:"status_canonical"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Booking) TableName() string {
	return "booking"
}

// IsCompleted reports the terminal state used by the idempotency
// check: DONE counts as COMPLETED, and the legacy Status column is
// also checked because old rows carry "COMPLETED" there only.
func (b *Booking) IsCompleted() bool {
	return b.StatusCanonical == BookingStatusDone ||
		b.StatusCanonical == BookingStatusCompleted ||
		b.Status == BookingStatusCompleted
}

// HoursCredited converts the booking duration to hours. Durations are
// not required to be whole hours (a 90 minute class credits 1.5h).
func (b *Booking) HoursCredited() float64 {
	return float64(b.DurationMinutes) / 60.0
}
