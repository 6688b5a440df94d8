package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// PaymentStatus is synced from the commerce order's financial status. It is
// a separate axis from BookingStatus and never drives its transitions.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentNotPaid PaymentStatus = "not_paid"
)

// Booking occupies the half-open interval
// [ScheduledAt, ScheduledAt+Duration) on one staff member's calendar.
// Duration is stored in minutes, redundantly with the variant, so history
// stays stable when a variant is edited later.
type Booking struct {
	gorm.Model
	Reference     string          `json:"reference" gorm:"uniqueIndex"`
	StaffID       uint            `json:"staff_id" gorm:"index"`
	Staff         StaffMember     `json:"staff,omitempty" gorm:"foreignKey:StaffID"`
	LocationID    uint            `json:"location_id"`
	Location      Location        `json:"location,omitempty" gorm:"foreignKey:LocationID"`
	VariantID     uint            `json:"variant_id"`
	Variant       DurationVariant `json:"variant,omitempty" gorm:"foreignKey:VariantID"`
	ScheduledAt   time.Time       `json:"scheduled_at"` // absolute UTC instant
	Duration      int             `json:"duration"`     // minutes
	Status        BookingStatus   `json:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	CustomerID    *uint           `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	OrderID       string          `json:"order_id"` // optional commerce order link
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = StatusPending
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = PaymentNotPaid
	}
	if b.Reference == "" {
		b.Reference = uuid.NewString()
	}
	return nil
}

// EndsAt returns the exclusive end of the booking's interval.
func (b *Booking) EndsAt() time.Time {
	return b.ScheduledAt.Add(time.Duration(b.Duration) * time.Minute)
}

// UpdateStatus enforces the booking state machine:
// pending -> {confirmed, cancelled}, confirmed -> {completed, cancelled};
// cancelled and completed are terminal.
func (b *Booking) UpdateStatus(tx *gorm.DB, newStatus BookingStatus) error {
	switch b.Status {
	case StatusPending:
		if newStatus != StatusConfirmed && newStatus != StatusCancelled {
			return fmt.Errorf("invalid transition from pending to %s", newStatus)
		}
	case StatusConfirmed:
		if newStatus != StatusCompleted && newStatus != StatusCancelled {
			return fmt.Errorf("invalid transition from confirmed to %s", newStatus)
		}
	case StatusCompleted, StatusCancelled:
		return fmt.Errorf("no transitions allowed from %s", b.Status)
	default:
		return fmt.Errorf("unknown booking status %q", b.Status)
	}

	b.Status = newStatus
	if tx == nil {
		return nil
	}
	return tx.Save(b).Error
}
