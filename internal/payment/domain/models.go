package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Payment is a single fee payment. Its validity window is computed once at
// creation and never edited afterward.
type Payment struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	MemberID      snowflake.ID    `gorm:"not null;index" json:"member_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	PaymentDate   time.Time       `gorm:"not null" json:"payment_date"`
	ValidityStart time.Time       `gorm:"not null" json:"validity_start"`
	ValidityEnd   time.Time       `gorm:"not null" json:"validity_end"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

// PaymentWithMember joins a payment with its member for list views.
type PaymentWithMember struct {
	Payment
	MemberName  string `json:"member_name"`
	MemberPhone string `json:"member_phone"`
}

// NextValidityWindow computes the window a new payment buys. A payment made
// while the member is still current extends contiguously from the member's
// validity end; otherwise the window restarts at now. Lapsed time is not
// banked.
func NextValidityWindow(now time.Time, memberValidityEnd *time.Time, duration time.Duration) (start, end time.Time) {
	start = now
	if memberValidityEnd != nil && memberValidityEnd.After(now) {
		start = *memberValidityEnd
	}
	return start, start.Add(duration)
}
