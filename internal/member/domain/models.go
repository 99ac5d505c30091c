package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Member is a gym member. Members are never hard-deleted: Deactivate flips
// IsActive and everything else, payments included, stays behind.
type Member struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	FullName    string            `gorm:"not null" json:"full_name"`
	PhoneNumber string            `gorm:"not null" json:"phone_number"`
	MonthlyFee  decimal.Decimal   `gorm:"type:numeric(10,2);not null" json:"monthly_fee"`
	DateJoined  time.Time         `gorm:"not null" json:"date_joined"`
	ValidityEnd *time.Time        `json:"validity_end,omitempty"`
	IsActive    bool              `gorm:"not null;default:true" json:"is_active"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null" json:"updated_at"`
}

func (Member) TableName() string { return "members" }

// IsExpired reports whether the membership has lapsed at now. A member with
// no validity window at all counts as expired.
func (m *Member) IsExpired(now time.Time) bool {
	if m.ValidityEnd == nil {
		return true
	}
	return !m.ValidityEnd.After(now)
}

// DaysRemaining returns the whole days left on the validity window, never
// negative.
func (m *Member) DaysRemaining(now time.Time) int {
	if m.ValidityEnd == nil {
		return 0
	}
	days := int(m.ValidityEnd.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
