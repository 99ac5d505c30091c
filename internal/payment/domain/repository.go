package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	ListByMember(ctx context.Context, db *gorm.DB, memberID snowflake.ID) ([]*Payment, error)
	// ListWithMembers returns payments of active members whose payment date
	// falls in [from, to), joined with member identity, newest first.
	ListWithMembers(ctx context.Context, db *gorm.DB, from, to time.Time) ([]*PaymentWithMember, error)
}
