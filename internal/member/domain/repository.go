package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// StatusFilter narrows member lists by membership standing.
type StatusFilter string

const (
	StatusAll     StatusFilter = "all"
	StatusActive  StatusFilter = "active"
	StatusExpired StatusFilter = "expired"
)

// ListCursor is a decoded, validated list position. Token parsing happens
// in the service so only real storage failures can come back from List.
type ListCursor struct {
	JoinedAt time.Time
	ID       snowflake.ID
}

type ListMemberFilter struct {
	Status StatusFilter
	Search string
	Cursor *ListCursor
	Limit  int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, member *Member) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Member, error)
	List(ctx context.Context, db *gorm.DB, filter ListMemberFilter, now time.Time) ([]*Member, error)
	ListMustPay(ctx context.Context, db *gorm.DB, search string, now time.Time) ([]*Member, error)
	UpdateValidityEnd(ctx context.Context, db *gorm.DB, id snowflake.ID, end, now time.Time) error
	Deactivate(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) error
	CountActiveByPhone(ctx context.Context, db *gorm.DB, phone string, excludeID snowflake.ID) (int64, error)
}
