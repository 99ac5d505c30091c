package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	CountActiveMembers(ctx context.Context, db *gorm.DB) (int64, error)
	CountCurrentMembers(ctx context.Context, db *gorm.DB, now time.Time) (int64, error)
	CountExpiredMembers(ctx context.Context, db *gorm.DB, now time.Time) (int64, error)
	CountPaymentsBetween(ctx context.Context, db *gorm.DB, from, to time.Time) (int64, error)
}
