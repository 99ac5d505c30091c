package repository

import (
	"context"
	"time"

	"github.com/fitstack/gymdesk/internal/dashboard/domain"
	memberdomain "github.com/fitstack/gymdesk/internal/member/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CountActiveMembers(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&memberdomain.Member{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *repo) CountCurrentMembers(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&memberdomain.Member{}).
		Where("is_active = ?", true).
		Where("validity_end IS NOT NULL AND validity_end > ?", now).
		Count(&count).Error
	return count, err
}

func (r *repo) CountExpiredMembers(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&memberdomain.Member{}).
		Where("is_active = ?", true).
		Where("validity_end IS NULL OR validity_end <= ?", now).
		Count(&count).Error
	return count, err
}

func (r *repo) CountPaymentsBetween(ctx context.Context, db *gorm.DB, from, to time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Table("payments").
		Joins("JOIN members ON members.id = payments.member_id").
		Where("members.is_active = ?", true).
		Where("payments.payment_date >= ? AND payments.payment_date < ?", from, to).
		Count(&count).Error
	return count, err
}
