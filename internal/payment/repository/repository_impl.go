package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fitstack/gymdesk/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Create(payment).Error
}

func (r *repo) ListByMember(ctx context.Context, db *gorm.DB, memberID snowflake.ID) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	err := db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("member_id = ?", memberID).
		Order("payment_date desc, id desc").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) ListWithMembers(ctx context.Context, db *gorm.DB, from, to time.Time) ([]*domain.PaymentWithMember, error) {
	var payments []*domain.PaymentWithMember
	err := db.WithContext(ctx).
		Table("payments").
		Select("payments.*, members.full_name AS member_name, members.phone_number AS member_phone").
		Joins("JOIN members ON members.id = payments.member_id").
		Where("members.is_active = ?", true).
		Where("payments.payment_date >= ? AND payments.payment_date < ?", from, to).
		Order("payments.payment_date desc, payments.id desc").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
