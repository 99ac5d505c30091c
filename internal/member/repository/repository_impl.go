package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fitstack/gymdesk/internal/member/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, member *domain.Member) error {
	return db.WithContext(ctx).Create(member).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Member, error) {
	var member domain.Member
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Take(&member).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListMemberFilter, now time.Time) ([]*domain.Member, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("is_active = ?", true)

	switch filter.Status {
	case domain.StatusActive:
		stmt = stmt.Where("validity_end IS NOT NULL AND validity_end > ?", now)
	case domain.StatusExpired:
		stmt = stmt.Where("validity_end IS NULL OR validity_end <= ?", now)
	}

	stmt = applySearch(stmt, filter.Search)

	if filter.Cursor != nil {
		stmt = stmt.Where("date_joined < ? OR (date_joined = ? AND id < ?)",
			filter.Cursor.JoinedAt, filter.Cursor.JoinedAt, filter.Cursor.ID)
	}
	if filter.Limit > 0 {
		// One sentinel row beyond the page to detect more pages.
		stmt = stmt.Limit(filter.Limit + 1)
	}

	var members []*domain.Member
	err := stmt.
		Order("date_joined desc, id desc").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repo) ListMustPay(ctx context.Context, db *gorm.DB, search string, now time.Time) ([]*domain.Member, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("is_active = ?", true).
		Where("validity_end IS NULL OR validity_end <= ?", now)

	stmt = applySearch(stmt, search)

	var members []*domain.Member
	err := stmt.
		Order("date_joined desc, id desc").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repo) UpdateValidityEnd(ctx context.Context, db *gorm.DB, id snowflake.ID, end, now time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"validity_end": end,
			"updated_at":   now,
		}).Error
}

func (r *repo) Deactivate(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": now,
		}).Error
}

func (r *repo) CountActiveByPhone(ctx context.Context, db *gorm.DB, phone string, excludeID snowflake.ID) (int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("phone_number = ? AND is_active = ?", phone, true)
	if excludeID != 0 {
		stmt = stmt.Where("id <> ?", excludeID)
	}

	var count int64
	if err := stmt.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applySearch filters by case-insensitive substring on name or phone.
func applySearch(stmt *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return stmt
	}
	pattern := "%" + search + "%"
	return stmt.Where("LOWER(full_name) LIKE LOWER(?) OR LOWER(phone_number) LIKE LOWER(?)", pattern, pattern)
}
