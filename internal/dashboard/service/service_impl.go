package service

import (
	"context"
	"time"

	"github.com/fitstack/gymdesk/internal/clock"
	"github.com/fitstack/gymdesk/internal/dashboard/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("dashboard.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	now := s.clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	total, err := s.repo.CountActiveMembers(ctx, s.db)
	if err != nil {
		return domain.Stats{}, err
	}
	current, err := s.repo.CountCurrentMembers(ctx, s.db, now)
	if err != nil {
		return domain.Stats{}, err
	}
	expired, err := s.repo.CountExpiredMembers(ctx, s.db, now)
	if err != nil {
		return domain.Stats{}, err
	}
	paid, err := s.repo.CountPaymentsBetween(ctx, s.db, monthStart, monthEnd)
	if err != nil {
		return domain.Stats{}, err
	}

	return domain.Stats{
		TotalMembers:   total,
		CurrentMembers: current,
		ExpiredMembers: expired,
		PaidThisMonth:  paid,
	}, nil
}
