package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fitstack/gymdesk/internal/clock"
	"github.com/fitstack/gymdesk/internal/config"
	memberdomain "github.com/fitstack/gymdesk/internal/member/domain"
	"github.com/fitstack/gymdesk/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Membership *config.MembershipConfigHolder
	Repo       domain.Repository
	MemberRepo memberdomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	membership *config.MembershipConfigHolder
	repo       domain.Repository
	memberRepo memberdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("payment.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		membership: p.Membership,
		repo:       p.Repo,
		memberRepo: p.MemberRepo,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordPaymentRequest) (domain.Payment, error) {
	if !req.Amount.IsPositive() {
		return domain.Payment{}, domain.ErrInvalidAmount
	}

	var payment domain.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		payment, txErr = s.RecordTx(ctx, tx, req)
		return txErr
	})
	if err != nil {
		return domain.Payment{}, err
	}
	return payment, nil
}

// RecordTx is the validity rollover: a payment made while the member is
// still current extends from the member's validity end, a payment after a
// lapse restarts from now, and the member record is rolled forward in the
// same transaction as the payment insert.
func (s *Service) RecordTx(ctx context.Context, tx *gorm.DB, req domain.RecordPaymentRequest) (domain.Payment, error) {
	id, err := s.parseMemberID(req.MemberID)
	if err != nil {
		return domain.Payment{}, err
	}

	member, err := s.memberRepo.FindByID(ctx, tx, id)
	if err != nil {
		return domain.Payment{}, err
	}
	if member == nil {
		return domain.Payment{}, domain.ErrMemberGone
	}

	now := s.clock.Now()
	duration := time.Duration(s.membership.Get().ValidityDays) * 24 * time.Hour
	start, end := domain.NextValidityWindow(now, member.ValidityEnd, duration)

	payment := domain.Payment{
		ID:            s.genID.Generate(),
		MemberID:      member.ID,
		Amount:        req.Amount,
		PaymentDate:   now,
		ValidityStart: start,
		ValidityEnd:   end,
		Notes:         strings.TrimSpace(req.Notes),
		CreatedAt:     now,
	}

	if err := s.repo.Insert(ctx, tx, &payment); err != nil {
		return domain.Payment{}, err
	}
	if err := s.memberRepo.UpdateValidityEnd(ctx, tx, member.ID, payment.ValidityEnd, now); err != nil {
		return domain.Payment{}, err
	}

	s.log.Info("payment recorded",
		zap.String("member_id", member.ID.String()),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.Time("validity_start", payment.ValidityStart),
		zap.Time("validity_end", payment.ValidityEnd),
	)

	return payment, nil
}

func (s *Service) ListByMember(ctx context.Context, req domain.ListMemberPaymentsRequest) ([]*domain.Payment, error) {
	id, err := s.parseMemberID(req.MemberID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByMember(ctx, s.db, id)
}

func (s *Service) PaidThisMonth(ctx context.Context) (domain.PaidThisMonthResponse, error) {
	now := s.clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	payments, err := s.repo.ListWithMembers(ctx, s.db, monthStart, monthEnd)
	if err != nil {
		return domain.PaidThisMonthResponse{}, err
	}

	return domain.PaidThisMonthResponse{
		MonthStart: monthStart,
		MonthEnd:   monthEnd,
		Payments:   payments,
	}, nil
}

func (s *Service) parseMemberID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
