package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fitstack/gymdesk/internal/clock"
	"github.com/fitstack/gymdesk/internal/member/domain"
	paymentdomain "github.com/fitstack/gymdesk/internal/payment/domain"
	"github.com/fitstack/gymdesk/pkg/db"
	"github.com/fitstack/gymdesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	PaymentSvc paymentdomain.Service
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	paymentSvc paymentdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("member.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		paymentSvc: p.PaymentSvc,
	}
}

// Create inserts the member and records the initial payment, equal to the
// monthly fee, in one transaction. The phone pre-check is advisory; the
// partial unique index on active phone numbers is the authority, and a
// duplicate-key failure maps to the same user-facing error.
func (s *Service) Create(ctx context.Context, req domain.CreateMemberRequest) (domain.MemberView, error) {
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return domain.MemberView{}, domain.ErrInvalidName
	}

	phone := strings.TrimSpace(req.PhoneNumber)
	if phone == "" {
		return domain.MemberView{}, domain.ErrInvalidPhone
	}

	if req.MonthlyFee.IsNegative() {
		return domain.MemberView{}, domain.ErrInvalidFee
	}

	taken, err := s.repo.CountActiveByPhone(ctx, s.db, phone, 0)
	if err != nil {
		return domain.MemberView{}, err
	}
	if taken > 0 {
		return domain.MemberView{}, domain.ErrDuplicatePhone
	}

	now := s.clock.Now()
	member := domain.Member{
		ID:          s.genID.Generate(),
		FullName:    name,
		PhoneNumber: phone,
		MonthlyFee:  req.MonthlyFee,
		DateJoined:  now,
		IsActive:    true,
		Metadata:    datatypes.JSONMap(req.Metadata),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var initial paymentdomain.Payment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &member); err != nil {
			return err
		}
		var txErr error
		initial, txErr = s.paymentSvc.RecordTx(ctx, tx, paymentdomain.RecordPaymentRequest{
			MemberID: member.ID.String(),
			Amount:   req.MonthlyFee,
		})
		return txErr
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.MemberView{}, domain.ErrDuplicatePhone
		}
		return domain.MemberView{}, err
	}

	member.ValidityEnd = &initial.ValidityEnd

	s.log.Info("member created",
		zap.String("member_id", member.ID.String()),
		zap.String("full_name", member.FullName),
	)

	return domain.NewView(member, now), nil
}

func (s *Service) Get(ctx context.Context, req domain.GetMemberRequest) (domain.MemberView, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.MemberView{}, err
	}

	member, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.MemberView{}, err
	}
	if member == nil {
		return domain.MemberView{}, domain.ErrNotFound
	}

	return domain.NewView(*member, s.clock.Now()), nil
}

func (s *Service) List(ctx context.Context, req domain.ListMemberRequest) (domain.ListMemberResponse, error) {
	status, err := parseStatus(req.Status)
	if err != nil {
		return domain.ListMemberResponse{}, err
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 250 {
		pageSize = 250
	}

	cursor, err := parsePageToken(req.PageToken)
	if err != nil {
		return domain.ListMemberResponse{}, err
	}

	now := s.clock.Now()
	items, err := s.repo.List(ctx, s.db, domain.ListMemberFilter{
		Status: status,
		Search: strings.TrimSpace(req.Search),
		Cursor: cursor,
		Limit:  pageSize,
	}, now)
	if err != nil {
		return domain.ListMemberResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(member *domain.Member) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        member.ID.String(),
			CreatedAt: member.DateJoined.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	members := make([]domain.MemberView, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		members = append(members, domain.NewView(*item, now))
	}

	resp := domain.ListMemberResponse{Members: members}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) MustPay(ctx context.Context, req domain.MustPayRequest) ([]domain.MemberView, error) {
	now := s.clock.Now()
	items, err := s.repo.ListMustPay(ctx, s.db, strings.TrimSpace(req.Search), now)
	if err != nil {
		return nil, err
	}

	members := make([]domain.MemberView, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		members = append(members, domain.NewView(*item, now))
	}
	return members, nil
}

// Delete is a soft delete: the member drops out of every list, count and
// uniqueness check, but the row and its payments stay.
func (s *Service) Delete(ctx context.Context, req domain.DeleteMemberRequest) error {
	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}

	member, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if member == nil {
		return domain.ErrNotFound
	}
	if !member.IsActive {
		return nil
	}

	if err := s.repo.Deactivate(ctx, s.db, id, s.clock.Now()); err != nil {
		return err
	}

	s.log.Info("member deactivated",
		zap.String("member_id", member.ID.String()),
		zap.String("full_name", member.FullName),
	)
	return nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

// parsePageToken decodes and fully validates a list token. Anything wrong
// with the token itself is reported as ErrInvalidPageToken; errors returned
// by the repository afterwards are genuine storage failures.
func parsePageToken(token string) (*domain.ListCursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}

	raw, err := pagination.DecodeCursor(token)
	if err != nil {
		return nil, domain.ErrInvalidPageToken
	}
	joinedAt, err := time.Parse(time.RFC3339Nano, raw.CreatedAt)
	if err != nil {
		return nil, domain.ErrInvalidPageToken
	}
	id, err := snowflake.ParseString(raw.ID)
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidPageToken
	}

	return &domain.ListCursor{JoinedAt: joinedAt, ID: id}, nil
}

func parseStatus(value string) (domain.StatusFilter, error) {
	switch domain.StatusFilter(strings.ToLower(strings.TrimSpace(value))) {
	case "", domain.StatusAll:
		return domain.StatusAll, nil
	case domain.StatusActive:
		return domain.StatusActive, nil
	case domain.StatusExpired:
		return domain.StatusExpired, nil
	default:
		return "", domain.ErrInvalidStatus
	}
}
