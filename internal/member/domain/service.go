package domain

import (
	"context"
	"errors"
	"time"

	"github.com/fitstack/gymdesk/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type CreateMemberRequest struct {
	FullName    string
	PhoneNumber string
	MonthlyFee  decimal.Decimal
	Metadata    map[string]any
}

type GetMemberRequest struct {
	ID string
}

type DeleteMemberRequest struct {
	ID string
}

type ListMemberRequest struct {
	Status    string
	Search    string
	PageToken string
	PageSize  int
}

type MustPayRequest struct {
	Search string
}

// MemberView is a Member plus the fields derived from the clock.
type MemberView struct {
	Member
	IsExpired     bool `json:"is_expired"`
	DaysRemaining int  `json:"days_remaining"`
}

type ListMemberResponse struct {
	pagination.PageInfo
	Members []MemberView `json:"members"`
}

type Service interface {
	Create(context.Context, CreateMemberRequest) (MemberView, error)
	Get(context.Context, GetMemberRequest) (MemberView, error)
	List(context.Context, ListMemberRequest) (ListMemberResponse, error)
	MustPay(context.Context, MustPayRequest) ([]MemberView, error)
	Delete(context.Context, DeleteMemberRequest) error
}

var (
	ErrInvalidName      = errors.New("invalid_full_name")
	ErrInvalidPhone     = errors.New("invalid_phone_number")
	ErrInvalidFee       = errors.New("invalid_monthly_fee")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrDuplicatePhone   = errors.New("duplicate_phone_number")
	ErrNotFound         = errors.New("not_found")
)

// NewView derives the read-model fields from the clock's now.
func NewView(member Member, now time.Time) MemberView {
	return MemberView{
		Member:        member,
		IsExpired:     member.IsExpired(now),
		DaysRemaining: member.DaysRemaining(now),
	}
}
