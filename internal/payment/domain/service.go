package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RecordPaymentRequest struct {
	MemberID string
	Amount   decimal.Decimal
	Notes    string
}

type ListMemberPaymentsRequest struct {
	MemberID string
}

type PaidThisMonthResponse struct {
	MonthStart time.Time            `json:"month_start"`
	MonthEnd   time.Time            `json:"month_end"`
	Payments   []*PaymentWithMember `json:"payments"`
}

type Service interface {
	// Record validates the request and applies the payment in a transaction
	// of its own.
	Record(context.Context, RecordPaymentRequest) (Payment, error)
	// RecordTx applies a payment inside the caller's transaction: it inserts
	// the payment and rolls the member's validity end forward. Both writes
	// commit together or neither does.
	RecordTx(ctx context.Context, tx *gorm.DB, req RecordPaymentRequest) (Payment, error)
	ListByMember(context.Context, ListMemberPaymentsRequest) ([]*Payment, error)
	PaidThisMonth(context.Context) (PaidThisMonthResponse, error)
}

var (
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrInvalidID     = errors.New("invalid_id")
	ErrMemberGone    = errors.New("member_not_found")
)
