package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitstack/gymdesk/internal/clock"
	"github.com/fitstack/gymdesk/internal/config"
	memberdomain "github.com/fitstack/gymdesk/internal/member/domain"
	memberrepo "github.com/fitstack/gymdesk/internal/member/repository"
	paymentdomain "github.com/fitstack/gymdesk/internal/payment/domain"
	paymentrepo "github.com/fitstack/gymdesk/internal/payment/repository"
	paymentservice "github.com/fitstack/gymdesk/internal/payment/service"
)

func TestRecordFirstPaymentStartsWindowAtNow(t *testing.T) {
	db := setupTestDB(t)
	fakeClock := clock.NewFakeClock(time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC))
	svc, node := newPaymentService(t, db, fakeClock)

	member := seedMember(t, db, node, "Alice Tan", "0811111111", nil)

	payment, err := svc.Record(context.Background(), paymentdomain.RecordPaymentRequest{
		MemberID: member.ID.String(),
		Amount:   decimal.NewFromInt(150),
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}

	wantEnd := fakeClock.Now().Add(30 * 24 * time.Hour)
	if !payment.ValidityStart.Equal(fakeClock.Now()) {
		t.Fatalf("expected validity start %v, got %v", fakeClock.Now(), payment.ValidityStart)
	}
	if !payment.ValidityEnd.Equal(wantEnd) {
		t.Fatalf("expected validity end %v, got %v", wantEnd, payment.ValidityEnd)
	}

	assertMemberValidityEnd(t, db, member.ID, wantEnd)
	assertCount(t, db, "SELECT COUNT(1) FROM payments", 1)
}

func TestRecordWhileCurrentExtendsFromValidityEnd(t *testing.T) {
	db := setupTestDB(t)
	t0 := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	fakeClock := clock.NewFakeClock(t0)
	svc, node := newPaymentService(t, db, fakeClock)

	member := seedMember(t, db, node, "Budi Santoso", "0822222222", nil)
	ctx := context.Background()

	if _, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		MemberID: member.ID.String(),
		Amount:   decimal.NewFromInt(150),
	}); err != nil {
		t.Fatalf("first payment: %v", err)
	}

	// Pay again ten days in, well before the window lapses. The new window
	// stacks on the old one instead of discarding the remaining days.
	fakeClock.Advance(10 * 24 * time.Hour)
	second, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		MemberID: member.ID.String(),
		Amount:   decimal.NewFromInt(150),
	})
	if err != nil {
		t.Fatalf("second payment: %v", err)
	}

	wantStart := t0.Add(30 * 24 * time.Hour)
	wantEnd := t0.Add(60 * 24 * time.Hour)
	if !second.ValidityStart.Equal(wantStart) {
		t.Fatalf("expected validity start %v, got %v", wantStart, second.ValidityStart)
	}
	if !second.ValidityEnd.Equal(wantEnd) {
		t.Fatalf("expected validity end %v, got %v", wantEnd, second.ValidityEnd)
	}
	assertMemberValidityEnd(t, db, member.ID, wantEnd)

	var reloaded memberdomain.Member
	if err := db.Where("id = ?", member.ID).Take(&reloaded).Error; err != nil {
		t.Fatalf("reload member: %v", err)
	}
	if !reloaded.UpdatedAt.Equal(fakeClock.Now()) {
		t.Fatalf("expected updated_at %v from the clock, got %v", fakeClock.Now(), reloaded.UpdatedAt)
	}
}

func TestRecordAfterLapseRestartsAtNow(t *testing.T) {
	db := setupTestDB(t)
	t0 := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	fakeClock := clock.NewFakeClock(t0)
	svc, node := newPaymentService(t, db, fakeClock)

	member := seedMember(t, db, node, "Citra Dewi", "0833333333", nil)
	ctx := context.Background()

	if _, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		MemberID: member.ID.String(),
		Amount:   decimal.NewFromInt(150),
	}); err != nil {
		t.Fatalf("first payment: %v", err)
	}

	// One hundred days later the window has long lapsed. The gap is not
	// billed: the new window starts at payment time.
	fakeClock.Advance(100 * 24 * time.Hour)
	late, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		MemberID: member.ID.String(),
		Amount:   decimal.NewFromInt(150),
	})
	if err != nil {
		t.Fatalf("late payment: %v", err)
	}

	wantStart := t0.Add(100 * 24 * time.Hour)
	wantEnd := wantStart.Add(30 * 24 * time.Hour)
	if !late.ValidityStart.Equal(wantStart) {
		t.Fatalf("expected validity start %v, got %v", wantStart, late.ValidityStart)
	}
	if !late.ValidityEnd.Equal(wantEnd) {
		t.Fatalf("expected validity end %v, got %v", wantEnd, late.ValidityEnd)
	}
	assertMemberValidityEnd(t, db, member.ID, wantEnd)
}

func TestRecordRejectsNonPositiveAmount(t *testing.T) {
	db := setupTestDB(t)
	fakeClock := clock.NewFakeClock(time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC))
	svc, node := newPaymentService(t, db, fakeClock)

	member := seedMember(t, db, node, "Dewi Lestari", "0844444444", nil)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		_, err := svc.Record(context.Background(), paymentdomain.RecordPaymentRequest{
			MemberID: member.ID.String(),
			Amount:   amount,
		})
		if err != paymentdomain.ErrInvalidAmount {
			t.Fatalf("amount %s: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
	assertCount(t, db, "SELECT COUNT(1) FROM payments", 0)
}

func TestRecordUnknownMember(t *testing.T) {
	db := setupTestDB(t)
	fakeClock := clock.NewFakeClock(time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC))
	svc, node := newPaymentService(t, db, fakeClock)

	_, err := svc.Record(context.Background(), paymentdomain.RecordPaymentRequest{
		MemberID: node.Generate().String(),
		Amount:   decimal.NewFromInt(150),
	})
	if err != paymentdomain.ErrMemberGone {
		t.Fatalf("expected ErrMemberGone, got %v", err)
	}

	_, err = svc.Record(context.Background(), paymentdomain.RecordPaymentRequest{
		MemberID: "not-a-number",
		Amount:   decimal.NewFromInt(150),
	})
	if err != paymentdomain.ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestListByMemberNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	fakeClock := clock.NewFakeClock(time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC))
	svc, node := newPaymentService(t, db, fakeClock)

	member := seedMember(t, db, node, "Eko Prasetyo", "0855555555", nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
			MemberID: member.ID.String(),
			Amount:   decimal.NewFromInt(150),
		}); err != nil {
			t.Fatalf("payment %d: %v", i, err)
		}
		fakeClock.Advance(24 * time.Hour)
	}

	payments, err := svc.ListByMember(ctx, paymentdomain.ListMemberPaymentsRequest{MemberID: member.ID.String()})
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 3 {
		t.Fatalf("expected 3 payments, got %d", len(payments))
	}
	for i := 1; i < len(payments); i++ {
		if payments[i].PaymentDate.After(payments[i-1].PaymentDate) {
			t.Fatalf("payments out of order at %d", i)
		}
	}
}

func TestPaidThisMonthFiltersByMonthAndActiveMembers(t *testing.T) {
	db := setupTestDB(t)
	fakeClock := clock.NewFakeClock(time.Date(2025, time.February, 25, 10, 0, 0, 0, time.UTC))
	svc, node := newPaymentService(t, db, fakeClock)

	paying := seedMember(t, db, node, "Fajar Nugroho", "0866666666", nil)
	deleted := seedMember(t, db, node, "Gita Utami", "0877777777", nil)
	ctx := context.Background()

	// February payment, outside the queried month.
	if _, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		MemberID: paying.ID.String(),
		Amount:   decimal.NewFromInt(150),
	}); err != nil {
		t.Fatalf("february payment: %v", err)
	}

	fakeClock.Advance(7 * 24 * time.Hour) // March 4th
	if _, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		MemberID: paying.ID.String(),
		Amount:   decimal.NewFromInt(150),
	}); err != nil {
		t.Fatalf("march payment: %v", err)
	}
	if _, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		MemberID: deleted.ID.String(),
		Amount:   decimal.NewFromInt(200),
		Notes:    "cash",
	}); err != nil {
		t.Fatalf("march payment for soon-deleted member: %v", err)
	}

	if err := db.Exec(`UPDATE members SET is_active = ? WHERE id = ?`, false, deleted.ID).Error; err != nil {
		t.Fatalf("deactivate member: %v", err)
	}

	resp, err := svc.PaidThisMonth(ctx)
	if err != nil {
		t.Fatalf("paid this month: %v", err)
	}

	wantStart := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !resp.MonthStart.Equal(wantStart) {
		t.Fatalf("expected month start %v, got %v", wantStart, resp.MonthStart)
	}
	if len(resp.Payments) != 1 {
		t.Fatalf("expected 1 payment this month, got %d", len(resp.Payments))
	}
	if resp.Payments[0].MemberName != "Fajar Nugroho" {
		t.Fatalf("unexpected member name %q", resp.Payments[0].MemberName)
	}
}

func newPaymentService(t *testing.T, db *gorm.DB, c clock.Clock) (paymentdomain.Service, *snowflake.Node) {
	t.Helper()

	node, err := snowflake.NewNode(7)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	svc := paymentservice.New(paymentservice.Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      c,
		Membership: config.NewStaticMembershipConfigHolder(config.DefaultMembershipConfig()),
		Repo:       paymentrepo.Provide(),
		MemberRepo: memberrepo.Provide(),
	})
	return svc, node
}

func seedMember(t *testing.T, db *gorm.DB, node *snowflake.Node, name, phone string, validityEnd *time.Time) memberdomain.Member {
	t.Helper()

	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	member := memberdomain.Member{
		ID:          node.Generate(),
		FullName:    name,
		PhoneNumber: phone,
		MonthlyFee:  decimal.NewFromInt(150),
		DateJoined:  now,
		ValidityEnd: validityEnd,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return member
}

func assertMemberValidityEnd(t *testing.T, db *gorm.DB, id snowflake.ID, want time.Time) {
	t.Helper()

	var member memberdomain.Member
	if err := db.Where("id = ?", id).Take(&member).Error; err != nil {
		t.Fatalf("reload member: %v", err)
	}
	if member.ValidityEnd == nil || !member.ValidityEnd.Equal(want) {
		t.Fatalf("expected validity end %v, got %v", want, member.ValidityEnd)
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := []string{
		`CREATE TABLE members (
			id BIGINT PRIMARY KEY,
			full_name TEXT NOT NULL,
			phone_number TEXT NOT NULL,
			monthly_fee NUMERIC NOT NULL,
			date_joined DATETIME NOT NULL,
			validity_end DATETIME,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			metadata TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX idx_members_active_phone ON members (phone_number) WHERE is_active`,
		`CREATE TABLE payments (
			id BIGINT PRIMARY KEY,
			member_id BIGINT NOT NULL,
			amount NUMERIC NOT NULL,
			payment_date DATETIME NOT NULL,
			validity_start DATETIME NOT NULL,
			validity_end DATETIME NOT NULL,
			notes TEXT,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX idx_payments_member_id ON payments (member_id)`,
	}

	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("schema exec failed: %v", err)
		}
	}

	return db
}

func assertCount(t *testing.T, db *gorm.DB, query string, expected int64) {
	t.Helper()

	var count int64
	if err := db.Raw(query).Scan(&count).Error; err != nil {
		t.Fatalf("query count: %v", err)
	}
	if count != expected {
		t.Fatalf("expected %d, got %d", expected, count)
	}
}
