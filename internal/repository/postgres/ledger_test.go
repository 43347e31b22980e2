package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"tollpass/internal/domain"
	"tollpass/internal/repository"
)

func TestApplyDelta(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLedgerRepository(db)

	mock.ExpectQuery(`SELECT update_user_balance`).
		WithArgs(sqlmock.AnyArg(), "u1", decimal.NewFromInt(-120), domain.LedgerTypeBookingPayment,
			"express lane booking", sqlmock.AnyArg(), false).
		WillReturnRows(sqlmock.NewRows([]string{"update_user_balance"}).AddRow(true))

	ok, err := repo.ApplyDelta(context.Background(), repository.ApplyDeltaParams{
		UserID:      "u1",
		Delta:       decimal.NewFromInt(-120),
		Type:        domain.LedgerTypeBookingPayment,
		Description: "express lane booking",
		BookingID:   "bk1",
	})
	if err != nil {
		t.Fatalf("ApplyDelta() error = %v", err)
	}
	if !ok {
		t.Error("ApplyDelta() = false, want true")
	}
}

func TestApplyDeltaInsufficientFunds(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLedgerRepository(db)

	// The stored procedure refuses the debit; no error, just false.
	mock.ExpectQuery(`SELECT update_user_balance`).
		WillReturnRows(sqlmock.NewRows([]string{"update_user_balance"}).AddRow(false))

	ok, err := repo.ApplyDelta(context.Background(), repository.ApplyDeltaParams{
		UserID: "u1",
		Delta:  decimal.NewFromInt(-9999),
		Type:   domain.LedgerTypeBookingPayment,
	})
	if err != nil {
		t.Fatalf("ApplyDelta() error = %v", err)
	}
	if ok {
		t.Error("ApplyDelta() = true for refused debit, want false")
	}
}

func TestLedgerGetByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLedgerRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "booking_id", "type", "amount", "description", "created_at"}).
		AddRow("e1", "u1", "bk1", "booking_payment", "-120.00", "express lane booking", now).
		AddRow("e2", "u1", nil, "account_topup", "500.00", "account top-up", now)

	mock.ExpectQuery(`SELECT .+ FROM ledger_entries WHERE user_id = \$1`).
		WithArgs("u1").
		WillReturnRows(rows)

	entries, err := repo.GetByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetByUser() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].BookingID != "bk1" {
		t.Errorf("entry 0 booking id = %q, want bk1", entries[0].BookingID)
	}
	if entries[1].BookingID != "" {
		t.Errorf("entry 1 booking id = %q, want empty", entries[1].BookingID)
	}
	if !entries[1].Amount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("entry 1 amount = %s, want 500", entries[1].Amount)
	}
}
