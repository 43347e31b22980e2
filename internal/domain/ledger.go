package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerType classifies a balance-affecting event.
type LedgerType string

const (
	LedgerTypeBookingPayment LedgerType = "booking_payment"
	LedgerTypeAccountTopup   LedgerType = "account_topup"
	LedgerTypeRefund         LedgerType = "refund"
	LedgerTypeFine           LedgerType = "fine"
)

// LedgerEntry is an immutable audit record of a balance change.
// Amount is signed: debits are negative, credits positive.
type LedgerEntry struct {
	ID          string
	UserID      string
	BookingID   string // empty when not tied to a booking
	Type        LedgerType
	Amount      decimal.Decimal
	Description string
	CreatedAt   time.Time
}
