package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusRefund    BookingStatus = "refund"
	BookingStatusFined     BookingStatus = "fined"
	BookingStatusFastTag   BookingStatus = "fasttag"
)

// FastTagTimeSlot marks a booking without an arrival window.
const FastTagTimeSlot = "no time limit"

// NormalizeBookingStatus maps a raw stored status onto the canonical enum.
// Historical rows carry casing variants and the "refunded" synonym; this is
// the single place where those are folded. Returns false for unknown values.
func NormalizeBookingStatus(raw string) (BookingStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "confirmed":
		return BookingStatusConfirmed, true
	case "completed":
		return BookingStatusCompleted, true
	case "cancelled":
		return BookingStatusCancelled, true
	case "refund", "refunded":
		return BookingStatusRefund, true
	case "fined":
		return BookingStatusFined, true
	case "fasttag":
		return BookingStatusFastTag, true
	}
	return "", false
}

// IsOpen reports whether the status is an active state that can still change
// without administrator action.
func (s BookingStatus) IsOpen() bool {
	return s == BookingStatusConfirmed
}

// IsAdjudicable reports whether an administrator may still apply a one-time
// refund/fine decision to a booking in this status.
func (s BookingStatus) IsAdjudicable() bool {
	return s == BookingStatusCompleted || s == BookingStatusFastTag
}

// Booking represents an express-lane or FastTag lane reservation.
//
// Amount is fixed at creation from the booth fee and never recomputed.
// AdminProcessed flips false to true exactly once.
type Booking struct {
	ID             string
	UserID         string
	TollBoothID    string
	BookingDate    time.Time
	TimeSlot       string
	DistanceKm     decimal.Decimal
	Amount         decimal.Decimal
	Status         BookingStatus
	AdminProcessed bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
