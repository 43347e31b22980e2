package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"tollpass/internal/domain"
	"tollpass/internal/kafka"
)

type mockPublisher struct {
	err  error
	last kafka.ReceiptEvent

	publishCalls atomic.Int32
}

func (m *mockPublisher) Publish(ctx context.Context, topic, key string, payload any) error {
	m.publishCalls.Add(1)
	if event, ok := payload.(kafka.ReceiptEvent); ok {
		m.last = event
	}
	return m.err
}

func TestNotifyBookingCreated(t *testing.T) {
	publisher := &mockPublisher{}
	svc := NewNotificationService(publisher, "booking-receipts")

	user := testDriver("u1", 1000)
	booth := testBooth("b1", 120)
	booking := &domain.Booking{
		ID:          "bk1",
		UserID:      "u1",
		TollBoothID: "b1",
		BookingDate: date(2026, 3, 10),
		TimeSlot:    "9:15am-9:25am",
		DistanceKm:  decimal.NewFromInt(12),
		Amount:      decimal.NewFromInt(120),
		Status:      domain.BookingStatusConfirmed,
	}

	svc.NotifyBookingCreated(context.Background(), user, booth, booking)

	if got := publisher.publishCalls.Load(); got != 1 {
		t.Fatalf("publish calls = %d, want 1", got)
	}
	if publisher.last.BookingType != "express" {
		t.Errorf("booking type = %q, want express", publisher.last.BookingType)
	}
	if publisher.last.DistanceKm != "12.00" {
		t.Errorf("distance = %q, want 12.00", publisher.last.DistanceKm)
	}
	if publisher.last.Email != user.Email {
		t.Errorf("email = %q, want %q", publisher.last.Email, user.Email)
	}
}

func TestNotifyBookingCreatedFastTag(t *testing.T) {
	publisher := &mockPublisher{}
	svc := NewNotificationService(publisher, "booking-receipts")

	booking := &domain.Booking{
		ID:       "bk1",
		TimeSlot: domain.FastTagTimeSlot,
		Amount:   decimal.NewFromInt(100),
		Status:   domain.BookingStatusFastTag,
	}

	svc.NotifyBookingCreated(context.Background(), testDriver("u1", 1000), testBooth("b1", 120), booking)

	if publisher.last.BookingType != "fasttag" {
		t.Errorf("booking type = %q, want fasttag", publisher.last.BookingType)
	}
	if publisher.last.DistanceKm != "" {
		t.Errorf("fasttag receipt carries distance %q, want none", publisher.last.DistanceKm)
	}
}

func TestNotifyBookingCreatedPublishFailureIsSwallowed(t *testing.T) {
	publisher := &mockPublisher{err: errors.New("broker down")}
	svc := NewNotificationService(publisher, "booking-receipts")

	// Must not panic or surface the error.
	svc.NotifyBookingCreated(context.Background(), testDriver("u1", 1000), testBooth("b1", 120),
		&domain.Booking{ID: "bk1", Status: domain.BookingStatusConfirmed})
}

func TestNotifyBookingCreatedNilService(t *testing.T) {
	var svc *NotificationService
	// Nil service and nil publisher are both no-ops.
	svc.NotifyBookingCreated(context.Background(), testDriver("u1", 1000), testBooth("b1", 120),
		&domain.Booking{ID: "bk1"})
}
