package service

import (
	"context"
	"log"

	"tollpass/internal/domain"
	"tollpass/internal/kafka"
	"tollpass/internal/metrics"
)

// Publisher publishes a keyed JSON payload to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

// NotificationService emits booking receipt events. Publishing is strictly
// fire-and-forget: a failure is logged and counted, never returned to the
// booking flow.
type NotificationService struct {
	publisher Publisher
	topic     string
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(publisher Publisher, topic string) *NotificationService {
	return &NotificationService{publisher: publisher, topic: topic}
}

// NotifyBookingCreated publishes the receipt event for a new booking.
func (s *NotificationService) NotifyBookingCreated(ctx context.Context, user *domain.User, booth *domain.TollBooth, booking *domain.Booking) {
	if s == nil || s.publisher == nil {
		return
	}

	bookingType := "express"
	if booking.Status == domain.BookingStatusFastTag {
		bookingType = "fasttag"
	}

	event := kafka.ReceiptEvent{
		Email:       user.Email,
		TollName:    booth.Name,
		TimeSlot:    booking.TimeSlot,
		BookingDate: booking.BookingDate.Format("2006-01-02"),
		Amount:      booking.Amount.StringFixed(2),
		BookingType: bookingType,
	}
	if booking.Status != domain.BookingStatusFastTag {
		event.DistanceKm = booking.DistanceKm.StringFixed(2)
	}

	if err := s.publisher.Publish(ctx, s.topic, booking.ID, event); err != nil {
		metrics.ReceiptPublishFailuresTotal.Inc()
		log.Printf("failed to publish receipt for booking %s: %v", booking.ID, err)
	}
}
