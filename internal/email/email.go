package email

import (
	"context"
	"log"

	"tollpass/internal/kafka"
)

// Sender delivers booking receipts by email. The transport is mocked: a real
// deployment would plug an SMTP or provider client in here.
type Sender struct{}

// NewSender creates a new Sender.
func NewSender() *Sender {
	return &Sender{}
}

// Send delivers one receipt.
func (s *Sender) Send(ctx context.Context, event kafka.ReceiptEvent) error {
	log.Printf("[EMAIL] to=%s\n%s", event.Email, FormatReceipt(event))
	return nil
}

// FormatReceipt renders the receipt body for email.
func FormatReceipt(event kafka.ReceiptEvent) string {
	body := `
=====================================
       TOLL BOOKING RECEIPT
=====================================
Toll Booth:  ` + event.TollName + `
Date:        ` + event.BookingDate + `
Time Slot:   ` + event.TimeSlot + `
Type:        ` + event.BookingType + `
`
	if event.DistanceKm != "" {
		body += `Distance:    ` + event.DistanceKm + ` km
`
	}
	body += `-------------------------------------
AMOUNT:      ` + event.Amount + `
=====================================
    Drive safe, arrive on time!
=====================================
`
	return body
}
