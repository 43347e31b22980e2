package domain

import "testing"

func TestNormalizeBookingStatus(t *testing.T) {
	tests := []struct {
		raw    string
		want   BookingStatus
		wantOk bool
	}{
		{"confirmed", BookingStatusConfirmed, true},
		{"completed", BookingStatusCompleted, true},
		{"cancelled", BookingStatusCancelled, true},
		{"refund", BookingStatusRefund, true},
		{"refunded", BookingStatusRefund, true}, // historical synonym folds in
		{"REFUNDED", BookingStatusRefund, true},
		{"fined", BookingStatusFined, true},
		{"fasttag", BookingStatusFastTag, true},
		{" Confirmed ", BookingStatusConfirmed, true},
		{"unknown", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeBookingStatus(tt.raw)
			if ok != tt.wantOk || got != tt.want {
				t.Errorf("NormalizeBookingStatus(%q) = (%v, %v), want (%v, %v)",
					tt.raw, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestBookingStatusPredicates(t *testing.T) {
	if !BookingStatusConfirmed.IsOpen() {
		t.Error("confirmed should be open")
	}
	for _, s := range []BookingStatus{BookingStatusCompleted, BookingStatusCancelled, BookingStatusRefund, BookingStatusFined, BookingStatusFastTag} {
		if s.IsOpen() {
			t.Errorf("%v should not be open", s)
		}
	}

	for _, s := range []BookingStatus{BookingStatusCompleted, BookingStatusFastTag} {
		if !s.IsAdjudicable() {
			t.Errorf("%v should be adjudicable", s)
		}
	}
	for _, s := range []BookingStatus{BookingStatusConfirmed, BookingStatusCancelled, BookingStatusRefund, BookingStatusFined} {
		if s.IsAdjudicable() {
			t.Errorf("%v should not be adjudicable", s)
		}
	}
}

func TestNormalizeLicensePlate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ka 01 ab 1234", "KA01AB1234"},
		{"KA-01-AB-1234", "KA01AB1234"},
		{"KA01AB1234", "KA01AB1234"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeLicensePlate(tt.in); got != tt.want {
			t.Errorf("NormalizeLicensePlate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
