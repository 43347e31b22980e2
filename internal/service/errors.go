package service

import "errors"

var (
	// ErrTooClose is returned when the driver is under 5 km from the booth.
	ErrTooClose = errors.New("too close to toll booth to book")

	// ErrTooFar is returned when the driver is over 20 km from the booth.
	ErrTooFar = errors.New("too far from toll booth to book")

	// ErrInsufficientBalance is returned when the account cannot cover the fee.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrDistanceUnavailable is returned when the distance provider fails.
	// The booking flow fails closed on it: no booking, no charge.
	ErrDistanceUnavailable = errors.New("distance service unavailable")

	// ErrNoBoothAvailable is returned when no toll booth can be quoted.
	ErrNoBoothAvailable = errors.New("no toll booth available")

	// ErrBadTimeSlot is returned when a stored time slot cannot be parsed.
	// This is a data error and is reported, never skipped.
	ErrBadTimeSlot = errors.New("unparseable time slot")

	// ErrAlreadyAdjudicated is returned when a booking has already received
	// its one-time admin decision.
	ErrAlreadyAdjudicated = errors.New("booking already adjudicated")

	// ErrNotAdjudicable is returned when a booking's status does not admit
	// the requested adjudication.
	ErrNotAdjudicable = errors.New("booking not adjudicable in current status")

	// ErrNotCancellable is returned when a booking is not confirmed or its
	// arrival window has already passed.
	ErrNotCancellable = errors.New("booking cannot be cancelled")

	// ErrForbidden is returned when the session may not act on the resource.
	ErrForbidden = errors.New("operation not permitted")

	// ErrAdminOnly is returned when a driver session calls an admin operation.
	ErrAdminOnly = errors.New("admin role required")

	// ErrInvalidUserID is returned when a user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidBoothID is returned when a toll booth ID is empty.
	ErrInvalidBoothID = errors.New("invalid toll booth id")

	// ErrInvalidBookingID is returned when a booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidAmount is returned when a monetary amount is not positive.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidLocation is returned when coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidBoothFee is returned when a booth fee is not positive.
	ErrInvalidBoothFee = errors.New("invalid express lane fee")

	// ErrEmailTaken is returned when registering an already used email.
	ErrEmailTaken = errors.New("email already registered")
)
