package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Role represents the role of an account.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDriver Role = "driver"
)

// SeedBalance is credited to every driver account at registration.
var SeedBalance = decimal.NewFromInt(1000)

// User represents a driver or administrator account.
//
// Balance is mutated only through the ledger path (update_user_balance plus a
// ledger row in the same transaction); it is never assigned directly.
type User struct {
	ID           string
	Name         string
	Email        string
	Role         Role
	LicensePlate string
	Balance      decimal.Decimal
	CreatedAt    time.Time
}

// NormalizeLicensePlate strips spaces and dashes and uppercases the plate.
func NormalizeLicensePlate(value string) string {
	value = strings.ReplaceAll(value, " ", "")
	value = strings.ReplaceAll(value, "-", "")
	return strings.ToUpper(value)
}
