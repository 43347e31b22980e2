package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TollBooth represents a toll booth with an express lane.
// Booths are immutable reference data maintained by administrators.
type TollBooth struct {
	ID         string
	Name       string
	Highway    string
	Lat        float64
	Lng        float64
	ExpressFee decimal.Decimal
	CreatedAt  time.Time
}
