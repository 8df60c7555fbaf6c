package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettingsID is the fixed primary key of the single settings row.
const SettingsID uint = 1

// Settings is a singleton: exactly one row, ensured at startup.
type Settings struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	ShippingCost decimal.Decimal `json:"shipping_cost" gorm:"type:decimal(14,2);not null"`
	USDRate      decimal.Decimal `json:"usd_rate" gorm:"type:decimal(14,2)"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
