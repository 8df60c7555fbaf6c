package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	OrderNumber  string          `json:"order_number" gorm:"unique;not null"`
	Phone        string          `json:"phone" gorm:"not null"`
	CustomerName string          `json:"customer_name" gorm:"not null"`
	Address      string          `json:"address"`
	Longitude    *float64        `json:"longitude"`
	Latitude     *float64        `json:"latitude"`
	TotalAmount  decimal.Decimal `json:"total_amount" gorm:"type:decimal(14,2);not null"`
	Status       OrderStatus     `json:"status" gorm:"default:'pending'"`
	Process      OrderProcess    `json:"process" gorm:"default:'new'"`
	OrderType    OrderType       `json:"order_type" gorm:"default:'delivery'"`
	Provider     Provider        `json:"provider" gorm:"default:'cash'"`
	UserID       uint            `json:"user_id" gorm:"not null;index"`
	BranchID     *uint           `json:"branch_id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Items  []OrderItem `json:"items,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	Branch *Branch     `json:"branch,omitempty"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderApproved  OrderStatus = "approved"
	OrderCancelled OrderStatus = "cancelled"
)

type OrderProcess string

const (
	ProcessNew       OrderProcess = "new"
	ProcessInCourier OrderProcess = "in_courier"
	ProcessDelivered OrderProcess = "delivered"
)

type OrderType string

const (
	TypeDelivery OrderType = "delivery"
	TypeTakeAway OrderType = "take_away"
)

type Provider string

const (
	ProviderClick Provider = "click"
	ProviderPayme Provider = "payme"
	ProviderPayze Provider = "payze"
	ProviderCash  Provider = "cash"
)

// Display labels for the storefront, mirroring the status/type/process
// choice labels of the admin UI.
var (
	StatusLabels = map[OrderStatus]string{
		OrderPending:   "Pending",
		OrderApproved:  "Approved",
		OrderCancelled: "Cancelled",
	}
	ProcessLabels = map[OrderProcess]string{
		ProcessNew:       "New",
		ProcessInCourier: "In courier",
		ProcessDelivered: "Delivered",
	}
	TypeLabels = map[OrderType]string{
		TypeDelivery: "Delivery",
		TypeTakeAway: "Take away",
	}
)

// OrderItem links an order to a product with the purchased quantity and the
// line amount captured at order time. Immutable once created.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"order_id" gorm:"not null;index"`
	ProductID uint            `json:"product_id" gorm:"not null;index"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	CreatedAt time.Time       `json:"created_at"`

	Product *Product `json:"product,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
}

// OrderAmounts is the derived money breakdown of an order. ShippingAmount is
// total minus product amount and is intentionally not clamped: a negative
// value signals corrupt totals upstream.
type OrderAmounts struct {
	ProductAmount  decimal.Decimal `json:"product_amount"`
	ShippingAmount decimal.Decimal `json:"shipping_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

type Branch struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Description  string    `json:"description" gorm:"size:255"`
	Longitude    *float64  `json:"longitude"`
	Latitude     *float64  `json:"latitude"`
	SupportPhone string    `json:"support_phone" gorm:"size:255"`
	Archive      bool      `json:"archive" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
