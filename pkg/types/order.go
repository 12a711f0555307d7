package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is one purchased item as recorded by the order service.
type OrderLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Order is the server-created record of one accepted checkout. Immutable from
// this side other than status and payment fields read back for display.
type Order struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Lines        []OrderLine     `json:"lines"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	PickupCode   string          `json:"pickup_code,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
}
