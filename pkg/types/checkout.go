package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Destination is where an order ships. Address resolution by postal code is
// an upstream concern; this core only carries the code around.
type Destination struct {
	PostalCode string `json:"postal_code"`
}

func (d Destination) IsZero() bool {
	return strings.TrimSpace(d.PostalCode) == ""
}

// CouponResult is the advisory outcome of a coupon check. It is display-only:
// the authoritative discount is re-resolved server-side at finalize time.
type CouponResult struct {
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Valid          bool            `json:"valid"`
}

// CheckoutSummary is a derived pricing preview. It is recomputed wholesale on
// every pricing request and never patched in place.
type CheckoutSummary struct {
	ItemsCount   int             `json:"items_count"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
}

// DeliveryMethod selects how the customer receives the order.
type DeliveryMethod string

const (
	DeliveryShip   DeliveryMethod = "delivery"
	DeliveryPickup DeliveryMethod = "pickup"
)

// DeliveryInfo carries the delivery-or-pickup selection submitted at finalize.
type DeliveryInfo struct {
	Method      DeliveryMethod `json:"method"`
	Destination *Destination   `json:"destination,omitempty"`
	Notes       string         `json:"notes,omitempty"`
}
