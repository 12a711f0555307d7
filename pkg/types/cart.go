package types

import (
	"github.com/shopspring/decimal"
)

// OwnerKind distinguishes who a cart belongs to. Exactly one cart is
// authoritative per browsing session: the guest cart before authentication,
// the remote cart after.
type OwnerKind string

const (
	OwnerGuest    OwnerKind = "guest"
	OwnerCustomer OwnerKind = "customer"
)

type CartOwner struct {
	Kind       OwnerKind `json:"kind"`
	CustomerID string    `json:"customer_id,omitempty"`
}

// CartLine is one product entry in a cart. UnitPrice is snapshotted at
// add-time and never re-read from the catalog.
type CartLine struct {
	LineID    string          `json:"line_id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal returns unit price times quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds an ordered list of lines with unique product ids.
type Cart struct {
	Owner CartOwner  `json:"owner"`
	Lines []CartLine `json:"lines"`
}

// Subtotal sums every line total.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

// ItemsCount sums line quantities.
func (c Cart) ItemsCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// LineByProduct finds the line holding the given product, if any.
func (c Cart) LineByProduct(productID string) (CartLine, bool) {
	for _, line := range c.Lines {
		if line.ProductID == productID {
			return line, true
		}
	}
	return CartLine{}, false
}
