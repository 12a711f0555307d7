// Package checkout resolves pricing previews and drives idempotent order
// finalization against the commerce backend.
package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/petfeliz/storefront-backend/internal/coupon"
	"github.com/petfeliz/storefront-backend/internal/remotecart"
	"github.com/petfeliz/storefront-backend/internal/shipping"
	pkgerrors "github.com/petfeliz/storefront-backend/pkg/errors"
	"github.com/petfeliz/storefront-backend/pkg/types"
)

// SummaryRequest describes one pricing preview.
type SummaryRequest struct {
	CouponCode string
	Delivery   types.DeliveryInfo
}

// Calculator produces a full checkout summary from the current cart state.
// Every call rebuilds the summary from scratch; nothing is patched in place.
type Calculator interface {
	Summarize(ctx context.Context, req SummaryRequest) (*types.CheckoutSummary, error)
}

type calculator struct {
	cart     remotecart.Client
	shipping shipping.Estimator
	coupons  coupon.Validator
}

// NewCalculator wires the summary flow.
func NewCalculator(cart remotecart.Client, estimator shipping.Estimator, coupons coupon.Validator) (Calculator, error) {
	if cart == nil {
		return nil, fmt.Errorf("checkout: cart client is required")
	}
	if estimator == nil {
		return nil, fmt.Errorf("checkout: shipping estimator is required")
	}
	if coupons == nil {
		return nil, fmt.Errorf("checkout: coupon validator is required")
	}
	return &calculator{cart: cart, shipping: estimator, coupons: coupons}, nil
}

func (c *calculator) Summarize(ctx context.Context, req SummaryRequest) (*types.CheckoutSummary, error) {
	if err := validateDelivery(req.Delivery); err != nil {
		return nil, err
	}

	cart, err := c.cart.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	shippingCost := decimal.Zero
	if req.Delivery.Method == types.DeliveryShip {
		shippingCost, err = c.shipping.Estimate(ctx, *req.Delivery.Destination)
		if err != nil {
			return nil, err
		}
	}

	discount := decimal.Zero
	if req.CouponCode != "" {
		result, err := c.coupons.Validate(ctx, req.CouponCode)
		if err != nil {
			return nil, err
		}
		if result.Valid {
			discount = result.DiscountAmount
		}
	}

	summary := Compose(cart, shippingCost, discount)
	return &summary, nil
}

// Compose derives a summary from its three pricing inputs. The total never
// goes below zero no matter how large the discount is.
func Compose(cart *types.Cart, shippingCost, discount decimal.Decimal) types.CheckoutSummary {
	subtotal := cart.Subtotal()
	total := subtotal.Add(shippingCost).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return types.CheckoutSummary{
		ItemsCount:   cart.ItemsCount(),
		Subtotal:     subtotal,
		ShippingCost: shippingCost,
		Discount:     discount,
		Total:        total,
	}
}

func validateDelivery(info types.DeliveryInfo) error {
	switch info.Method {
	case types.DeliveryShip:
		if info.Destination == nil || info.Destination.IsZero() {
			return pkgerrors.New(pkgerrors.CodeValidation, "delivery destination is required")
		}
	case types.DeliveryPickup:
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery method must be delivery or pickup")
	}
	return nil
}
