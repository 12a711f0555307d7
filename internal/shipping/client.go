// Package shipping resolves delivery cost estimates from the commerce
// backend for a destination.
package shipping

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/petfeliz/storefront-backend/internal/upstream"
	pkgerrors "github.com/petfeliz/storefront-backend/pkg/errors"
	"github.com/petfeliz/storefront-backend/pkg/types"
)

// Estimator resolves the shipping cost for the caller's cart shipped to a
// destination.
type Estimator interface {
	Estimate(ctx context.Context, dest types.Destination) (decimal.Decimal, error)
}

type client struct {
	transport *upstream.Client
}

// NewClient wires the shipping estimator onto the shared transport.
func NewClient(transport *upstream.Client) (Estimator, error) {
	if transport == nil {
		return nil, fmt.Errorf("shipping: transport is required")
	}
	return &client{transport: transport}, nil
}

func (c *client) Estimate(ctx context.Context, dest types.Destination) (decimal.Decimal, error) {
	if dest.IsZero() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "destination is required")
	}

	body := map[string]string{"postal_code": dest.PostalCode}
	var payload struct {
		ShippingCost decimal.Decimal `json:"shipping_cost"`
	}
	if err := c.transport.DoJSON(ctx, http.MethodPost, "/shipping/estimate", body, &payload); err != nil {
		return decimal.Zero, err
	}
	if payload.ShippingCost.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeDependency, "negative shipping estimate")
	}
	return payload.ShippingCost, nil
}
