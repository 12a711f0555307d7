// Package orders reads back the customer's order history from the commerce
// backend for display.
package orders

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/petfeliz/storefront-backend/internal/upstream"
	"github.com/petfeliz/storefront-backend/pkg/auth"
	pkgerrors "github.com/petfeliz/storefront-backend/pkg/errors"
	"github.com/petfeliz/storefront-backend/pkg/types"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Client reads orders placed by the authenticated customer.
type Client interface {
	List(ctx context.Context, limit int) ([]types.Order, error)
	Get(ctx context.Context, orderID string) (*types.Order, error)
}

type client struct {
	transport *upstream.Client
}

// NewClient wires the order reader onto the shared transport.
func NewClient(transport *upstream.Client) (Client, error) {
	if transport == nil {
		return nil, fmt.Errorf("orders: transport is required")
	}
	return &client{transport: transport}, nil
}

// List returns the newest orders first, capped at the requested limit.
func (c *client) List(ctx context.Context, limit int) ([]types.Order, error) {
	if !auth.IsAuthenticated(ctx) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated session required")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	var payload struct {
		Orders []types.Order `json:"orders"`
	}
	path := fmt.Sprintf("/orders?limit=%d", limit)
	if err := c.transport.DoJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Orders, nil
}

func (c *client) Get(ctx context.Context, orderID string) (*types.Order, error) {
	if !auth.IsAuthenticated(ctx) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated session required")
	}
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	var order types.Order
	path := fmt.Sprintf("/orders/%s", url.PathEscape(orderID))
	if err := c.transport.DoJSON(ctx, http.MethodGet, path, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
