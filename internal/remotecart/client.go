// Package remotecart talks to the authoritative server-side cart owned by
// the commerce backend. Every call requires an authenticated context; the
// guest cart never flows through here except during a merge.
package remotecart

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/petfeliz/storefront-backend/internal/upstream"
	"github.com/petfeliz/storefront-backend/pkg/auth"
	pkgerrors "github.com/petfeliz/storefront-backend/pkg/errors"
	"github.com/petfeliz/storefront-backend/pkg/types"
)

// Client exposes the remote cart operations used by the storefront.
type Client interface {
	Fetch(ctx context.Context) (*types.Cart, error)
	AddItem(ctx context.Context, productID string, qty int) (*types.Cart, error)
	UpdateItem(ctx context.Context, lineID string, qty int) (*types.Cart, error)
	RemoveItem(ctx context.Context, lineID string) (*types.Cart, error)
}

type client struct {
	transport *upstream.Client
}

// NewClient wires the remote cart client onto the shared transport.
func NewClient(transport *upstream.Client) (Client, error) {
	if transport == nil {
		return nil, fmt.Errorf("remotecart: transport is required")
	}
	return &client{transport: transport}, nil
}

type cartPayload struct {
	CustomerID string        `json:"customer_id"`
	Lines      []linePayload `json:"lines"`
}

type linePayload struct {
	LineID    string          `json:"line_id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

func (c *client) Fetch(ctx context.Context) (*types.Cart, error) {
	if err := requireAuth(ctx); err != nil {
		return nil, err
	}
	var payload cartPayload
	if err := c.transport.DoJSON(ctx, http.MethodGet, "/cart", nil, &payload); err != nil {
		return nil, err
	}
	return payload.toCart(), nil
}

// AddItem adds quantity to the remote cart line for the product, creating
// the line if absent. Quantities are additive on the server side, which is
// what makes a merge retry safe to resume.
func (c *client) AddItem(ctx context.Context, productID string, qty int) (*types.Cart, error) {
	if err := requireAuth(ctx); err != nil {
		return nil, err
	}
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	body := map[string]any{"product_id": productID, "quantity": qty}
	var payload cartPayload
	if err := c.transport.DoJSON(ctx, http.MethodPost, "/cart/items", body, &payload); err != nil {
		return nil, err
	}
	return payload.toCart(), nil
}

// UpdateItem sets the absolute quantity on an existing line. Zero or
// negative removes the line.
func (c *client) UpdateItem(ctx context.Context, lineID string, qty int) (*types.Cart, error) {
	if err := requireAuth(ctx); err != nil {
		return nil, err
	}
	if lineID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id is required")
	}
	if qty <= 0 {
		return c.RemoveItem(ctx, lineID)
	}

	path := fmt.Sprintf("/cart/items/%s", url.PathEscape(lineID))
	body := map[string]any{"quantity": qty}
	var payload cartPayload
	if err := c.transport.DoJSON(ctx, http.MethodPatch, path, body, &payload); err != nil {
		return nil, err
	}
	return payload.toCart(), nil
}

func (c *client) RemoveItem(ctx context.Context, lineID string) (*types.Cart, error) {
	if err := requireAuth(ctx); err != nil {
		return nil, err
	}
	if lineID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id is required")
	}

	path := fmt.Sprintf("/cart/items/%s", url.PathEscape(lineID))
	var payload cartPayload
	if err := c.transport.DoJSON(ctx, http.MethodDelete, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.toCart(), nil
}

func requireAuth(ctx context.Context) error {
	if !auth.IsAuthenticated(ctx) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated session required")
	}
	return nil
}

func (p cartPayload) toCart() *types.Cart {
	cart := &types.Cart{
		Owner: types.CartOwner{Kind: types.OwnerCustomer, CustomerID: p.CustomerID},
		Lines: make([]types.CartLine, 0, len(p.Lines)),
	}
	for _, l := range p.Lines {
		cart.Lines = append(cart.Lines, types.CartLine{
			LineID:    l.LineID,
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		})
	}
	return cart
}
