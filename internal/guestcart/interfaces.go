package guestcart

import (
	"context"

	"github.com/petfeliz/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Storage is the durable local port the guest cart persists through. It is
// injected, never a package-level singleton, so tests can swap it out and no
// hidden state crosses test boundaries.
type Storage interface {
	Read(ctx context.Context, guestID string) ([]StoredLine, error)
	Write(ctx context.Context, guestID string, lines []StoredLine) error
	Clear(ctx context.Context, guestID string) error
}

// ProductRef carries the catalog snapshot taken when an item is added. Only
// product id, display name, and unit price are persisted locally.
type ProductRef struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
}

// Service exposes the unauthenticated cart operations. Every call is local
// and synchronous; no network request ever originates here.
type Service interface {
	AddItem(ctx context.Context, guestID string, product ProductRef, qty int) (*types.Cart, error)
	UpdateItem(ctx context.Context, guestID, lineID string, qty int) (*types.Cart, error)
	RemoveItem(ctx context.Context, guestID, lineID string) (*types.Cart, error)
	ReadAll(ctx context.Context, guestID string) (*types.Cart, error)
	Clear(ctx context.Context, guestID string) error
}
