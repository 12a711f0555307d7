// Package merge moves a guest cart into the authenticated remote cart once
// a customer signs in.
package merge

import (
	"context"
	"fmt"

	"github.com/petfeliz/storefront-backend/internal/guestcart"
	"github.com/petfeliz/storefront-backend/internal/remotecart"
	pkgerrors "github.com/petfeliz/storefront-backend/pkg/errors"
	"github.com/petfeliz/storefront-backend/pkg/logger"
	"github.com/petfeliz/storefront-backend/pkg/metrics"
	"github.com/petfeliz/storefront-backend/pkg/types"
)

// Result reports what a merge accomplished.
type Result struct {
	MergedLines int         `json:"merged_lines"`
	Cart        *types.Cart `json:"cart"`
}

// Coordinator folds the guest cart into the remote cart after sign-in.
type Coordinator interface {
	Merge(ctx context.Context, guestID string) (*Result, error)
}

type coordinator struct {
	guest   guestcart.Service
	remote  remotecart.Client
	logg    *logger.Logger
	metrics *metrics.CheckoutMetrics
}

// NewCoordinator wires the merge flow. Metrics may be nil.
func NewCoordinator(guest guestcart.Service, remote remotecart.Client, logg *logger.Logger, m *metrics.CheckoutMetrics) (Coordinator, error) {
	if guest == nil {
		return nil, fmt.Errorf("merge: guest cart service is required")
	}
	if remote == nil {
		return nil, fmt.Errorf("merge: remote cart client is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("merge: logger is required")
	}
	return &coordinator{guest: guest, remote: remote, logg: logg, metrics: m}, nil
}

// Merge reads the guest cart once, pushes each line into the remote cart in
// insertion order, and clears the guest store only after every line landed.
// Additions are additive on the remote side, so a merge interrupted midway
// can be retried without losing guest lines: nothing local is discarded
// until the whole snapshot has been applied.
func (c *coordinator) Merge(ctx context.Context, guestID string) (*Result, error) {
	snapshot, err := c.guest.ReadAll(ctx, guestID)
	if err != nil {
		c.metrics.IncMerge("read_failed")
		return nil, err
	}

	if len(snapshot.Lines) == 0 {
		cart, err := c.remote.Fetch(ctx)
		if err != nil {
			c.metrics.IncMerge("fetch_failed")
			return nil, err
		}
		c.metrics.IncMerge("empty")
		return &Result{MergedLines: 0, Cart: cart}, nil
	}

	var cart *types.Cart
	for i, line := range snapshot.Lines {
		cart, err = c.remote.AddItem(ctx, line.ProductID, line.Quantity)
		if err != nil {
			c.metrics.IncMerge("failed")
			c.logg.Error(c.logg.WithGuestID(ctx, guestID), fmt.Sprintf("cart merge stopped after %d of %d lines", i, len(snapshot.Lines)), err)
			return nil, pkgerrors.Wrap(pkgerrors.As(err).Code(), err, "merging guest cart")
		}
	}

	if err := c.guest.Clear(ctx, guestID); err != nil {
		// The remote cart already holds every line; a retry re-adds them.
		c.metrics.IncMerge("clear_failed")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing guest cart after merge")
	}

	c.metrics.IncMerge("merged")
	c.logg.Info(c.logg.WithFields(ctx, map[string]any{
		"guest_id":     guestID,
		"merged_lines": len(snapshot.Lines),
	}), "guest cart merged into remote cart")

	return &Result{MergedLines: len(snapshot.Lines), Cart: cart}, nil
}
