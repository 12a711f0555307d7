// Package coupon asks the commerce backend whether a coupon applies to the
// current cart. The answer is advisory only: the backend re-validates at
// finalize time and remains the sole authority on discounts.
package coupon

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/petfeliz/storefront-backend/internal/upstream"
	pkgerrors "github.com/petfeliz/storefront-backend/pkg/errors"
	"github.com/petfeliz/storefront-backend/pkg/types"
)

// Validator checks a coupon against the caller's current cart.
type Validator interface {
	Validate(ctx context.Context, code string) (*types.CouponResult, error)
}

type client struct {
	transport *upstream.Client
}

// NewClient wires the coupon validator onto the shared transport.
func NewClient(transport *upstream.Client) (Validator, error) {
	if transport == nil {
		return nil, fmt.Errorf("coupon: transport is required")
	}
	return &client{transport: transport}, nil
}

type resultPayload struct {
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Valid          bool            `json:"valid"`
}

func (c *client) Validate(ctx context.Context, code string) (*types.CouponResult, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	body := map[string]string{"code": trimmed}
	var payload resultPayload
	err := c.transport.DoJSON(ctx, http.MethodPost, "/cart/apply-coupon", body, &payload,
		upstream.MapStatus(http.StatusUnprocessableEntity, pkgerrors.CodeCouponRejected))
	if err != nil {
		return nil, err
	}

	return &types.CouponResult{
		Code:           payload.Code,
		DiscountAmount: payload.DiscountAmount,
		Valid:          payload.Valid,
	}, nil
}
