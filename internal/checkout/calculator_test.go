package checkout

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/petfeliz/storefront-backend/pkg/errors"
	"github.com/petfeliz/storefront-backend/pkg/types"
)

type stubCart struct {
	cart *types.Cart
	err  error
}

func (s *stubCart) Fetch(ctx context.Context) (*types.Cart, error) {
	return s.cart, s.err
}

func (s *stubCart) AddItem(ctx context.Context, productID string, qty int) (*types.Cart, error) {
	panic("not used")
}

func (s *stubCart) UpdateItem(ctx context.Context, lineID string, qty int) (*types.Cart, error) {
	panic("not used")
}

func (s *stubCart) RemoveItem(ctx context.Context, lineID string) (*types.Cart, error) {
	panic("not used")
}

type stubEstimator struct {
	cost   decimal.Decimal
	err    error
	called int
}

func (s *stubEstimator) Estimate(ctx context.Context, dest types.Destination) (decimal.Decimal, error) {
	s.called++
	return s.cost, s.err
}

type stubCoupon struct {
	result *types.CouponResult
	err    error
}

func (s *stubCoupon) Validate(ctx context.Context, code string) (*types.CouponResult, error) {
	return s.result, s.err
}

func cartWithSubtotal() *types.Cart {
	return &types.Cart{
		Owner: types.CartOwner{Kind: types.OwnerCustomer, CustomerID: "cust-1"},
		Lines: []types.CartLine{
			{LineID: "l1", ProductID: "p1", Name: "Kibble", UnitPrice: decimal.RequireFromString("10.00"), Quantity: 2},
			{LineID: "l2", ProductID: "p2", Name: "Toy", UnitPrice: decimal.RequireFromString("5.00"), Quantity: 1},
		},
	}
}

func newCalc(t *testing.T, cart *stubCart, est *stubEstimator, cpn *stubCoupon) Calculator {
	t.Helper()
	calc, err := NewCalculator(cart, est, cpn)
	if err != nil {
		t.Fatalf("building calculator: %v", err)
	}
	return calc
}

func shipTo(code string) types.DeliveryInfo {
	return types.DeliveryInfo{Method: types.DeliveryShip, Destination: &types.Destination{PostalCode: code}}
}

func TestSummarizeComputesTotals(t *testing.T) {
	est := &stubEstimator{cost: decimal.RequireFromString("5.90")}
	cpn := &stubCoupon{result: &types.CouponResult{Code: "PUPPY10", DiscountAmount: decimal.RequireFromString("4.50"), Valid: true}}
	calc := newCalc(t, &stubCart{cart: cartWithSubtotal()}, est, cpn)

	summary, err := calc.Summarize(context.Background(), SummaryRequest{CouponCode: "PUPPY10", Delivery: shipTo("28001")})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	if summary.ItemsCount != 3 {
		t.Fatalf("expected 3 items, got %d", summary.ItemsCount)
	}
	if !summary.Subtotal.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("expected subtotal 25.00, got %s", summary.Subtotal)
	}
	if !summary.Total.Equal(decimal.RequireFromString("26.40")) {
		t.Fatalf("expected total 26.40, got %s", summary.Total)
	}
}

func TestSummarizeClampsTotalAtZero(t *testing.T) {
	est := &stubEstimator{cost: decimal.Zero}
	cpn := &stubCoupon{result: &types.CouponResult{Code: "BIG", DiscountAmount: decimal.RequireFromString("100.00"), Valid: true}}
	calc := newCalc(t, &stubCart{cart: cartWithSubtotal()}, est, cpn)

	summary, err := calc.Summarize(context.Background(), SummaryRequest{CouponCode: "BIG", Delivery: types.DeliveryInfo{Method: types.DeliveryPickup}})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if !summary.Total.IsZero() {
		t.Fatalf("expected total clamped to zero, got %s", summary.Total)
	}
	if !summary.Discount.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("expected discount preserved, got %s", summary.Discount)
	}
}

func TestSummarizePickupSkipsShipping(t *testing.T) {
	est := &stubEstimator{cost: decimal.RequireFromString("9.99")}
	calc := newCalc(t, &stubCart{cart: cartWithSubtotal()}, est, &stubCoupon{})

	summary, err := calc.Summarize(context.Background(), SummaryRequest{Delivery: types.DeliveryInfo{Method: types.DeliveryPickup}})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if est.called != 0 {
		t.Fatal("expected no shipping estimate for pickup")
	}
	if !summary.ShippingCost.IsZero() {
		t.Fatalf("expected zero shipping, got %s", summary.ShippingCost)
	}
}

func TestSummarizeIsDeterministic(t *testing.T) {
	est := &stubEstimator{cost: decimal.RequireFromString("5.90")}
	cpn := &stubCoupon{result: &types.CouponResult{Code: "PUPPY10", DiscountAmount: decimal.RequireFromString("4.50"), Valid: true}}
	calc := newCalc(t, &stubCart{cart: cartWithSubtotal()}, est, cpn)

	req := SummaryRequest{CouponCode: "PUPPY10", Delivery: shipTo("28001")}
	first, err := calc.Summarize(context.Background(), req)
	if err != nil {
		t.Fatalf("first summarize: %v", err)
	}
	second, err := calc.Summarize(context.Background(), req)
	if err != nil {
		t.Fatalf("second summarize: %v", err)
	}
	if !first.Total.Equal(second.Total) || first.ItemsCount != second.ItemsCount {
		t.Fatalf("expected identical summaries, got %+v and %+v", first, second)
	}
}

func TestSummarizeEmptyCart(t *testing.T) {
	calc := newCalc(t, &stubCart{cart: &types.Cart{}}, &stubEstimator{}, &stubCoupon{})

	_, err := calc.Summarize(context.Background(), SummaryRequest{Delivery: types.DeliveryInfo{Method: types.DeliveryPickup}})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for empty cart, got %v", err)
	}
}

func TestSummarizeInvalidCouponContributesNothing(t *testing.T) {
	cpn := &stubCoupon{result: &types.CouponResult{Code: "DEAD", Valid: false}}
	calc := newCalc(t, &stubCart{cart: cartWithSubtotal()}, &stubEstimator{}, cpn)

	summary, err := calc.Summarize(context.Background(), SummaryRequest{CouponCode: "DEAD", Delivery: types.DeliveryInfo{Method: types.DeliveryPickup}})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if !summary.Discount.IsZero() {
		t.Fatalf("expected zero discount for invalid coupon, got %s", summary.Discount)
	}
}

func TestSummarizeDeliveryValidation(t *testing.T) {
	calc := newCalc(t, &stubCart{cart: cartWithSubtotal()}, &stubEstimator{}, &stubCoupon{})

	cases := []struct {
		name     string
		delivery types.DeliveryInfo
	}{
		{"unknown method", types.DeliveryInfo{Method: "drone"}},
		{"delivery without destination", types.DeliveryInfo{Method: types.DeliveryShip}},
		{"delivery with blank destination", shipTo("   ")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := calc.Summarize(context.Background(), SummaryRequest{Delivery: tc.delivery})
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
