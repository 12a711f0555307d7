package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/petfeliz/storefront-backend/internal/merge"
	"github.com/petfeliz/storefront-backend/pkg/auth"
	pkgerrors "github.com/petfeliz/storefront-backend/pkg/errors"
	"github.com/petfeliz/storefront-backend/pkg/types"
)

type stubCoordinator struct {
	result      *merge.Result
	err         error
	lastGuestID string
}

func (s *stubCoordinator) Merge(ctx context.Context, guestID string) (*merge.Result, error) {
	s.lastGuestID = guestID
	return s.result, s.err
}

type stubValidator struct {
	result *types.CouponResult
	err    error
}

func (s *stubValidator) Validate(ctx context.Context, code string) (*types.CouponResult, error) {
	return s.result, s.err
}

func TestCartMergeSuccess(t *testing.T) {
	coord := &stubCoordinator{result: &merge.Result{MergedLines: 2, Cart: &types.Cart{}}}
	handler := CartMerge(coord, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/merge", nil)
	req = req.WithContext(auth.WithGuestID(req.Context(), "guest-1"))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if coord.lastGuestID != "guest-1" {
		t.Fatalf("expected guest id forwarded, got %q", coord.lastGuestID)
	}
	if !strings.Contains(rec.Body.String(), `"merged_lines":2`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestCartMergeRequiresGuestHeader(t *testing.T) {
	handler := CartMerge(&stubCoordinator{}, testLogger())

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cart/merge", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without guest id, got %d", rec.Code)
	}
}

func TestCartApplyCoupon(t *testing.T) {
	validator := &stubValidator{result: &types.CouponResult{
		Code:           "PUPPY10",
		DiscountAmount: decimal.RequireFromString("4.50"),
		Valid:          true,
	}}
	handler := CartApplyCoupon(validator, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/apply-coupon", strings.NewReader(`{"code":"PUPPY10"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "PUPPY10") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestCartApplyCouponRejection(t *testing.T) {
	validator := &stubValidator{err: pkgerrors.New(pkgerrors.CodeCouponRejected, "coupon expired").
		WithDetails(map[string]string{"reason": "expired"})}
	handler := CartApplyCoupon(validator, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/apply-coupon", strings.NewReader(`{"code":"OLD"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "COUPON_REJECTED") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestCartApplyCouponValidatesBody(t *testing.T) {
	handler := CartApplyCoupon(&stubValidator{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/apply-coupon", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing code, got %d", rec.Code)
	}
}
