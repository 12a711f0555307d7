package shipping

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/petfeliz/storefront-backend/internal/upstream"
	pkgerrors "github.com/petfeliz/storefront-backend/pkg/errors"
	"github.com/petfeliz/storefront-backend/pkg/types"
)

func newEstimator(t *testing.T, handler http.Handler) Estimator {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	transport, err := upstream.NewClient(server.URL)
	if err != nil {
		t.Fatalf("building transport: %v", err)
	}
	estimator, err := NewClient(transport)
	if err != nil {
		t.Fatalf("building estimator: %v", err)
	}
	return estimator
}

func TestEstimate(t *testing.T) {
	estimator := newEstimator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if body["postal_code"] != "28001" {
			t.Fatalf("unexpected destination %q", body["postal_code"])
		}
		_, _ = w.Write([]byte(`{"data":{"shipping_cost":"5.90"}}`))
	}))

	cost, err := estimator.Estimate(context.Background(), types.Destination{PostalCode: "28001"})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if !cost.Equal(decimal.RequireFromString("5.90")) {
		t.Fatalf("expected 5.90, got %s", cost)
	}
}

func TestEstimateRequiresDestination(t *testing.T) {
	estimator := newEstimator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("expected no network call without destination")
	}))

	_, err := estimator.Estimate(context.Background(), types.Destination{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEstimateRejectsNegative(t *testing.T) {
	estimator := newEstimator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"shipping_cost":"-1.00"}}`))
	}))

	_, err := estimator.Estimate(context.Background(), types.Destination{PostalCode: "28001"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
