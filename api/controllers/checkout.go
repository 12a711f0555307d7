package controllers

import (
	"net/http"
	"strings"

	"github.com/petfeliz/storefront-backend/api/responses"
	"github.com/petfeliz/storefront-backend/api/validators"
	"github.com/petfeliz/storefront-backend/internal/checkout"
	pkgerrors "github.com/petfeliz/storefront-backend/pkg/errors"
	"github.com/petfeliz/storefront-backend/pkg/logger"
	"github.com/petfeliz/storefront-backend/pkg/types"
)

type deliveryPayload struct {
	Method      string `json:"method" validate:"required,oneof=delivery pickup"`
	Destination *struct {
		PostalCode string `json:"postal_code" validate:"required"`
	} `json:"destination,omitempty"`
	Notes string `json:"notes,omitempty" validate:"max=500"`
}

func (p deliveryPayload) toDeliveryInfo() types.DeliveryInfo {
	info := types.DeliveryInfo{Method: types.DeliveryMethod(p.Method), Notes: p.Notes}
	if p.Destination != nil {
		info.Destination = &types.Destination{PostalCode: p.Destination.PostalCode}
	}
	return info
}

type summaryRequest struct {
	CouponCode string          `json:"coupon_code,omitempty"`
	Delivery   deliveryPayload `json:"delivery" validate:"required"`
}

// CheckoutSummary prices the current cart for the chosen delivery method.
// Every call recomputes the whole summary from the live cart snapshot.
func CheckoutSummary(calculator checkout.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if calculator == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout calculator unavailable"))
			return
		}

		var payload summaryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := calculator.Summarize(r.Context(), checkout.SummaryRequest{
			CouponCode: payload.CouponCode,
			Delivery:   payload.Delivery.toDeliveryInfo(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

type finalizeRequest struct {
	CouponCode string          `json:"coupon_code,omitempty"`
	Delivery   deliveryPayload `json:"delivery" validate:"required"`
}

// CheckoutFinalize places the order under the caller's idempotency token.
func CheckoutFinalize(executor checkout.Executor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if executor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout executor unavailable"))
			return
		}

		token := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
			return
		}

		var payload finalizeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := executor.Finalize(r.Context(), checkout.FinalizeRequest{
			Token:      token,
			CouponCode: payload.CouponCode,
			Delivery:   payload.Delivery.toDeliveryInfo(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
