package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/petfeliz/storefront-backend/api/responses"
	"github.com/petfeliz/storefront-backend/api/validators"
	"github.com/petfeliz/storefront-backend/internal/guestcart"
	"github.com/petfeliz/storefront-backend/pkg/auth"
	pkgerrors "github.com/petfeliz/storefront-backend/pkg/errors"
	"github.com/petfeliz/storefront-backend/pkg/logger"
)

// GuestCartGet returns the local guest cart for the session.
func GuestCartGet(svc guestcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest cart service unavailable"))
			return
		}

		cart, err := svc.ReadAll(r.Context(), auth.GuestID(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

type addGuestItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
}

// GuestCartAddItem adds a product to the guest cart, merging quantities when
// the product is already present.
func GuestCartAddItem(svc guestcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest cart service unavailable"))
			return
		}

		var payload addGuestItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.AddItem(r.Context(), auth.GuestID(r.Context()), guestcart.ProductRef{
			ProductID: payload.ProductID,
			Name:      payload.Name,
			UnitPrice: payload.UnitPrice,
		}, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, cart)
	}
}

type updateGuestItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// GuestCartUpdateItem sets the absolute quantity of one line. Zero removes it.
func GuestCartUpdateItem(svc guestcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest cart service unavailable"))
			return
		}

		var payload updateGuestItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineID := chi.URLParam(r, "lineID")
		cart, err := svc.UpdateItem(r.Context(), auth.GuestID(r.Context()), lineID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

// GuestCartRemoveItem drops one line from the guest cart.
func GuestCartRemoveItem(svc guestcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest cart service unavailable"))
			return
		}

		cart, err := svc.RemoveItem(r.Context(), auth.GuestID(r.Context()), chi.URLParam(r, "lineID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

// GuestCartClear empties the guest cart.
func GuestCartClear(svc guestcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest cart service unavailable"))
			return
		}

		if err := svc.Clear(r.Context(), auth.GuestID(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusOK, map[string]bool{"cleared": true})
	}
}
