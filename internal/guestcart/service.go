package guestcart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/petfeliz/storefront-backend/pkg/errors"
	"github.com/petfeliz/storefront-backend/pkg/logger"
	"github.com/petfeliz/storefront-backend/pkg/types"
)

type service struct {
	storage Storage
	logg    *logger.Logger
}

// NewService builds the local guest-cart service on top of a storage port.
func NewService(storage Storage, logg *logger.Logger) (Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("guestcart: storage is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("guestcart: logger is required")
	}
	return &service{storage: storage, logg: logg}, nil
}

func (s *service) AddItem(ctx context.Context, guestID string, product ProductRef, qty int) (*types.Cart, error) {
	if err := validateGuestID(guestID); err != nil {
		return nil, err
	}
	if product.ProductID == "" {
		return nil, errors.New(errors.CodeValidation, "product id is required")
	}
	if qty < 1 {
		return nil, errors.New(errors.CodeValidation, "quantity must be at least 1")
	}
	if product.UnitPrice.IsNegative() {
		return nil, errors.New(errors.CodeValidation, "unit price must not be negative")
	}

	lines, err := s.storage.Read(ctx, guestID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "reading guest cart")
	}

	merged := false
	for i := range lines {
		if lines[i].ProductID == product.ProductID {
			lines[i].Quantity += qty
			lines[i].Name = product.Name
			lines[i].UnitPrice = product.UnitPrice
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, StoredLine{
			LineID:    uuid.NewString(),
			ProductID: product.ProductID,
			Name:      product.Name,
			UnitPrice: product.UnitPrice,
			Quantity:  qty,
		})
	}

	if err := s.storage.Write(ctx, guestID, lines); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "writing guest cart")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"guest_id":   guestID,
		"product_id": product.ProductID,
		"quantity":   qty,
	}), "guest cart item added")
	return buildCart(lines), nil
}

func (s *service) UpdateItem(ctx context.Context, guestID, lineID string, qty int) (*types.Cart, error) {
	if err := validateGuestID(guestID); err != nil {
		return nil, err
	}
	if lineID == "" {
		return nil, errors.New(errors.CodeValidation, "line id is required")
	}

	lines, err := s.storage.Read(ctx, guestID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "reading guest cart")
	}

	idx := -1
	for i := range lines {
		if lines[i].LineID == lineID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errors.New(errors.CodeNotFound, "cart line not found")
	}

	if qty <= 0 {
		lines = append(lines[:idx], lines[idx+1:]...)
	} else {
		lines[idx].Quantity = qty
	}

	if err := s.storage.Write(ctx, guestID, lines); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "writing guest cart")
	}
	return buildCart(lines), nil
}

func (s *service) RemoveItem(ctx context.Context, guestID, lineID string) (*types.Cart, error) {
	return s.UpdateItem(ctx, guestID, lineID, 0)
}

func (s *service) ReadAll(ctx context.Context, guestID string) (*types.Cart, error) {
	if err := validateGuestID(guestID); err != nil {
		return nil, err
	}
	lines, err := s.storage.Read(ctx, guestID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "reading guest cart")
	}
	return buildCart(lines), nil
}

func (s *service) Clear(ctx context.Context, guestID string) error {
	if err := validateGuestID(guestID); err != nil {
		return err
	}
	if err := s.storage.Clear(ctx, guestID); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "clearing guest cart")
	}
	return nil
}

func validateGuestID(guestID string) error {
	if guestID == "" {
		return errors.New(errors.CodeValidation, "guest id is required")
	}
	return nil
}

func buildCart(lines []StoredLine) *types.Cart {
	cart := &types.Cart{
		Owner: types.CartOwner{Kind: types.OwnerGuest},
		Lines: make([]types.CartLine, 0, len(lines)),
	}
	for _, l := range lines {
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
