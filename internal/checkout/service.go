package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/greenhouse-storefront/internal/cart"
	pkgerrors "github.com/angelmondragon/greenhouse-storefront/pkg/errors"
	"github.com/angelmondragon/greenhouse-storefront/pkg/logger"
	"github.com/angelmondragon/greenhouse-storefront/pkg/orderapi"
)

type cartStore interface {
	Load(ctx context.Context, scope cart.Scope) (cart.Cart, error)
	Clear(ctx context.Context, scope cart.Scope) (cart.Cart, error)
}

type orderSubmitter interface {
	SubmitOrder(ctx context.Context, req orderapi.SubmitOrderRequest) (string, error)
}

// Service submits the current cart as an order.
type Service interface {
	Submit(ctx context.Context, scope cart.Scope, input SubmitInput) (*Result, error)
}

// SubmitInput carries request-scoped checkout options.
type SubmitInput struct {
	IdempotencyKey string
}

// Result is returned after the order service accepted the order. CartCleared is
// false when the order was placed but the cart could not be reset.
type Result struct {
	OrderID     string
	Cart        cart.Cart
	CartCleared bool
}

type service struct {
	carts  cartStore
	orders orderSubmitter
	logg   *logger.Logger
}

func NewService(carts cartStore, orders orderSubmitter, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order submitter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{carts: carts, orders: orders, logg: logg}, nil
}

func (s *service) Submit(ctx context.Context, scope cart.Scope, input SubmitInput) (*Result, error) {
	current, err := s.carts.Load(ctx, scope)
	switch {
	case err == nil:
	case errors.Is(err, cart.ErrCartNotFound), cart.IsDecodeError(err):
		current = cart.Empty()
	default:
		return nil, err
	}
	if current.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lines := make([]orderapi.OrderLine, 0, len(current.Items))
	for _, item := range current.Items {
		lines = append(lines, orderapi.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	orderID, err := s.orders.SubmitOrder(ctx, orderapi.SubmitOrderRequest{
		Items:          lines,
		Total:          current.TotalPrice,
		IdempotencyKey: input.IdempotencyKey,
	})
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit order")
		}
		return nil, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_id":    orderID,
		"total_items": current.TotalItems,
		"total_price": current.TotalPrice.String(),
	})

	cleared, err := s.carts.Clear(ctx, scope)
	if err != nil {
		s.logg.Error(ctx, "order placed but cart could not be cleared", err)
		return &Result{OrderID: orderID, Cart: current}, nil
	}

	s.logg.Info(ctx, "order submitted")
	return &Result{OrderID: orderID, Cart: cleared, CartCleared: true}, nil
}
