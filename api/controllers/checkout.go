package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/greenhouse-storefront/api/middleware"
	"github.com/angelmondragon/greenhouse-storefront/api/responses"
	cartsvc "github.com/angelmondragon/greenhouse-storefront/internal/cart"
	checkoutsvc "github.com/angelmondragon/greenhouse-storefront/internal/checkout"
	pkgerrors "github.com/angelmondragon/greenhouse-storefront/pkg/errors"
	"github.com/angelmondragon/greenhouse-storefront/pkg/logger"
)

type checkoutSubmitter interface {
	Submit(ctx context.Context, scope cartsvc.Scope, input checkoutsvc.SubmitInput) (*checkoutsvc.Result, error)
}

type checkoutResponse struct {
	OrderID     string       `json:"order_id"`
	Cart        cartResponse `json:"cart"`
	CartCleared bool         `json:"cart_cleared"`
}

// Checkout submits the caller's cart to the order service.
func Checkout(svc checkoutSubmitter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		scope, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), scope, checkoutsvc.SubmitInput{
			IdempotencyKey: strings.TrimSpace(r.Header.Get(middleware.IdempotencyHeader)),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			OrderID:     result.OrderID,
			Cart:        newCartResponse(result.Cart),
			CartCleared: result.CartCleared,
		})
	}
}
