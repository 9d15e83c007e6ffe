package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/greenhouse-storefront/api/middleware"
	"github.com/angelmondragon/greenhouse-storefront/api/responses"
	"github.com/angelmondragon/greenhouse-storefront/api/validators"
	cartsvc "github.com/angelmondragon/greenhouse-storefront/internal/cart"
	"github.com/angelmondragon/greenhouse-storefront/internal/catalog"
	pkgerrors "github.com/angelmondragon/greenhouse-storefront/pkg/errors"
	"github.com/angelmondragon/greenhouse-storefront/pkg/logger"
)

type productFinder interface {
	GetProduct(ctx context.Context, id int64) (*catalog.ProductDTO, error)
}

// CartFetch returns the cart for the caller's scope. Storage failures degrade to an empty cart.
func CartFetch(store cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}
		scope, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(store.Read(r.Context(), scope)))
	}
}

type addCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  *int  `json:"quantity,omitempty" validate:"omitempty,min=1,max=1000000"`
}

// CartAddItem prices the line from the current catalog entry and merges it into the cart.
// maxQuantity is the configured per-line cap; 0 leaves only the request ceiling.
func CartAddItem(store cartsvc.Store, products productFinder, maxQuantity int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil || products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}
		scope, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quantity := 1
		if payload.Quantity != nil {
			quantity = *payload.Quantity
		}
		if err := checkRequestQuantity(quantity, maxQuantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := products.GetProduct(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := store.Add(r.Context(), scope, product.CartProduct(), quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(updated))
	}
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,max=1000000"`
}

// CartUpdateItem sets a line's quantity; zero or less removes the line.
func CartUpdateItem(store cartsvc.Store, maxQuantity int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}
		scope, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParsePathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := checkRequestQuantity(*payload.Quantity, maxQuantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := store.UpdateQuantity(r.Context(), scope, productID, *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(updated))
	}
}

func CartRemoveItem(store cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}
		scope, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParsePathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := store.Remove(r.Context(), scope, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(updated))
	}
}

func CartClear(store cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}
		scope, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cleared, err := store.Clear(r.Context(), scope)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(cleared))
	}
}

// CartTransfer moves the device's guest cart onto the signed-in user's key and
// returns the user's cart afterwards.
func CartTransfer(store cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart store unavailable"))
			return
		}
		deviceID := middleware.DeviceIDFromContext(r.Context())
		userID := middleware.UserIDFromContext(r.Context())
		if userID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}
		if deviceID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "device id missing"))
			return
		}

		if err := store.TransferGuestCart(r.Context(), deviceID, userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(store.Read(r.Context(), cartsvc.UserScope(deviceID, userID))))
	}
}

func checkRequestQuantity(quantity, maxQuantity int) error {
	if maxQuantity > 0 && quantity > maxQuantity {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(map[string]string{
			"quantity": fmt.Sprintf("must be at most %d", maxQuantity),
		})
	}
	return nil
}

func cartScope(r *http.Request) (cartsvc.Scope, error) {
	deviceID := middleware.DeviceIDFromContext(r.Context())
	if deviceID == "" {
		return cartsvc.Scope{}, pkgerrors.New(pkgerrors.CodeValidation, "device id missing")
	}
	if userID := middleware.UserIDFromContext(r.Context()); userID > 0 {
		return cartsvc.UserScope(deviceID, userID), nil
	}
	return cartsvc.GuestScope(deviceID), nil
}

type cartResponse struct {
	Items      []cartItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice decimal.Decimal    `json:"total_price"`
}

type cartItemResponse struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

func newCartResponse(c cartsvc.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, cartItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		})
	}
	return cartResponse{
		Items:      items,
		TotalItems: c.TotalItems,
		TotalPrice: c.TotalPrice,
	}
}
