package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/greenhouse-storefront/api/responses"
	"github.com/angelmondragon/greenhouse-storefront/api/validators"
	"github.com/angelmondragon/greenhouse-storefront/internal/catalog"
	"github.com/angelmondragon/greenhouse-storefront/internal/promotions"
	pkgerrors "github.com/angelmondragon/greenhouse-storefront/pkg/errors"
	"github.com/angelmondragon/greenhouse-storefront/pkg/logger"
	"github.com/angelmondragon/greenhouse-storefront/pkg/pagination"
)

const maxSearchQueryLength = 100

type promotionLister interface {
	ListActive(ctx context.Context) ([]promotions.PromotionDTO, error)
}

func CatalogHome(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		home, err := svc.Home(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, home)
	}
}

// CatalogProducts lists active products with filters, sorting and pagination.
func CatalogProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		input, err := parseListProductsInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func CatalogProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		id, err := validators.ParsePathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func CatalogCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

func ActivePromotions(svc promotionLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}
		items, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"promotions": items})
	}
}

func parseListProductsInput(r *http.Request) (catalog.ListProductsInput, error) {
	query := r.URL.Query()

	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
	if err != nil {
		return catalog.ListProductsInput{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return catalog.ListProductsInput{}, err
	}
	priceMin, err := validators.ParseQueryDecimal(r, "price_min")
	if err != nil {
		return catalog.ListProductsInput{}, err
	}
	priceMax, err := validators.ParseQueryDecimal(r, "price_max")
	if err != nil {
		return catalog.ListProductsInput{}, err
	}

	return catalog.ListProductsInput{
		Filters: catalog.ProductListFilters{
			CategorySlug: strings.TrimSpace(query.Get("category")),
			PriceMin:     priceMin,
			PriceMax:     priceMax,
			Query:        validators.SanitizeSearchQuery(query.Get("q"), maxSearchQueryLength),
		},
		Sort:       strings.TrimSpace(query.Get("sort")),
		Pagination: pagination.Params{Page: page, Limit: limit},
	}, nil
}
