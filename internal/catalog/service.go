package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/greenhouse-storefront/internal/promotions"
	"github.com/angelmondragon/greenhouse-storefront/pkg/db"
	"github.com/angelmondragon/greenhouse-storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/greenhouse-storefront/pkg/errors"
	"github.com/angelmondragon/greenhouse-storefront/pkg/pagination"
	"golang.org/x/sync/errgroup"
)

type catalogReader interface {
	ListProducts(ctx context.Context, input ListProductsInput) ([]models.Product, int64, error)
	FindActiveProduct(ctx context.Context, id int64) (*models.Product, error)
	ListFeatured(ctx context.Context, limit int) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type promotionLister interface {
	ListActive(ctx context.Context) ([]promotions.PromotionDTO, error)
}

// Service exposes the storefront browse operations.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	GetProduct(ctx context.Context, id int64) (*ProductDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	Home(ctx context.Context) (*HomeResult, error)
}

type service struct {
	repo       catalogReader
	promotions promotionLister
}

// NewService builds a catalog service backed by the provided readers.
func NewService(repo catalogReader, promos promotionLister) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if promos == nil {
		return nil, fmt.Errorf("promotions service required")
	}
	return &service{repo: repo, promotions: promos}, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	input.Sort = strings.ToLower(strings.TrimSpace(input.Sort))
	if input.Sort == "" {
		input.Sort = SortNewest
	}
	if _, ok := orderBySort[input.Sort]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort").WithDetails(map[string]any{
			"sort":    input.Sort,
			"allowed": []string{SortNewest, SortPriceAsc, SortPriceDesc, SortNameAsc},
		})
	}
	f := input.Filters
	if (f.PriceMin != nil && f.PriceMin.IsNegative()) || (f.PriceMax != nil && f.PriceMax.IsNegative()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price bounds must not be negative")
	}
	if f.PriceMin != nil && f.PriceMax != nil && f.PriceMin.GreaterThan(*f.PriceMax) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_min must not exceed price_max")
	}
	input.Pagination = input.Pagination.Normalize()

	rows, total, err := s.repo.ListProducts(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	products := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		products = append(products, toProductDTO(row))
	}
	return &ProductListResult{
		Products:   products,
		Pagination: pagination.NewMeta(input.Pagination, total),
	}, nil
}

func (s *service) GetProduct(ctx context.Context, id int64) (*ProductDTO, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	row, err := s.repo.FindActiveProduct(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := toProductDTO(*row)
	return &dto, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCategoryDTO(row))
	}
	return out, nil
}

// Home loads featured products, categories and promotions concurrently.
func (s *service) Home(ctx context.Context) (*HomeResult, error) {
	var (
		featured   []models.Product
		categories []CategoryDTO
		promos     []promotions.PromotionDTO
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.repo.ListFeatured(gctx, HomeFeaturedLimit)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list featured products")
		}
		featured = rows
		return nil
	})
	g.Go(func() error {
		out, err := s.ListCategories(gctx)
		categories = out
		return err
	})
	g.Go(func() error {
		out, err := s.promotions.ListActive(gctx)
		promos = out
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &HomeResult{
		Featured:   make([]ProductDTO, 0, len(featured)),
		Categories: categories,
		Promotions: promos,
	}
	for _, row := range featured {
		result.Featured = append(result.Featured, toProductDTO(row))
	}
	return result, nil
}
