package catalog

import (
	"time"

	"github.com/angelmondragon/greenhouse-storefront/internal/cart"
	"github.com/angelmondragon/greenhouse-storefront/internal/promotions"
	"github.com/angelmondragon/greenhouse-storefront/pkg/db/models"
	"github.com/angelmondragon/greenhouse-storefront/pkg/pagination"
	"github.com/shopspring/decimal"
)

// Sort options accepted by ListProducts.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNameAsc   = "name_asc"
)

// HomeFeaturedLimit caps the featured products on the storefront home.
const HomeFeaturedLimit = 8

// ProductListFilters describe the supported filter knobs for the browse endpoint.
type ProductListFilters struct {
	CategorySlug string           `json:"category,omitempty"`
	PriceMin     *decimal.Decimal `json:"price_min,omitempty"`
	PriceMax     *decimal.Decimal `json:"price_max,omitempty"`
	Query        string           `json:"q,omitempty"`
}

// ListProductsInput captures the inputs needed to filter, sort and paginate products.
type ListProductsInput struct {
	Filters    ProductListFilters
	Sort       string
	Pagination pagination.Params
}

type CategoryDTO struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type ProductDTO struct {
	ID          int64           `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Category    *CategoryDTO    `json:"category,omitempty"`
	IsFeatured  bool            `json:"is_featured"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CartProduct is the shape a cart line is priced from.
func (p ProductDTO) CartProduct() cart.Product {
	return cart.Product{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.ImageURL,
	}
}

type ProductListResult struct {
	Products   []ProductDTO    `json:"products"`
	Pagination pagination.Meta `json:"pagination"`
}

// HomeResult aggregates everything the storefront landing page renders.
type HomeResult struct {
	Featured   []ProductDTO              `json:"featured"`
	Categories []CategoryDTO             `json:"categories"`
	Promotions []promotions.PromotionDTO `json:"promotions"`
}

func toCategoryDTO(m models.Category) CategoryDTO {
	return CategoryDTO{ID: m.ID, Slug: m.Slug, Name: m.Name}
}

func toProductDTO(m models.Product) ProductDTO {
	dto := ProductDTO{
		ID:          m.ID,
		SKU:         m.SKU,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		ImageURL:    m.ImageURL,
		IsFeatured:  m.IsFeatured,
		CreatedAt:   m.CreatedAt,
	}
	if m.Category != nil {
		c := toCategoryDTO(*m.Category)
		dto.Category = &c
	}
	return dto
}
