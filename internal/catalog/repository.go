package catalog

import (
	"context"
	"strings"

	"github.com/angelmondragon/greenhouse-storefront/internal/repo"
	"github.com/angelmondragon/greenhouse-storefront/pkg/db/models"
	"gorm.io/gorm"
)

var orderBySort = map[string][]string{
	SortNewest:    {"products.created_at DESC", "products.id DESC"},
	SortPriceAsc:  {"products.price ASC", "products.id ASC"},
	SortPriceDesc: {"products.price DESC", "products.id ASC"},
	SortNameAsc:   {"products.name ASC", "products.id ASC"},
}

// Repository reads the catalog tables.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ListProducts returns one page of active products plus the unpaged total.
func (r *Repository) ListProducts(ctx context.Context, input ListProductsInput) ([]models.Product, int64, error) {
	var total int64
	if err := r.filtered(ctx, input.Filters).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []models.Product{}, 0, nil
	}

	query := r.filtered(ctx, input.Filters).
		Preload("Category").
		Scopes(repo.Paginate(input.Pagination))
	for _, clause := range orderBySort[input.Sort] {
		query = query.Order(clause)
	}

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *Repository) filtered(ctx context.Context, f ProductListFilters) *gorm.DB {
	q := r.DB(ctx).Model(&models.Product{}).Where("products.is_active = ?", true)
	if slug := strings.TrimSpace(f.CategorySlug); slug != "" {
		q = q.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", slug)
	}
	if f.PriceMin != nil {
		q = q.Where("products.price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		q = q.Where("products.price <= ?", *f.PriceMax)
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		q = q.Where(`LOWER(products.name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(term))+"%")
	}
	return q
}

// FindActiveProduct loads an active product with its category.
func (r *Repository) FindActiveProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.DB(ctx).
		Preload("Category").
		Where("is_active = ?", true).
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListFeatured returns the newest active featured products.
func (r *Repository) ListFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.DB(ctx).
		Preload("Category").
		Where("is_active = ? AND is_featured = ?", true, true).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

// ListCategories returns categories ordered for navigation.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.DB(ctx).
		Order("position ASC").
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

func escapeLike(term string) string {
	replacer := strings.NewReplacer(`%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}
