package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/greenhouse-storefront/pkg/config"
	"github.com/angelmondragon/greenhouse-storefront/pkg/db/models"
	"github.com/angelmondragon/greenhouse-storefront/pkg/migrate"
	"github.com/angelmondragon/greenhouse-storefront/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	dir := migrate.DirFor("../../"+migrate.DefaultDir, config.DriverSQLite)
	require.NoError(t, migrate.Run(context.Background(), sqlDB, config.DriverSQLite, dir, "up"))
	return db
}

type seeded struct {
	tools  models.Category
	seeds  models.Category
	byName map[string]models.Product
}

func seedCatalog(t *testing.T, db *gorm.DB) seeded {
	t.Helper()
	s := seeded{
		tools:  models.Category{Slug: "hand-tools", Name: "Hand tools", Position: 1},
		seeds:  models.Category{Slug: "seeds", Name: "Seeds", Position: 0},
		byName: map[string]models.Product{},
	}
	require.NoError(t, db.Create(&s.tools).Error)
	require.NoError(t, db.Create(&s.seeds).Error)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	products := []models.Product{
		{CategoryID: &s.tools.ID, SKU: "TRW-1", Name: "Steel Trowel", Price: decimal.RequireFromString("12.50"), IsActive: true, IsFeatured: true, CreatedAt: base},
		{CategoryID: &s.tools.ID, SKU: "PRN-1", Name: "Pruning Shears", Price: decimal.RequireFromString("24.00"), IsActive: true, CreatedAt: base.Add(time.Hour)},
		{CategoryID: &s.tools.ID, SKU: "HOE-1", Name: "Garden Hoe", Price: decimal.RequireFromString("31.99"), IsActive: true, IsFeatured: true, CreatedAt: base.Add(2 * time.Hour)},
		{CategoryID: &s.seeds.ID, SKU: "TOM-1", Name: "Tomato Seeds", Price: decimal.RequireFromString("3.25"), IsActive: true, CreatedAt: base.Add(3 * time.Hour)},
		{CategoryID: &s.tools.ID, SKU: "OLD-1", Name: "Retired Trowel", Price: decimal.RequireFromString("5.00"), IsActive: false, IsFeatured: true, CreatedAt: base.Add(4 * time.Hour)},
	}
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
		s.byName[products[i].Name] = products[i]
	}
	return s
}

func names(rows []models.Product) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Name)
	}
	return out
}

func TestListProductsDefaultsToNewestActive(t *testing.T) {
	db := setupCatalogTestDB(t)
	seedCatalog(t, db)
	repo := NewRepository(db)

	rows, total, err := repo.ListProducts(context.Background(), ListProductsInput{Sort: SortNewest})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, []string{"Tomato Seeds", "Garden Hoe", "Pruning Shears", "Steel Trowel"}, names(rows))
	require.NotNil(t, rows[0].Category)
	assert.Equal(t, "seeds", rows[0].Category.Slug)
}

func TestListProductsFiltersAndSorts(t *testing.T) {
	db := setupCatalogTestDB(t)
	seedCatalog(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	lo := decimal.NewFromInt(10)
	hi := decimal.NewFromInt(30)
	rows, total, err := repo.ListProducts(ctx, ListProductsInput{
		Filters: ProductListFilters{CategorySlug: "hand-tools", PriceMin: &lo, PriceMax: &hi},
		Sort:    SortPriceDesc,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []string{"Pruning Shears", "Steel Trowel"}, names(rows))
	assert.True(t, rows[1].Price.Equal(decimal.RequireFromString("12.5")))

	rows, _, err = repo.ListProducts(ctx, ListProductsInput{Filters: ProductListFilters{Query: "TROWEL"}, Sort: SortNameAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"Steel Trowel"}, names(rows))

	rows, _, err = repo.ListProducts(ctx, ListProductsInput{Filters: ProductListFilters{Query: "100%"}, Sort: SortNameAsc})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, _, err = repo.ListProducts(ctx, ListProductsInput{Sort: SortPriceAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tomato Seeds", "Steel Trowel", "Pruning Shears", "Garden Hoe"}, names(rows))
}

func TestListProductsPaginates(t *testing.T) {
	db := setupCatalogTestDB(t)
	seedCatalog(t, db)
	repo := NewRepository(db)

	rows, total, err := repo.ListProducts(context.Background(), ListProductsInput{
		Sort:       SortNameAsc,
		Pagination: pagination.Params{Page: 2, Limit: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, []string{"Tomato Seeds"}, names(rows))
}

func TestFindActiveProductAndFeatured(t *testing.T) {
	db := setupCatalogTestDB(t)
	s := seedCatalog(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	hoe := s.byName["Garden Hoe"]
	got, err := repo.FindActiveProduct(ctx, hoe.ID)
	require.NoError(t, err)
	assert.Equal(t, "HOE-1", got.SKU)
	require.NotNil(t, got.Category)
	assert.Equal(t, "hand-tools", got.Category.Slug)

	_, err = repo.FindActiveProduct(ctx, s.byName["Retired Trowel"].ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	featured, err := repo.ListFeatured(ctx, HomeFeaturedLimit)
	require.NoError(t, err)
	assert.Equal(t, []string{"Garden Hoe", "Steel Trowel"}, names(featured))

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "seeds", categories[0].Slug)
}
