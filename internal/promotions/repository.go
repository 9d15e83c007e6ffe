package promotions

import (
	"context"
	"time"

	"github.com/angelmondragon/greenhouse-storefront/internal/repo"
	"github.com/angelmondragon/greenhouse-storefront/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads promotions from the catalog database.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ListActive returns promotions flagged active whose window contains now.
// A nil bound is open.
func (r *Repository) ListActive(ctx context.Context, now time.Time) ([]models.Promotion, error) {
	var rows []models.Promotion
	err := r.DB(ctx).
		Where("is_active = ?", true).
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("ends_at IS NULL OR ends_at > ?", now).
		Order("position ASC").
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}
