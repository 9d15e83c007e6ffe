package promotions

import (
	"time"

	"github.com/angelmondragon/greenhouse-storefront/pkg/db/models"
	"github.com/shopspring/decimal"
)

// PromotionDTO is the storefront view of an active promotion.
type PromotionDTO struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Description     *string         `json:"description,omitempty"`
	ImageURL        string          `json:"image_url"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	StartsAt        *time.Time      `json:"starts_at,omitempty"`
	EndsAt          *time.Time      `json:"ends_at,omitempty"`
}

func toDTO(m models.Promotion) PromotionDTO {
	return PromotionDTO{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		ImageURL:        m.ImageURL,
		DiscountPercent: m.DiscountPercent,
		StartsAt:        m.StartsAt,
		EndsAt:          m.EndsAt,
	}
}
