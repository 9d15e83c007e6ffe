package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Promotion is a storefront banner with an optional discount window.
type Promotion struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Title           string          `gorm:"column:title;not null"`
	Description     *string         `gorm:"column:description"`
	ImageURL        string          `gorm:"column:image_url;not null;default:''"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2);not null;default:0"`
	StartsAt        *time.Time      `gorm:"column:starts_at"`
	EndsAt          *time.Time      `gorm:"column:ends_at"`
	IsActive        bool            `gorm:"column:is_active;not null"`
	Position        int             `gorm:"column:position;not null;default:0"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Promotion) TableName() string { return "promotions" }
