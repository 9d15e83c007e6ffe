package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a garden tool listed in the catalog.
type Product struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	CategoryID  *int64          `gorm:"column:category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	SKU         string          `gorm:"column:sku;not null;uniqueIndex"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	ImageURL    string          `gorm:"column:image_url;not null;default:''"`
	IsActive    bool            `gorm:"column:is_active;not null"`
	IsFeatured  bool            `gorm:"column:is_featured;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
