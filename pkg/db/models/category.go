package models

import "time"

// Category groups products for storefront navigation.
type Category struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	Name      string    `gorm:"column:name;not null"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Category) TableName() string { return "categories" }
