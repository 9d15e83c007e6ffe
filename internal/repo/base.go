package repo

import (
	"context"

	"github.com/angelmondragon/greenhouse-storefront/pkg/pagination"
	"gorm.io/gorm"
)

// Base provides a shared foundation for catalog repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Paginate is a GORM scope applying the normalized limit and offset.
func Paginate(p pagination.Params) func(*gorm.DB) *gorm.DB {
	n := p.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(n.Limit).Offset(n.Offset())
	}
}
