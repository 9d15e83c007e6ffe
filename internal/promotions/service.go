package promotions

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/greenhouse-storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/greenhouse-storefront/pkg/errors"
)

type promotionReader interface {
	ListActive(ctx context.Context, now time.Time) ([]models.Promotion, error)
}

// Service exposes the promotions shown on the storefront.
type Service interface {
	ListActive(ctx context.Context) ([]PromotionDTO, error)
}

type service struct {
	repo promotionReader
	now  func() time.Time
}

func NewService(repo promotionReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotion repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) ListActive(ctx context.Context) ([]PromotionDTO, error) {
	rows, err := s.repo.ListActive(ctx, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active promotions")
	}
	out := make([]PromotionDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}
