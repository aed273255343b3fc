package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/koregy/sejong-eats-chatbot/internal/domain"
)

type DetailService struct {
	catalog domain.CatalogReader
}

func NewDetailService(c domain.CatalogReader) *DetailService {
	return &DetailService{catalog: c}
}

// GetDetails returns the full record. Errors are domain.ErrNotFound or
// domain.ErrLookupFailed. OperatingHours is never nil on success.
func (s *DetailService) GetDetails(ctx context.Context, id string) (domain.Restaurant, error) {
	key := CanonicalID(id)
	if key == "" {
		return domain.Restaurant{}, domain.ErrNotFound
	}
	rec, err := s.catalog.GetRestaurant(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Restaurant{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Restaurant{}, fmt.Errorf("%w: restaurant %s: %w", domain.ErrLookupFailed, key, err)
	}
	if rec.OperatingHours == nil {
		rec.OperatingHours = []domain.OperatingHoursEntry{}
	}
	return rec, nil
}
