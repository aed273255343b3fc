package domain

import "github.com/shopspring/decimal"

// HoursSummaryPlaceholder is shown in list views instead of the real schedule.
const HoursSummaryPlaceholder = "상세보기"

// DefaultRating is reported in list views when a record has no rating.
const DefaultRating = "0.0"

type Restaurant struct {
	ID           string // canonical text form, unique
	PlaceName    string
	MainCategory string
	Description  string
	RoadAddress  string
	Rating       decimal.NullDecimal // exact decimal, never float64
	PlaceURL     string

	// OperatingHours is nil when the stored record has no hours field.
	OperatingHours []OperatingHoursEntry

	// Extras holds every other non-empty field from the source data.
	Extras map[string]any
}

// OperatingHoursEntry is one per-day schedule fragment, shaped by the source data.
type OperatingHoursEntry map[string]any

// SearchResult is the list-view projection of a Restaurant. It never carries hours.
type SearchResult struct {
	ID                    string `json:"id"`
	PlaceName             string `json:"place_name"`
	MainCategory          string `json:"main_category"`
	RoadAddress           string `json:"road_address_name"`
	ScrapedRating         string `json:"scraped_rating"`
	Description           string `json:"description"`
	OperatingHoursSummary string `json:"operating_hours_summary"`
	PlaceURL              string `json:"place_url"`
}

func (r Restaurant) Summary() SearchResult {
	rating := DefaultRating
	if r.Rating.Valid {
		rating = RatingText(r.Rating.Decimal)
	}
	return SearchResult{
		ID:                    r.ID,
		PlaceName:             r.PlaceName,
		MainCategory:          r.MainCategory,
		RoadAddress:           r.RoadAddress,
		ScrapedRating:         rating,
		Description:           r.Description,
		OperatingHoursSummary: HoursSummaryPlaceholder,
		PlaceURL:              r.PlaceURL,
	}
}

// RatingText renders d with the scale it was stored with, so 4.0 stays "4.0".
func RatingText(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}
