package app

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/koregy/sejong-eats-chatbot/internal/domain"
)

/********** alias registries (single source of truth) **********/

var restaurantAliases = map[string][]string{
	"id":            {"id"},
	"place_name":    {"place_name", "name"},
	"main_category": {"main_category", "category"},
	"description":   {"description"},
	"road_address":  {"road_address_name"},
	"rating":        {"scraped_rating"},
	"place_url":     {"place_url"},
}

// hoursRefKey links an operating-hours entry to its restaurant.
const hoursRefKey = "restaurant_id"

/********** tiny helpers **********/

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, key string) string {
	for _, k := range restaurantAliases[key] {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// firstPresentAlias: first non-nil value for a named alias set.
func firstPresentAlias(m map[string]any, key string) any {
	for _, k := range restaurantAliases[key] {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// knownKeys is the canonical key of every alias set. Alternate spellings
// such as "name" are also kept in Extras so the record reads back as ingested.
func knownKeys() map[string]struct{} {
	set := make(map[string]struct{}, 16)
	for _, paths := range restaurantAliases {
		set[paths[0]] = struct{}{}
	}
	set["operating_hours"] = struct{}{}
	return set
}

// CanonicalID renders an identifier (string, JSON number, float, int) in the
// one text form used as the catalog key. The numbers 10047142 and 10047142.0
// both become "10047142"; strings are only trimmed.
func CanonicalID(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return strconv.FormatInt(n, 10)
		}
		if d, err := decimal.NewFromString(t.String()); err == nil && d.IsInteger() {
			return d.String()
		}
		return t.String()
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return ""
}

// parseRating: exact decimal from a JSON number or a string like "4,5".
func parseRating(v any) decimal.NullDecimal {
	var (
		d   decimal.Decimal
		err error
	)
	switch t := v.(type) {
	case json.Number:
		d, err = decimal.NewFromString(t.String())
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		if s == "" {
			return decimal.NullDecimal{}
		}
		d, err = decimal.NewFromString(s)
	case float64:
		d = decimal.NewFromFloat(t)
	case int:
		d = decimal.NewFromInt(int64(t))
	default:
		return decimal.NullDecimal{}
	}
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// dropEmpty copies m without empty-string values.
func dropEmpty(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		out[k] = v
	}
	return out
}

/********** restaurant mapper **********/

func mapRestaurant(raw map[string]any) domain.Restaurant {
	r := dropEmpty(raw)
	rec := domain.Restaurant{
		ID:           CanonicalID(firstPresentAlias(r, "id")),
		PlaceName:    firstNonEmptyAlias(r, "place_name"),
		MainCategory: firstNonEmptyAlias(r, "main_category"),
		Description:  firstNonEmptyAlias(r, "description"),
		RoadAddress:  firstNonEmptyAlias(r, "road_address"),
		Rating:       parseRating(firstPresentAlias(r, "rating")),
		PlaceURL:     firstNonEmptyAlias(r, "place_url"),
	}

	known := knownKeys()
	for k, v := range r {
		if _, ok := known[k]; ok {
			continue
		}
		if rec.Extras == nil {
			rec.Extras = make(map[string]any, 4)
		}
		rec.Extras[k] = v
	}
	return rec
}

/********** operating hours mapper **********/

// groupHours buckets entries by canonical restaurant id, without the back-reference.
func groupHours(entries []map[string]any) map[string][]domain.OperatingHoursEntry {
	out := make(map[string][]domain.OperatingHoursEntry, len(entries))
	for _, e := range entries {
		id := CanonicalID(e[hoursRefKey])
		if id == "" {
			continue
		}
		entry := make(domain.OperatingHoursEntry, len(e))
		for k, v := range e {
			if k != hoursRefKey {
				entry[k] = v
			}
		}
		out[id] = append(out[id], entry)
	}
	return out
}
