package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/koregy/sejong-eats-chatbot/internal/domain"
)

// SearchEngine does a full catalog scan with substring matching.
type SearchEngine struct {
	catalog domain.CatalogReader
}

func NewSearchEngine(c domain.CatalogReader) *SearchEngine {
	return &SearchEngine{catalog: c}
}

// Search returns every record whose name, category or description contains
// keyword. Blank keywords never reach the store. Store failures look like "no matches".
func (s *SearchEngine) Search(ctx context.Context, keyword string) []domain.SearchResult {
	if strings.TrimSpace(keyword) == "" {
		return []domain.SearchResult{}
	}
	records, err := s.catalog.ScanRestaurants(ctx)
	if err != nil {
		log.Error().Err(err).Str("keyword", keyword).Msg("catalog scan failed")
		return []domain.SearchResult{}
	}
	out := Match(keyword, records)
	log.Debug().Str("keyword", keyword).Int("scanned", len(records)).Int("matched", len(out)).Msg("catalog search")
	return out
}

// Match is the deterministic match step, in record order.
func Match(keyword string, records []domain.Restaurant) []domain.SearchResult {
	out := []domain.SearchResult{}
	target := normalize(keyword)
	if target == "" {
		return out
	}
	for _, r := range records {
		if strings.Contains(normalize(r.PlaceName), target) ||
			strings.Contains(normalize(r.MainCategory), target) ||
			strings.Contains(normalize(r.Description), target) {
			out = append(out, r.Summary())
		}
	}
	return out
}

// normalize drops all whitespace and folds case.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}
