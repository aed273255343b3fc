package domain

import "context"

type CatalogReader interface {
	// ScanRestaurants returns every record in store order.
	ScanRestaurants(ctx context.Context) ([]Restaurant, error)
	// GetRestaurant returns ErrNotFound when id is absent.
	GetRestaurant(ctx context.Context, id string) (Restaurant, error)
}

type CatalogWriter interface {
	// Truncate removes all records; ingestion always replaces the whole catalog.
	Truncate(ctx context.Context) error
	PutBatch(ctx context.Context, rs []Restaurant) error
}

type CatalogStore interface {
	CatalogReader
	CatalogWriter
}

// TextGenerator is the outbound text-completion service. Its output is free text
// and must be treated as untrusted.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}
