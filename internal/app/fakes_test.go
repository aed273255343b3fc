package app_test

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/koregy/sejong-eats-chatbot/internal/domain"
)

// ---- fakes ----

type fakeCatalog struct {
	mu        sync.Mutex
	records   []domain.Restaurant
	scanErr   error
	getErr    error
	scans     int
	truncated int
	batches   [][]domain.Restaurant
	putErr    error
}

func (f *fakeCatalog) ScanRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans++
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	out := make([]domain.Restaurant, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeCatalog) GetRestaurant(ctx context.Context, id string) (domain.Restaurant, error) {
	if f.getErr != nil {
		return domain.Restaurant{}, f.getErr
	}
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Restaurant{}, domain.ErrNotFound
}

func (f *fakeCatalog) Truncate(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.truncated++
	f.records = nil
	return nil
}

func (f *fakeCatalog) PutBatch(ctx context.Context, rs []domain.Restaurant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.batches = append(f.batches, rs)
	f.records = append(f.records, rs...)
	return nil
}

// fakeGen answers prompts in order; a nil reply slot means "fail".
type fakeGen struct {
	replies []*string
	prompts []string
}

var errGatewayDown = errors.New("gateway down")

func (g *fakeGen) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	g.prompts = append(g.prompts, prompt)
	i := len(g.prompts) - 1
	if i >= len(g.replies) || g.replies[i] == nil {
		return "", errGatewayDown
	}
	return *g.replies[i], nil
}

type blockingGen struct{}

func (blockingGen) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func ptr[T any](v T) *T { return &v }

func rating(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

// identity keeps scan order so assertions are deterministic.
func identity(n int, swap func(i, j int)) {}
