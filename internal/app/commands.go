package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/koregy/sejong-eats-chatbot/internal/domain"
)

const progressEvery = 100

type IngestionService struct {
	catalog domain.CatalogWriter
}

func NewIngestionService(w domain.CatalogWriter) *IngestionService {
	return &IngestionService{catalog: w}
}

// Merge joins operating hours onto restaurants by canonical id. Every record gets
// an hours list (possibly empty) and loses its empty-string fields. Records
// without an id are skipped.
func (s *IngestionService) Merge(restaurants, hours []map[string]any) []domain.Restaurant {
	byID := groupHours(hours)
	out := make([]domain.Restaurant, 0, len(restaurants))
	for _, raw := range restaurants {
		rec := mapRestaurant(raw)
		if rec.ID == "" {
			log.Warn().Interface("record", raw).Msg("restaurant without id skipped")
			continue
		}
		rec.OperatingHours = byID[rec.ID]
		if rec.OperatingHours == nil {
			rec.OperatingHours = []domain.OperatingHoursEntry{}
		}
		out = append(out, rec)
	}
	return out
}

// Load replaces the whole catalog with records, writing batches of batchSize
// with at most workers batches in flight. It returns the number of records written.
func (s *IngestionService) Load(ctx context.Context, records []domain.Restaurant, batchSize, workers int) (int, error) {
	if batchSize <= 0 {
		batchSize = 25
	}
	if workers <= 0 {
		workers = 1
	}

	if err := s.catalog.Truncate(ctx); err != nil {
		return 0, fmt.Errorf("truncate catalog: %w", err)
	}

	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg       sync.WaitGroup
		written  atomic.Int64
		errOnce  sync.Once
		firstErr error
	)

	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		batch := records[start:end]

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			errOnce.Do(func() { firstErr = err })
			break
		}

		wg.Add(1)
		go func(batch []domain.Restaurant) {
			defer wg.Done()
			defer sem.Release(1)

			if err := s.catalog.PutBatch(ctx, batch); err != nil {
				errOnce.Do(func() { firstErr = fmt.Errorf("put batch of %d: %w", len(batch), err) })
				return
			}
			n := written.Add(int64(len(batch)))
			if n/progressEvery > (n-int64(len(batch)))/progressEvery {
				log.Info().Int64("written", n).Int("total", len(records)).Msg("ingest progress")
			}
		}(batch)
	}

	wg.Wait()
	return int(written.Load()), firstErr
}
