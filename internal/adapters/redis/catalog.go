package redisad

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/koregy/sejong-eats-chatbot/internal/adapters/observability"
	"github.com/koregy/sejong-eats-chatbot/internal/domain"
)

const (
	keyPrefix = "restaurant:"
	scanCount = 500
)

// Catalog stores one JSON document per restaurant under restaurant:<id>.
type Catalog struct{ c *redis.Client }

func New(addr, pass string, db int) *Catalog {
	return &Catalog{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (r *Catalog) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Catalog) Close() error { return r.c.Close() }

// document is the stored shape. Rating is kept as decimal text;
// a null operating_hours means the record has no hours field.
type document struct {
	ID             string                       `json:"id"`
	PlaceName      string                       `json:"place_name,omitempty"`
	MainCategory   string                       `json:"main_category,omitempty"`
	Description    string                       `json:"description,omitempty"`
	RoadAddress    string                       `json:"road_address_name,omitempty"`
	Rating         *string                      `json:"scraped_rating,omitempty"`
	PlaceURL       string                       `json:"place_url,omitempty"`
	OperatingHours []domain.OperatingHoursEntry `json:"operating_hours"`
	Extras         map[string]any               `json:"extras,omitempty"`
}

func toDocument(rec domain.Restaurant) document {
	d := document{
		ID:             rec.ID,
		PlaceName:      rec.PlaceName,
		MainCategory:   rec.MainCategory,
		Description:    rec.Description,
		RoadAddress:    rec.RoadAddress,
		PlaceURL:       rec.PlaceURL,
		OperatingHours: rec.OperatingHours,
		Extras:         rec.Extras,
	}
	if rec.Rating.Valid {
		s := domain.RatingText(rec.Rating.Decimal)
		d.Rating = &s
	}
	return d
}

func fromDocument(b []byte) (domain.Restaurant, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var d document
	if err := dec.Decode(&d); err != nil {
		return domain.Restaurant{}, fmt.Errorf("decode restaurant: %w", err)
	}
	rec := domain.Restaurant{
		ID:             d.ID,
		PlaceName:      d.PlaceName,
		MainCategory:   d.MainCategory,
		Description:    d.Description,
		RoadAddress:    d.RoadAddress,
		PlaceURL:       d.PlaceURL,
		OperatingHours: d.OperatingHours,
		Extras:         d.Extras,
	}
	if d.Rating != nil {
		v, err := decimal.NewFromString(*d.Rating)
		if err != nil {
			return domain.Restaurant{}, fmt.Errorf("restaurant %s rating %q: %w", d.ID, *d.Rating, err)
		}
		rec.Rating = decimal.NullDecimal{Decimal: v, Valid: true}
	}
	return rec, nil
}

func (r *Catalog) ScanRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	out, err := r.scan(ctx)
	observability.ObserveCatalog("redis", "scan", err)
	return out, err
}

// catalogKeys walks the whole keyspace before anything is read or deleted.
// SCAN may repeat a key, so the result is deduplicated in first-seen order.
func (r *Catalog) catalogKeys(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var keys []string
	iter := r.c.Scan(ctx, 0, keyPrefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func chunks(keys []string, size int, fn func([]string) error) error {
	for start := 0; start < len(keys); start += size {
		if err := fn(keys[start:min(start+size, len(keys))]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Catalog) scan(ctx context.Context) ([]domain.Restaurant, error) {
	keys, err := r.catalogKeys(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Restaurant, 0, len(keys))
	err = chunks(keys, scanCount, func(page []string) error {
		vals, err := r.c.MGet(ctx, page...).Result()
		if err != nil {
			return err
		}
		for _, v := range vals {
			s, ok := v.(string)
			if !ok {
				continue // deleted between SCAN and MGET
			}
			rec, err := fromDocument([]byte(s))
			if err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Catalog) GetRestaurant(ctx context.Context, id string) (domain.Restaurant, error) {
	b, err := r.c.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCatalog("redis", "get", domain.ErrNotFound)
		return domain.Restaurant{}, domain.ErrNotFound
	}
	if err != nil {
		observability.ObserveCatalog("redis", "get", err)
		return domain.Restaurant{}, err
	}
	rec, err := fromDocument(b)
	observability.ObserveCatalog("redis", "get", err)
	return rec, err
}

func (r *Catalog) Truncate(ctx context.Context) error {
	err := r.truncate(ctx)
	observability.ObserveCatalog("redis", "truncate", err)
	return err
}

func (r *Catalog) truncate(ctx context.Context) error {
	keys, err := r.catalogKeys(ctx)
	if err != nil {
		return err
	}
	return chunks(keys, scanCount, func(page []string) error {
		return r.c.Del(ctx, page...).Err()
	})
}

// PutBatch writes all records in one pipeline round trip.
func (r *Catalog) PutBatch(ctx context.Context, rs []domain.Restaurant) error {
	if len(rs) == 0 {
		return nil
	}
	_, err := r.c.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, rec := range rs {
			b, err := json.Marshal(toDocument(rec))
			if err != nil {
				return fmt.Errorf("encode restaurant %s: %w", rec.ID, err)
			}
			p.Set(ctx, keyPrefix+rec.ID, b, 0)
		}
		return nil
	})
	observability.ObserveCatalog("redis", "put", err)
	return err
}
