package mysql

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/koregy/sejong-eats-chatbot/internal/adapters/observability"
	"github.com/koregy/sejong-eats-chatbot/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valJSON(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// valRating keeps the source scale ("4.0" stays "4.0").
func valRating(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return domain.RatingText(d.Decimal)
}

func decodeJSON(b []byte, dst any) error {
	if len(b) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(dst)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Truncate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, deleteRestaurantsSQL)
	observability.ObserveCatalog("mysql", "truncate", err)
	return err
}

func (r *Repo) PutBatch(ctx context.Context, rs []domain.Restaurant) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*9)
	for _, rec := range rs {
		var hours any
		if rec.OperatingHours != nil {
			h, err := valJSON(rec.OperatingHours)
			if err != nil {
				return fmt.Errorf("encode hours for %s: %w", rec.ID, err)
			}
			hours = h
		}
		var extras any
		if len(rec.Extras) > 0 {
			e, err := valJSON(rec.Extras)
			if err != nil {
				return fmt.Errorf("encode extras for %s: %w", rec.ID, err)
			}
			extras = e
		}
		values = append(values, restaurantRowPlaceholder)
		args = append(args,
			rec.ID,
			rec.PlaceName,
			rec.MainCategory,
			valStr(rec.Description),
			rec.RoadAddress,
			valRating(rec.Rating),
			rec.PlaceURL,
			hours,
			extras,
		)
	}
	sqlStr := insertRestaurantsPrefix + strings.Join(values, ",") + insertRestaurantsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	observability.ObserveCatalog("mysql", "put", err)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(row rowScanner) (domain.Restaurant, error) {
	var (
		rec        domain.Restaurant
		desc       sql.NullString
		hoursJSON  []byte
		extrasJSON []byte
		rating     decimal.NullDecimal
	)
	if err := row.Scan(
		&rec.ID,
		&rec.PlaceName,
		&rec.MainCategory,
		&desc,
		&rec.RoadAddress,
		&rating,
		&rec.PlaceURL,
		&hoursJSON,
		&extrasJSON,
	); err != nil {
		return domain.Restaurant{}, err
	}
	rec.Description = desc.String
	rec.Rating = rating
	if err := decodeJSON(hoursJSON, &rec.OperatingHours); err != nil {
		return domain.Restaurant{}, fmt.Errorf("restaurant %s hours: %w", rec.ID, err)
	}
	if err := decodeJSON(extrasJSON, &rec.Extras); err != nil {
		return domain.Restaurant{}, fmt.Errorf("restaurant %s extras: %w", rec.ID, err)
	}
	return rec, nil
}

func (r *Repo) GetRestaurant(ctx context.Context, id string) (domain.Restaurant, error) {
	rec, err := scanRestaurant(r.db.QueryRowContext(ctx, getRestaurantSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		err = domain.ErrNotFound
	}
	observability.ObserveCatalog("mysql", "get", err)
	if err != nil {
		return domain.Restaurant{}, err
	}
	return rec, nil
}

func (r *Repo) ScanRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	out, err := r.scanAll(ctx)
	observability.ObserveCatalog("mysql", "scan", err)
	return out, err
}

func (r *Repo) scanAll(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := r.db.QueryContext(ctx, scanRestaurantsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Restaurant
	for rows.Next() {
		rec, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
