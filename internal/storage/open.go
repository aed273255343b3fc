// Package storage picks the catalog backend named by configuration.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	redisad "github.com/koregy/sejong-eats-chatbot/internal/adapters/redis"
	"github.com/koregy/sejong-eats-chatbot/internal/domain"
	"github.com/koregy/sejong-eats-chatbot/internal/shared"
	mysqlrepo "github.com/koregy/sejong-eats-chatbot/internal/storage/mysql"
)

// Open connects to the configured catalog and checks it is reachable.
// The returned close func releases the connection.
func Open(ctx context.Context, cfg shared.Config) (domain.CatalogStore, func() error, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch cfg.CatalogDriver {
	case "mysql", "":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(pingCtx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("mysql ping: %w", err)
		}
		log.Info().Msg("database connection ok")
		return mysqlrepo.New(db), db.Close, nil
	case "redis":
		cat := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := cat.Ping(pingCtx); err != nil {
			_ = cat.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis connection ok")
		return cat, cat.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown CATALOG_DRIVER %q (want mysql or redis)", cfg.CatalogDriver)
	}
}
