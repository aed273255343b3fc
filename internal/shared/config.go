package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPAddr       string
	MetricsAddr    string
	RequestTimeout time.Duration
	CORSOrigins    []string

	CatalogDriver string // mysql | redis
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string

	LLMKey     string
	LLMBaseURL string
	LLMModel   string
	LLMTimeout time.Duration
	LLMRPS     int

	BatchSize int
	Workers   int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		CORSOrigins:    splitList(env("CORS_ORIGINS", "*")),
		CatalogDriver:  strings.ToLower(env("CATALOG_DRIVER", "mysql")),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/sejong_eats?parseTime=true&charset=utf8mb4&loc=UTC"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisDB:        atoi("REDIS_DB", 0),
		RedisPass:      env("REDIS_PASSWORD", ""),
		LLMKey:         env("LLM_API_KEY", ""),
		LLMBaseURL:     env("LLM_BASE_URL", ""),
		LLMModel:       env("LLM_MODEL", "gpt-3.5-turbo"),
		LLMTimeout:     time.Duration(atoi("LLM_TIMEOUT_SECONDS", 10)) * time.Second,
		LLMRPS:         atoi("LLM_RPS", 5),
		BatchSize:      atoi("INGEST_BATCH_SIZE", 25),
		Workers:        atoi("INGEST_WORKERS", 4),
	}
	if c.LLMKey == "" {
		log.Warn().Msg("LLM_API_KEY is empty; keyword extraction falls back to raw text")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
