package observability_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/koregy/sejong-eats-chatbot/internal/adapters/observability"
	"github.com/koregy/sejong-eats-chatbot/internal/domain"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so vectors show up in the exposition
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveChat("fallback")
	observability.ObserveCatalog("redis", "get", domain.ErrNotFound)
	observability.ObserveCatalog("redis", "scan", errors.New("boom"))

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, want := range []string{
		"sejong_eats_http_requests_total",
		`sejong_eats_chat_resolutions_total{path="fallback"}`,
		`sejong_eats_catalog_operations_total{op="get",result="miss",store="redis"}`,
		`sejong_eats_catalog_operations_total{op="scan",result="error",store="redis"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output", want)
		}
	}
}

func TestNewLoggerLevel(t *testing.T) {
	if got := observability.NewLogger("prod", "warn").GetLevel(); got != zerolog.WarnLevel {
		t.Fatalf("level = %s", got)
	}
	if got := observability.NewLogger("dev", "nonsense").GetLevel(); got != zerolog.InfoLevel {
		t.Fatalf("level = %s", got)
	}
}
