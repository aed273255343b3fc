package shared

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"CATALOG_DRIVER", "CORS_ORIGINS", "LLM_TIMEOUT_SECONDS", "LLM_RPS", "INGEST_BATCH_SIZE"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.CatalogDriver != "mysql" || c.BatchSize != 25 || c.LLMTimeout != 10*time.Second || c.LLMRPS != 5 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if diff := cmp.Diff([]string{"*"}, c.CORSOrigins); diff != "" {
		t.Fatalf("origins (-want +got):\n%s", diff)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CATALOG_DRIVER", "Redis")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("LLM_RPS", "2")
	t.Setenv("INGEST_WORKERS", "not-a-number")

	c := Load()
	if c.CatalogDriver != "redis" {
		t.Fatalf("driver = %q", c.CatalogDriver)
	}
	if diff := cmp.Diff([]string{"https://a.example", "https://b.example"}, c.CORSOrigins); diff != "" {
		t.Fatalf("origins (-want +got):\n%s", diff)
	}
	if c.LLMRPS != 2 || c.Workers != 4 {
		t.Fatalf("rps=%v workers=%d", c.LLMRPS, c.Workers)
	}
}
