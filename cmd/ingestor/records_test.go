package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/koregy/sejong-eats-chatbot/internal/shared"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestReadRecordsKeepsNumbersExact(t *testing.T) {
	p := writeFile(t, "restaurants.json", `[{"id": 10047142, "scraped_rating": 4.0, "place_name": "신안골분식"}]`)
	got, err := readRecords(p)
	if err != nil {
		t.Fatalf("readRecords: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records", len(got))
	}
	if got[0]["id"] != json.Number("10047142") || got[0]["scraped_rating"] != json.Number("4.0") {
		t.Fatalf("numbers not preserved: %#v", got[0])
	}
}

func TestReadRecordsErrors(t *testing.T) {
	if _, err := readRecords(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
	p := writeFile(t, "bad.json", `{"id": 1}`)
	if _, err := readRecords(p); err == nil {
		t.Fatal("expected error for non-array input")
	}
}

func TestDryRunDoesNotOpenCatalog(t *testing.T) {
	restaurants := writeFile(t, "restaurants.json", `[{"id": 1, "place_name": "홍콩반점"}]`)
	hours := writeFile(t, "operating_hours.json", `[]`)

	// unknown driver would fail if the catalog were opened
	cmd := newRootCmd(shared.Config{CatalogDriver: "none"})
	cmd.SetArgs([]string{"--restaurants", restaurants, "--hours", hours, "--dry-run"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("dry run: %v", err)
	}
}

func TestWithoutDryRunOpensCatalog(t *testing.T) {
	restaurants := writeFile(t, "restaurants.json", `[{"id": 1}]`)
	hours := writeFile(t, "operating_hours.json", `[]`)

	cmd := newRootCmd(shared.Config{CatalogDriver: "none"})
	cmd.SetArgs([]string{"--restaurants", restaurants, "--hours", hours})
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "CATALOG_DRIVER") {
		t.Fatalf("err = %v, want unknown driver", err)
	}
}
