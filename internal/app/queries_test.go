package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/koregy/sejong-eats-chatbot/internal/app"
	"github.com/koregy/sejong-eats-chatbot/internal/domain"
)

func TestGetDetails_MissingHoursBecomesEmptyList(t *testing.T) {
	cat := &fakeCatalog{records: []domain.Restaurant{{ID: "42", PlaceName: "홍콩반점"}}}
	rec, err := app.NewDetailService(cat).GetDetails(context.Background(), " 42 ")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rec.OperatingHours == nil || len(rec.OperatingHours) != 0 {
		t.Fatalf("hours = %#v, want empty non-nil list", rec.OperatingHours)
	}
}

func TestGetDetails_KeepsStoredHours(t *testing.T) {
	hours := []domain.OperatingHoursEntry{{"day": "월", "open": "11:00"}}
	cat := &fakeCatalog{records: []domain.Restaurant{{ID: "42", OperatingHours: hours}}}
	rec, err := app.NewDetailService(cat).GetDetails(context.Background(), "42")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(rec.OperatingHours) != 1 || rec.OperatingHours[0]["day"] != "월" {
		t.Fatalf("unexpected hours: %+v", rec.OperatingHours)
	}
}

func TestGetDetails_NotFound(t *testing.T) {
	svc := app.NewDetailService(&fakeCatalog{})
	for _, id := range []string{"999999", "", "  "} {
		if _, err := svc.GetDetails(context.Background(), id); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("GetDetails(%q) err = %v, want ErrNotFound", id, err)
		}
	}
}

func TestGetDetails_StoreFailureIsDistinct(t *testing.T) {
	cat := &fakeCatalog{getErr: errors.New("i/o timeout")}
	_, err := app.NewDetailService(cat).GetDetails(context.Background(), "42")
	if !errors.Is(err, domain.ErrLookupFailed) {
		t.Fatalf("err = %v, want ErrLookupFailed", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("store failure must not look like NotFound")
	}
}
