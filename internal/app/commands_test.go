package app_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"tripsmith/internal/app"
	"tripsmith/internal/domain"
)

type stubGenerator struct {
	text string
	err  error
}

func (g stubGenerator) GenerateTripPlan(context.Context, domain.TripSelection) (string, error) {
	return g.text, g.err
}

func validSelection() domain.TripSelection {
	return domain.TripSelection{Destination: "Lisbon", Days: 4, Budget: "Cheap", Travelers: "Friends"}
}

func TestCreateTrip_PersistsRawText(t *testing.T) {
	repo := newMemRepo()
	svc, err := app.NewPlanService(stubGenerator{text: fencedPlan}, repo, newMemCache(), 1)
	if err != nil {
		t.Fatalf("NewPlanService: %v", err)
	}

	rec, err := svc.CreateTrip(context.Background(), "ana@example.com", validSelection())
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("expected a generated ID")
	}
	if rec.TripData != fencedPlan {
		t.Fatal("model output must be stored verbatim, unparsed")
	}
	if time.Since(rec.CreatedAt) > time.Minute || rec.CreatedAt.Location() != time.UTC {
		t.Fatalf("CreatedAt not a recent UTC timestamp: %v", rec.CreatedAt)
	}

	stored, err := repo.Get(context.Background(), rec.ID)
	if err != nil || stored.UserEmail != "ana@example.com" {
		t.Fatalf("record not persisted: %+v, %v", stored, err)
	}
}

func TestCreateTrip_Validation(t *testing.T) {
	svc, _ := app.NewPlanService(stubGenerator{text: fencedPlan}, newMemRepo(), newMemCache(), 1)

	cases := []struct {
		name  string
		email string
		mod   func(*domain.TripSelection)
		field string
	}{
		{"empty email", "", func(*domain.TripSelection) {}, "userEmail"},
		{"zero days", "a@b.c", func(s *domain.TripSelection) { s.Days = 0 }, "days"},
		{"too many days", "a@b.c", func(s *domain.TripSelection) { s.Days = 31 }, "days"},
		{"unknown budget", "a@b.c", func(s *domain.TripSelection) { s.Budget = "Lavish" }, "budget"},
		{"unknown travelers", "a@b.c", func(s *domain.TripSelection) { s.Travelers = "Crowd" }, "travelers"},
		{"no destination", "a@b.c", func(s *domain.TripSelection) { s.Destination = " " }, "destination"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sel := validSelection()
			tc.mod(&sel)
			_, err := svc.CreateTrip(context.Background(), tc.email, sel)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, ve.Field)
			}
		})
	}
}

func TestCreateTrip_IDsIncrease(t *testing.T) {
	svc, _ := app.NewPlanService(stubGenerator{text: fencedPlan}, newMemRepo(), newMemCache(), 1)

	a, err := svc.CreateTrip(context.Background(), "ana@example.com", validSelection())
	if err != nil {
		t.Fatalf("first CreateTrip: %v", err)
	}
	b, err := svc.CreateTrip(context.Background(), "ana@example.com", validSelection())
	if err != nil {
		t.Fatalf("second CreateTrip: %v", err)
	}
	na, _ := strconv.ParseInt(a.ID, 10, 64)
	nb, _ := strconv.ParseInt(b.ID, 10, 64)
	if na == 0 || nb <= na {
		t.Fatalf("expected increasing timestamp-derived IDs, got %q then %q", a.ID, b.ID)
	}
}

func TestCreateTrip_GeneratorFailure(t *testing.T) {
	repo := newMemRepo()
	genErr := errors.New("model unavailable")
	svc, _ := app.NewPlanService(stubGenerator{err: genErr}, repo, newMemCache(), 1)

	_, err := svc.CreateTrip(context.Background(), "ana@example.com", validSelection())
	if !errors.Is(err, genErr) {
		t.Fatalf("expected generator error, got %v", err)
	}
	if ids, _ := repo.ListIDs(context.Background()); len(ids) != 0 {
		t.Fatal("nothing must be persisted when generation fails")
	}
}

func TestDeleteTrip_EvictsProjections(t *testing.T) {
	repo := newMemRepo(tripRecord("t1"))
	cache := newMemCache()
	svc, _ := app.NewPlanService(stubGenerator{}, repo, cache, 1)

	if err := svc.DeleteTrip(context.Background(), "t1"); err != nil {
		t.Fatalf("DeleteTrip: %v", err)
	}
	want := map[string]bool{"itinerary:t1": true, "hotels:t1": true, "cover:t1": true}
	if len(cache.dels) != 3 {
		t.Fatalf("expected 3 evictions, got %v", cache.dels)
	}
	for _, k := range cache.dels {
		if !want[k] {
			t.Fatalf("unexpected eviction %q", k)
		}
	}
}

func TestDeleteTrip_NotFound(t *testing.T) {
	cache := newMemCache()
	svc, _ := app.NewPlanService(stubGenerator{}, newMemRepo(), cache, 1)

	if err := svc.DeleteTrip(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(cache.dels) != 0 {
		t.Fatal("no evictions expected for a failed delete")
	}
}
