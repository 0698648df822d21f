package trip_test

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"tripsmith/internal/domain"
	"tripsmith/internal/trip"
)

// ---- fakes ----

// stubResolver returns a fixed URL and counts calls.
type stubResolver struct {
	url   string
	calls int32
}

func (r *stubResolver) Resolve(ctx context.Context, req domain.ImageRequest) string {
	atomic.AddInt32(&r.calls, 1)
	return r.url
}

// blockingResolver parks until its context is canceled, then reports a URL
// that must never become visible.
type blockingResolver struct {
	started chan struct{}
}

func (r *blockingResolver) Resolve(ctx context.Context, req domain.ImageRequest) string {
	select {
	case r.started <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return "https://img.example/stale.jpg"
}

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return v
}

// ---- tests ----

func TestNormalize_DayKeyedObject(t *testing.T) {
	itin := decode(t, `{"day2": [], "day1": {"plan": [{"placeName": "Louvre"}]}, "notes": "ignored"}`)
	n := trip.NewNormalizer(&stubResolver{url: "https://img.example/a.jpg"}, 4)

	days, err := n.Normalize(context.Background(), itin)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Day != 1 || days[1].Day != 2 {
		t.Fatalf("days not sorted ascending: %+v", days)
	}
	if len(days[0].Plan) != 1 {
		t.Fatalf("expected one activity on day 1, got %d", len(days[0].Plan))
	}
	a := days[0].Plan[0]
	if a.PlaceName != "Louvre" {
		t.Fatalf("unexpected name: %q", a.PlaceName)
	}
	if a.Rating != "Not rated" || a.TicketPricing != "Free entry" {
		t.Fatalf("defaults not applied: %+v", a)
	}
	if a.PlaceImageURL != "https://img.example/a.jpg" {
		t.Fatalf("image not resolved: %q", a.PlaceImageURL)
	}
	if len(days[1].Plan) != 0 {
		t.Fatalf("day 2 should be empty, got %+v", days[1].Plan)
	}
}

func TestNormalize_DayKeySuffixWinsOverEmbeddedField(t *testing.T) {
	// In the keyed-object shape the key's digit suffix is the day number;
	// a contradicting "day" field inside the value must not relabel or
	// reorder days.
	itin := decode(t, `{
		"day1": {"day": 7, "plan": [{"placeName": "A"}]},
		"day2": {"plan": [{"placeName": "B"}]}
	}`)
	n := trip.NewNormalizer(&stubResolver{url: "u"}, 4)

	days, err := n.Normalize(context.Background(), itin)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(days) != 2 || days[0].Day != 1 || days[1].Day != 2 {
		t.Fatalf("day numbers must come from key suffixes: %+v", days)
	}
	if days[0].Plan[0].PlaceName != "A" || days[1].Plan[0].PlaceName != "B" {
		t.Fatalf("days reordered: %+v", days)
	}
}

func TestNormalize_ArrayPreservesOrder(t *testing.T) {
	itin := decode(t, `[
		{"day": 3, "plan": [{"placeName": "A"}]},
		{"plan": [{"placeName": "B"}]},
		{"schedule": [{"placeName": "C"}]}
	]`)
	n := trip.NewNormalizer(&stubResolver{url: "u"}, 4)

	days, err := n.Normalize(context.Background(), itin)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	// own day field wins over position; missing field falls back to position
	if days[0].Day != 3 || days[1].Day != 2 || days[2].Day != 3 {
		t.Fatalf("unexpected day numbers: %d %d %d", days[0].Day, days[1].Day, days[2].Day)
	}
	if days[0].Plan[0].PlaceName != "A" || days[1].Plan[0].PlaceName != "B" || days[2].Plan[0].PlaceName != "C" {
		t.Fatalf("source order not preserved: %+v", days)
	}
}

func TestNormalize_NilAndUnknownShapes(t *testing.T) {
	n := trip.NewNormalizer(&stubResolver{url: "u"}, 4)
	for _, in := range []any{nil, "not an itinerary", 42.0, true} {
		days, err := n.Normalize(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected err for %v: %v", in, err)
		}
		if len(days) != 0 {
			t.Fatalf("expected empty itinerary for %v, got %+v", in, days)
		}
	}
}

func TestNormalize_FieldAliases(t *testing.T) {
	itin := decode(t, `[{"plan": [{
		"placeName": "Pont Neuf",
		"timeTravel": "15 min",
		"travelSuggestion": "walk",
		"timeAllocation": "2 hours",
		"travelTimeToNext": "10 min",
		"category": "bridge",
		"rating": 4.6
	}]}]`)
	n := trip.NewNormalizer(&stubResolver{url: "u"}, 4)

	days, err := n.Normalize(context.Background(), itin)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	a := days[0].Plan[0]
	if a.Duration != "15 min" { // duration falls back to timeTravel
		t.Errorf("duration: %q", a.Duration)
	}
	if a.TimeTravel != "15 min" { // timeTravel prefers its own field
		t.Errorf("timeTravel: %q", a.TimeTravel)
	}
	if a.BestTimeToVisit != "2 hours" { // falls back to timeAllocation
		t.Errorf("bestTimeToVisit: %q", a.BestTimeToVisit)
	}
	if a.SuggestedDuration != "2 hours" {
		t.Errorf("suggestedDuration: %q", a.SuggestedDuration)
	}
	if a.TravelTime != "10 min" { // falls back to travelTimeToNext
		t.Errorf("travelTime: %q", a.TravelTime)
	}
	if a.PlaceType != "bridge" { // falls back to category
		t.Errorf("placeType: %q", a.PlaceType)
	}
	if a.Rating != "4.6" { // numeric rating coerces to text
		t.Errorf("rating: %q", a.Rating)
	}
}

func TestNormalize_ValidDirectURLSkipsResolution(t *testing.T) {
	itin := decode(t, `[{"plan": [
		{"placeName": "A", "placeImageUrl": "https://img.example/direct.jpg"},
		{"placeName": "B", "placeImageUrl": "not-a-url"}
	]}]`)
	res := &stubResolver{url: "https://img.example/resolved.jpg"}
	n := trip.NewNormalizer(res, 4)

	days, err := n.Normalize(context.Background(), itin)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	a, b := days[0].Plan[0], days[0].Plan[1]
	if a.PlaceImageURL != "https://img.example/direct.jpg" || a.OriginalImageURL != "https://img.example/direct.jpg" {
		t.Fatalf("valid direct URL not used as-is: %+v", a)
	}
	if b.PlaceImageURL != "https://img.example/resolved.jpg" {
		t.Fatalf("invalid direct URL not resolved: %+v", b)
	}
	if b.OriginalImageURL != "not-a-url" {
		t.Fatalf("original URL not retained: %+v", b)
	}
	if got := atomic.LoadInt32(&res.calls); got != 1 {
		t.Fatalf("expected exactly 1 resolver call, got %d", got)
	}
}

func TestNormalize_MalformedActivitySkipped(t *testing.T) {
	itin := decode(t, `[{"plan": [{"placeName": "Keep"}, "garbage", 7]}]`)
	n := trip.NewNormalizer(&stubResolver{url: "u"}, 4)

	days, err := n.Normalize(context.Background(), itin)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(days[0].Plan) != 1 || days[0].Plan[0].PlaceName != "Keep" {
		t.Fatalf("malformed entries should drop only themselves: %+v", days[0].Plan)
	}
}

func TestNormalize_EmptyActivityDefaultsName(t *testing.T) {
	itin := decode(t, `[{"plan": [{}]}]`)
	n := trip.NewNormalizer(&stubResolver{url: "u"}, 4)

	days, err := n.Normalize(context.Background(), itin)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if days[0].Plan[0].PlaceName != "Unnamed Location" {
		t.Fatalf("placeName must never be empty: %+v", days[0].Plan[0])
	}
	if days[0].Plan[0].PlaceDetails != "No description available" {
		t.Fatalf("details default missing: %+v", days[0].Plan[0])
	}
}

// A canceled pass must not make any result visible afterward.
func TestNormalize_CanceledPassCommitsNothing(t *testing.T) {
	itin := decode(t, `[{"plan": [{"placeName": "Slow"}]}]`)
	res := &blockingResolver{started: make(chan struct{}, 1)}
	n := trip.NewNormalizer(res, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var days []domain.DayPlan
	var err error
	go func() {
		days, err = n.Normalize(ctx, itin)
		close(done)
	}()

	<-res.started
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("normalize did not unwind after cancellation")
	}
	if err == nil {
		t.Fatal("expected context error from canceled pass")
	}
	if days != nil {
		t.Fatalf("canceled pass leaked results: %+v", days)
	}
}
