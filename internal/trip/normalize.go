package trip

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"tripsmith/internal/domain"
	"tripsmith/internal/images"
)

/********** alias registries (single source of truth) **********/

// Canonical activity field -> ordered alias list, first non-empty wins.
var activityAliases = map[string][]string{
	"placeName":         {"placeName"},
	"placeDetails":      {"placeDetails"},
	"ticketPricing":     {"ticketPricing"},
	"rating":            {"rating"},
	"timeSlot":          {"timeSlot"},
	"duration":          {"duration", "timeTravel"},
	"timeTravel":        {"timeTravel", "travelSuggestion"},
	"bestTimeToVisit":   {"bestTimeToVisit", "timeAllocation"},
	"travelTime":        {"travelTime", "travelTimeToNext"},
	"suggestedDuration": {"suggestedDuration", "timeAllocation"},
	"placeType":         {"placeType", "category"},
	"placeImageUrl":     {"placeImageUrl"},
}

var activityDefaults = map[string]string{
	"placeName":     "Unnamed Location",
	"placeDetails":  "No description available",
	"ticketPricing": "Free entry",
	"rating":        "Not rated",
}

// Keys a day object may nest its activity list under, checked in order.
// A day value that is itself a list needs no key at all.
var dayPlanAliases = []string{"schedule", "plan", "daily_plan", "dailyPlan"}

var dayKeyRe = regexp.MustCompile(`^day(\d+)$`)

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupText returns the value at path as display text. The model emits
// numbers where text is expected often enough (rating: 4.6) that numeric
// values coerce instead of vanishing.
func lookupText(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// aliasText: first non-empty text for a named alias set, else its default.
func aliasText(m map[string]any, key string) string {
	for _, p := range activityAliases[key] {
		if s := lookupText(m, p); s != "" {
			return s
		}
	}
	return activityDefaults[key]
}

// intFlexible: int from float64/int variants/numeric string at path.
func intFlexible(m map[string]any, path string) (int, bool) {
	switch v := lookupAny(m, path).(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, true
		}
	}
	return 0, false
}

/********** normalizer **********/

// Normalizer converts a parsed data object's itinerary field, whatever its
// shape, into ordered DayPlans, resolving activity images concurrently.
type Normalizer struct {
	resolver domain.ImageResolver
	workers  int64
}

func NewNormalizer(resolver domain.ImageResolver, workers int) *Normalizer {
	if workers <= 0 {
		workers = 8
	}
	return &Normalizer{resolver: resolver, workers: int64(workers)}
}

// Normalize accepts the itinerary value as decoded JSON: a list of days, an
// object with "day<N>" keys, or anything else (which yields an empty
// itinerary, not an error).
//
// Image lookups run concurrently and settle in any order, but the returned
// sequence is always source order; ctx is the pass's cancellation token and
// a canceled pass commits nothing.
func (n *Normalizer) Normalize(ctx context.Context, itinerary any) ([]domain.DayPlan, error) {
	out := collectDays(itinerary)

	sem := semaphore.NewWeighted(n.workers)
	var wg sync.WaitGroup
	for di := range out {
		for ai := range out[di].Plan {
			a := &out[di].Plan[ai]
			if a.PlaceImageURL != "" {
				continue // valid embedded URL, nothing to resolve
			}
			if err := sem.Acquire(ctx, 1); err != nil {
				wg.Wait()
				return nil, err
			}
			wg.Add(1)
			go func(a *domain.ActivityRecord) {
				defer wg.Done()
				defer sem.Release(1)
				url := n.resolver.Resolve(ctx, domain.ImageRequest{
					Name:      a.PlaceName,
					Category:  domain.ImagePlace,
					PlaceType: a.PlaceType,
					DirectURL: a.OriginalImageURL,
				})
				if ctx.Err() != nil {
					return // stale pass, discard the result
				}
				a.PlaceImageURL = url
			}(a)
		}
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// collectDays flattens either itinerary shape into day order. Lists keep
// their positional order, with an element's own "day" field overriding its
// position; "day<N>"-keyed objects number days by the key's digit suffix
// alone and sort ascending. Keys not matching day<digits> are ignored.
func collectDays(itinerary any) []domain.DayPlan {
	switch t := itinerary.(type) {
	case []any:
		out := make([]domain.DayPlan, 0, len(t))
		for i, el := range t {
			num := i + 1
			if m, ok := el.(map[string]any); ok {
				if own, ok := intFlexible(m, "day"); ok && own > 0 {
					num = own
				}
			}
			out = append(out, canonicalizeDay(el, num))
		}
		return out
	case map[string]any:
		out := make([]domain.DayPlan, 0, len(t))
		for k, el := range t {
			m := dayKeyRe.FindStringSubmatch(k)
			if m == nil {
				continue
			}
			num, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			out = append(out, canonicalizeDay(el, num))
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
		return out
	default:
		return []domain.DayPlan{}
	}
}

func canonicalizeDay(v any, num int) domain.DayPlan {
	d := domain.DayPlan{Day: num, Plan: []domain.ActivityRecord{}}
	if m, ok := v.(map[string]any); ok {
		d.Theme = lookupText(m, "theme")
		d.BestTimeToVisit = lookupText(m, "bestTimeToVisit")
	}
	for i, raw := range dayActivities(v) {
		a, ok := raw.(map[string]any)
		if !ok {
			// A malformed entry loses only itself, never the day.
			log.Warn().Int("day", d.Day).Int("index", i).
				Msg("skipping non-object itinerary activity")
			continue
		}
		d.Plan = append(d.Plan, canonicalizeActivity(a))
	}
	return d
}

// dayActivities locates a day's activity list: the value itself when it is
// a list, else the first present plan alias. First present wins even when
// its value is not a list.
func dayActivities(v any) []any {
	if seq, ok := v.([]any); ok {
		return seq
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	for _, k := range dayPlanAliases {
		if raw, ok := m[k]; ok {
			seq, _ := raw.([]any)
			return seq
		}
	}
	return nil
}

func canonicalizeActivity(m map[string]any) domain.ActivityRecord {
	rec := domain.ActivityRecord{
		PlaceName:         aliasText(m, "placeName"),
		PlaceDetails:      aliasText(m, "placeDetails"),
		TicketPricing:     aliasText(m, "ticketPricing"),
		Rating:            aliasText(m, "rating"),
		TimeSlot:          aliasText(m, "timeSlot"),
		Duration:          aliasText(m, "duration"),
		TimeTravel:        aliasText(m, "timeTravel"),
		BestTimeToVisit:   aliasText(m, "bestTimeToVisit"),
		TravelTime:        aliasText(m, "travelTime"),
		SuggestedDuration: aliasText(m, "suggestedDuration"),
		PlaceType:         aliasText(m, "placeType"),
	}
	if raw := aliasText(m, "placeImageUrl"); raw != "" {
		rec.OriginalImageURL = raw
		if images.IsAbsoluteURL(raw) {
			rec.PlaceImageURL = raw
		}
	}
	return rec
}
