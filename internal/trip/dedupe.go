package trip

import "tripsmith/internal/domain"

// Dedupe drops repeated activities, keeping the first occurrence of each
// (day, placeName, timeSlot) key and preserving the order of survivors.
// Exact value equality only: duplicates come from the upstream model
// repeating itself, not from near-miss variants.
func Dedupe(days []domain.DayPlan) []domain.DayPlan {
	type identity struct {
		day        int
		name, slot string
	}
	seen := make(map[identity]struct{})

	out := make([]domain.DayPlan, len(days))
	for i, d := range days {
		kept := make([]domain.ActivityRecord, 0, len(d.Plan))
		for _, a := range d.Plan {
			k := identity{day: d.Day, name: a.PlaceName, slot: a.TimeSlot}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			kept = append(kept, a)
		}
		out[i] = d
		out[i].Plan = kept
	}
	return out
}
