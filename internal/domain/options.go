package domain

import "strings"

// Budget tiers and traveler buckets the trip form offers. Requests carrying
// anything else are rejected up front rather than interpolated into a prompt.

var BudgetTiers = []string{"Cheap", "Moderate", "Luxury"}

var TravelerBuckets = []string{"Just Me", "A Couple", "Family", "Friends"}

const MaxTripDays = 30

func contains(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// Validate checks a selection against the option catalogs.
func (s TripSelection) Validate() error {
	if strings.TrimSpace(s.Destination) == "" {
		return &ValidationError{Field: "destination", Reason: "must not be empty"}
	}
	if s.Days < 1 || s.Days > MaxTripDays {
		return &ValidationError{Field: "days", Reason: "must be between 1 and 30"}
	}
	if !contains(BudgetTiers, s.Budget) {
		return &ValidationError{Field: "budget", Reason: "unknown budget tier"}
	}
	if !contains(TravelerBuckets, s.Travelers) {
		return &ValidationError{Field: "travelers", Reason: "unknown traveler bucket"}
	}
	return nil
}
