package domain

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// ValidationError rejects a trip request field before any external call is
// made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

type TripRepository interface {
	// Write paths
	Insert(ctx context.Context, rec TripRecord) error
	Delete(ctx context.Context, id string) error

	// Read paths
	Get(ctx context.Context, id string) (TripRecord, error)
	ListByOwner(ctx context.Context, userEmail string) ([]TripRecord, error)
	ListIDs(ctx context.Context) ([]string, error)
}

// ImageSearcher queries the external image-search API. It returns the first
// result's URL, or "" when the API had nothing; rate limits, auth failures
// and malformed responses all read as "no result".
type ImageSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// ImageResolver yields a displayable URL for an entity. Implementations
// never fail: the chain bottoms out at a generated placeholder.
type ImageResolver interface {
	Resolve(ctx context.Context, req ImageRequest) string
}

// ItineraryGenerator calls the generative-text API. The returned text is
// expected, not guaranteed, to contain a JSON object, optionally fenced.
type ItineraryGenerator interface {
	GenerateTripPlan(ctx context.Context, sel TripSelection) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
