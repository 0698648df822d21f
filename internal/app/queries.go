package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tripsmith/internal/domain"
	"tripsmith/internal/trip"
)

// QueryService is the read side: it loads a stored trip, runs the
// parse → normalize → dedupe pass, and caches the derived projections.
// A pass's results are recomputed from scratch whenever the source record
// changes; nothing is ever written back to the store from here.
type QueryService struct {
	repo     domain.TripRepository
	cache    domain.Cache
	norm     *trip.Normalizer
	resolver domain.ImageResolver
	cacheTTL time.Duration
}

func NewQueryService(r domain.TripRepository, c domain.Cache, n *trip.Normalizer, res domain.ImageResolver, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, norm: n, resolver: res, cacheTTL: ttl}
}

func (s *QueryService) GetTrip(ctx context.Context, id string) (domain.TripRecord, error) {
	return s.repo.Get(ctx, id)
}

func (s *QueryService) ListTrips(ctx context.Context, userEmail string) ([]domain.TripRecord, error) {
	return s.repo.ListByOwner(ctx, userEmail)
}

// GetItinerary returns the canonical itinerary for a trip. Parse failures
// propagate as *trip.ParseError so the handler can present the generic
// "could not read trip information" state; normalization itself cannot
// fail except by cancellation.
func (s *QueryService) GetItinerary(ctx context.Context, id string) ([]domain.DayPlan, error) {
	key := "itinerary:" + id
	var cached []domain.DayPlan
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := trip.Parse(rec)
	if err != nil {
		log.Warn().Err(err).Str("trip", id).Msg("trip data parse failed")
		return nil, err
	}

	days, err := s.norm.Normalize(ctx, data["itinerary"])
	if err != nil {
		return nil, err
	}
	days = trip.Dedupe(days)

	_ = s.cache.Set(ctx, key, days, s.cacheTTL)
	return days, nil
}

// GetHotels returns the trip's hotel cards with display images resolved at
// request time. Card order follows the source list regardless of which
// resolution settles first.
func (s *QueryService) GetHotels(ctx context.Context, id string) ([]domain.HotelRecord, error) {
	key := "hotels:" + id
	var cached []domain.HotelRecord
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := trip.Parse(rec)
	if err != nil {
		log.Warn().Err(err).Str("trip", id).Msg("trip data parse failed")
		return nil, err
	}
	hotels := trip.Hotels(data)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range hotels {
		h := &hotels[i]
		g.Go(func() error {
			url := s.resolver.Resolve(gctx, domain.ImageRequest{
				Name:      h.Name,
				Category:  domain.ImageHotel,
				Locality:  h.Address,
				DirectURL: h.ImageURL,
			})
			if gctx.Err() != nil {
				return gctx.Err() // stale pass, discard
			}
			h.ImageURL = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, key, hotels, s.cacheTTL)
	return hotels, nil
}

// GetCoverImage resolves the destination header image for a trip.
func (s *QueryService) GetCoverImage(ctx context.Context, id string) (string, error) {
	key := "cover:" + id
	var cached string
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	url := s.resolver.Resolve(ctx, domain.ImageRequest{
		Name:     rec.Selection.Destination,
		Category: domain.ImageDestination,
	})
	if err := ctx.Err(); err != nil {
		return "", err
	}

	_ = s.cache.Set(ctx, key, url, s.cacheTTL)
	return url, nil
}
