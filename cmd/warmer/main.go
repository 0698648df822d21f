package main

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"tripsmith/internal/adapters/observability"
	redisad "tripsmith/internal/adapters/redis"
	"tripsmith/internal/adapters/unsplash"
	"tripsmith/internal/app"
	"tripsmith/internal/images"
	"tripsmith/internal/shared"
	mongorepo "tripsmith/internal/storage/mongo"
	"tripsmith/internal/trip"
)

// Runs a full normalization pass over every stored trip so itineraries,
// hotel cards and cover images are cached before anyone opens them.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Int("workers", cfg.Workers).
		Msg("warmer starting")

	client, err := mongorepo.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	log.Info().Msg("document store ping ok")
	repo := mongorepo.New(client, cfg.MongoDB, cfg.MongoTrips)

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	search, err := unsplash.New(cfg.UnsplashBase, cfg.UnsplashKey, cfg.UnsplashRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize image search client")
	}
	resolver := images.New(search, images.DefaultConfig())
	norm := trip.NewNormalizer(resolver, cfg.Workers)
	q := app.NewQueryService(repo, cache, norm, resolver, cfg.CacheTTL)

	ids, err := repo.ListIDs(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listing trip ids failed")
	}

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(tripID string) {
			defer wg.Done()
			defer sem.Release(1)

			if _, err := q.GetItinerary(ctx, tripID); err != nil {
				log.Warn().Str("id", tripID).Err(err).Msg("warm itinerary failed")
				return
			}
			if _, err := q.GetHotels(ctx, tripID); err != nil {
				log.Warn().Str("id", tripID).Err(err).Msg("warm hotels failed")
				return
			}
			if _, err := q.GetCoverImage(ctx, tripID); err != nil {
				log.Warn().Str("id", tripID).Err(err).Msg("warm cover failed")
				return
			}
			log.Info().Str("id", tripID).Msg("warm ok")
		}(id)
	}

	wg.Wait()
	log.Info().Int("trips", len(ids)).Msg("warming completed")
}
