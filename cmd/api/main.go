package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"tripsmith/internal/adapters/gemini"
	server "tripsmith/internal/adapters/http_server"
	"tripsmith/internal/adapters/observability"
	redisad "tripsmith/internal/adapters/redis"
	"tripsmith/internal/adapters/unsplash"
	"tripsmith/internal/app"
	"tripsmith/internal/images"
	"tripsmith/internal/shared"
	mongorepo "tripsmith/internal/storage/mongo"
	"tripsmith/internal/trip"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// store
	client, err := mongorepo.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	log.Info().Msg("document store connection ok")
	repo := mongorepo.New(client, cfg.MongoDB, cfg.MongoTrips)

	// deps
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	search, err := unsplash.New(cfg.UnsplashBase, cfg.UnsplashKey, cfg.UnsplashRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize image search client")
	}
	resolver := images.New(search, images.DefaultConfig())
	norm := trip.NewNormalizer(resolver, cfg.Workers)

	gen, err := gemini.New(ctx, cfg.GeminiKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize generative client")
	}

	q := app.NewQueryService(repo, cache, norm, resolver, cfg.CacheTTL)
	p, err := app.NewPlanService(gen, repo, cache, int64(cfg.NodeID))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize plan service")
	}

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, P: p})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
