package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/ayush/movie-review-api/internal/auth"
	"github.com/ayush/movie-review-api/internal/config"
	"github.com/ayush/movie-review-api/internal/logging"
	"github.com/ayush/movie-review-api/internal/middleware"
	"github.com/ayush/movie-review-api/internal/movies"
	"github.com/ayush/movie-review-api/internal/reviews"
	"github.com/ayush/movie-review-api/internal/server"
	"github.com/ayush/movie-review-api/internal/store"
	"github.com/ayush/movie-review-api/internal/telemetry"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()
	logging.Init(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warn().Err(envErr).Msg("could not read .env")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := store.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect")
	}
	defer mongoClient.Disconnect(context.Background())
	mongoDB := mongoClient.Database(cfg.MongoDB)
	movieStore := store.NewMovieStore(mongoDB)
	reviewStore := store.NewReviewStore(mongoDB)

	// ── Credential store ─────────────────────────────────────
	var users auth.UserStore
	switch cfg.UserStore {
	case config.UserStorePostgres:
		pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connect")
		}
		defer pgPool.Close()
		pgStore := store.NewUserPostgresStore(pgPool)
		if err := pgStore.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("postgres migrate")
		}
		users = pgStore
	default:
		mongoUsers := store.NewUserMongoStore(mongoDB)
		if err := mongoUsers.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("mongo users index")
		}
		users = mongoUsers
	}

	// ── Redis listing cache (optional) ───────────────────────
	var (
		movieCache  movies.ListingCache
		reviewCache reviews.Invalidator
	)
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect")
		}
		defer rdb.Close()
		listing := store.NewListingCache(rdb, cfg.CacheTTL)
		movieCache, reviewCache = listing, listing
	}

	// ── MinIO posters (optional) ─────────────────────────────
	var posters movies.PosterStore
	if cfg.MinioEndpoint != "" {
		ps, err := store.NewPosterStore(
			ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("minio connect")
		}
		posters = ps
	}

	// ── Telemetry ────────────────────────────────────────────
	var tracker reviews.Tracker
	if emitter := telemetry.New(telemetry.Config{
		TrackingID: cfg.AnalyticsTrackingID,
		BaseURL:    cfg.AnalyticsURL,
	}); emitter != nil {
		go emitter.Run(ctx)
		tracker = emitter
	} else {
		log.Info().Msg("GA_KEY not set, telemetry disabled")
	}

	// ── Handlers ─────────────────────────────────────────────
	tokens, err := auth.NewTokenIssuer(cfg.TokenSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("token issuer")
	}

	handler := server.NewRouter(server.Deps{
		Auth:            auth.NewHandler(users, tokens),
		Movies:          movies.NewHandler(movieStore, movieCache, posters),
		Reviews:         reviews.NewHandler(reviewStore, tracker, reviewCache),
		Gate:            middleware.NewGate(cfg.GatedRoutes, tokens),
		Posters:         posters != nil,
		UniqueKey:       cfg.UniqueKey,
		AllowedOrigins:  cfg.AllowedOrigins,
		SigninRateLimit: cfg.SigninRateLimit,
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Strs("gated_routes", cfg.GatedRoutes).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
