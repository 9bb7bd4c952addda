package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"scent-llm/internal/catalog"
	"scent-llm/internal/config"
	"scent-llm/internal/db"
	apihttp "scent-llm/internal/http"
	"scent-llm/internal/llm"
	"scent-llm/internal/repository"
	"scent-llm/internal/search"
	"scent-llm/internal/service"
	"scent-llm/internal/youtube"

	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := client.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, running without cache and rate limit", zap.Error(err))
			_ = client.Close()
		} else {
			redisClient = client
			defer redisClient.Close()
		}
		cancel()
	}

	var poolSource catalog.PoolSource
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	switch {
	case errors.Is(err, db.ErrNoDatabase):
		logger.Info("no database configured, using embedded catalog")
	case err != nil:
		logger.Warn("db connect failed, using embedded catalog", zap.Error(err))
	default:
		defer pool.Close()
		poolSource = repository.NewPgCatalogRepository(pool)
	}
	cat, err := catalog.Load(ctx, poolSource)
	if cat == nil {
		logger.Fatal("load catalog", zap.Error(err))
	}
	if err != nil {
		logger.Warn("catalog source failed, using embedded pools", zap.Error(err))
	}
	logger.Info("catalog loaded",
		zap.Int("movies", len(cat.Movies)),
		zap.Int("music", len(cat.Music)),
		zap.Int("notes", len(cat.Flavors.Notes())),
	)

	var searcher search.Searcher = search.NewExaClient(cfg.ExaBaseURL, cfg.ExaAPIKey, cfg.SearchTimeout)
	if cfg.ExaAPIKey == "" {
		logger.Warn("exa api key not configured, search branches will be degraded")
	}
	if cfg.SearchReadabilityFallback {
		searcher = search.NewFullTextSearcher(searcher, search.ReadabilityFetch, cfg.SearchTimeout, logger)
	}
	if redisClient != nil {
		searcher = search.NewCachedSearcher(searcher, redisClient, cfg.SearchCacheTTL, logger)
	}
	searchSvc := search.NewService(searcher, logger)

	gemini := llm.NewGeminiClient(llm.GeminiOptions{
		BaseURL:         cfg.GeminiBaseURL,
		APIKey:          cfg.GeminiAPIKey,
		Model:           cfg.GeminiModel,
		Temperature:     cfg.GeminiTemperature,
		MaxOutputTokens: cfg.GeminiMaxOutputTokens,
	}, logger)
	if !gemini.Configured() {
		logger.Warn("gemini api key not configured")
	}
	llmClient := llm.NewRateLimitedClient(gemini, cfg.LLMRPS, cfg.LLMBurst)

	videos := youtube.NewClient(cfg.YoutubeBaseURL, cfg.YoutubeAPIKey, cfg.SearchTimeout)

	analysisSvc := service.NewAnalysisService(llmClient, searchSvc, videos, cat, service.AnalysisOptions{
		BranchTimeout:   cfg.SearchTimeout,
		UsePool:         cfg.RecoUsePool,
		GenerateReasons: cfg.RecoGenerateReasons,
	}, logger)
	contentSvc := service.NewContentSearchService(searchSvc, cat, cfg.SearchTimeout, logger)
	limiter := service.NewRedisRateLimiter(redisClient, cfg.AnalyzeRateWindow, cfg.AnalyzeRateLimit)

	router := apihttp.NewRouter(logger,
		apihttp.NewAnalyzeHandler(logger, analysisSvc),
		apihttp.NewMusicHandler(logger, videos),
		apihttp.NewSearchHandler(logger, contentSvc),
		limiter,
	)

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           corsHandler(router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
