// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"googlemaps.github.io/maps"

	"packwise/internal/ai"
	"packwise/internal/config"
	httptransport "packwise/internal/http"
	"packwise/internal/infra"
	"packwise/internal/modules/catalog"
	"packwise/internal/modules/clarifier"
	"packwise/internal/modules/conversation"
	"packwise/internal/modules/customer"
	"packwise/internal/modules/recommend"
	"packwise/internal/modules/trip"
	"packwise/internal/rag"
	"packwise/internal/service"
	"packwise/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	logx.Init()

	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("config load failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logx.Fatal().Err(err).Msg("database init failed")
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	llm, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey)
	if err != nil {
		logx.Fatal().Err(err).Msg("gemini init failed")
	}
	defer llm.Close()

	embedder, err := ai.NewGeminiEmbedder(ctx, cfg.AI.GeminiKey)
	if err != nil {
		logx.Fatal().Err(err).Msg("embedder init failed")
	}
	defer embedder.Close()

	index := rag.NewStore(cfg.Index.Path, embedder)
	if err := index.Load(); err != nil {
		if errors.Is(err, rag.ErrNoIndex) {
			logx.Warn().Str("path", cfg.Index.Path).Msg("no vector index; database search only (run build_index)")
		} else {
			logx.Fatal().Err(err).Msg("index load failed")
		}
	} else {
		logx.Info().Int("documents", index.Len()).Msg("vector index loaded")
	}

	var mapsClient *maps.Client
	if cfg.Maps.APIKey != "" {
		mapsClient, err = maps.NewClient(maps.WithAPIKey(cfg.Maps.APIKey))
		if err != nil {
			logx.Warn().Err(err).Msg("maps init failed; using static geocoding")
			mapsClient = nil
		}
	}

	catalogStore := catalog.NewStore(dbPool)
	customerSvc := customer.NewService(customer.NewStore(dbPool))
	tripSvc := trip.NewService(trip.NewWeatherProvider(mapsClient), trip.NewEventsProvider(cfg.Events.TicketmasterKey))
	recommendSvc := recommend.NewService(index, catalogStore, llm)
	clarifierSvc := clarifier.NewService(llm)

	advisor := service.NewAdvisor(
		clarifierSvc,
		llm,
		customerSvc,
		tripSvc,
		recommendSvc,
		conversation.NewSessionStore(redisClient),
		conversation.NewStore(dbPool),
	)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httptransport.NewRouter(advisor, catalogStore),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logx.Info().Str("addr", cfg.HTTP.Addr).Msg("listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logx.Fatal().Err(err).Msg("server stopped")
	}
}
