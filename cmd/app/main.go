// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"profitscan-ai/internal/config"
	"profitscan-ai/internal/domain/ports/adapter"
	aiAdapters "profitscan-ai/internal/infra/adapters/ai"
	mailAdapters "profitscan-ai/internal/infra/adapters/mail"
	pg "profitscan-ai/internal/infra/db/postgres"
	"profitscan-ai/internal/infra/logging"
	"profitscan-ai/internal/infra/metrics"
	red "profitscan-ai/internal/infra/redis"
	"profitscan-ai/internal/infra/web"
	"profitscan-ai/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (canned AI, console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	go pg.ReportPoolStats(ctx, pool, 15*time.Second)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	usageRepo := pg.NewScanUsageRepo(pool)
	eventRepo := pg.NewScanEventRepo(pool)
	pricingRepo := pg.NewPricingRepo(pool)
	mailRepo := pg.NewMailRepo(pool)
	accessRepo := pg.NewAccessRepoCacheDecorator(pg.NewAccessRepo(pool), redisClient, cfg.Redis.TTL)

	// ---- AI adapter (OpenAI and/or Gemini, noop in dev) ----
	ai, defaultProvider := buildAIAdapter(ctx, cfg, logger)
	logger.Info().Str("default_provider", defaultProvider).Msg("ai adapter ready")

	// ---- Use cases ----
	quotaUC := usecase.NewScanQuotaUseCase(usageRepo, locker, logger)
	accessUC := usecase.NewAccessUseCase(accessRepo, logger)
	pricingUC := usecase.NewPricingUseCase(pricingRepo, logger)
	calcUC := usecase.NewCalculationUseCase(pricingRepo, eventRepo, quotaUC, ai, logger)
	mailUC := usecase.NewMailUseCase(mailRepo, mailAdapters.NewSMTPMailer(), logger)

	// ---- HTTP ----
	auth := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.SecureCookie, cfg.Auth.CookieDomain, cfg.Auth.SessionTTL)
	srv := web.NewServer(calcUC, quotaUC, accessUC, pricingUC, mailUC, auth, cfg.Auth.AdminKey, rateLimiter, cfg.RateLimit.RequestsPerMinute, logger)

	public := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", public.Addr).Msg("public api listening")
		if err := public.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("public server")
		}
	}()

	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	adminMux.Handle("/", srv.AdminRoutes())
	admin := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.AdminPort),
		Handler:      adminMux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", admin.Addr).Msg("admin api listening")
		if err := admin.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin server")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	_ = public.Shutdown(shutCtx)
	_ = admin.Shutdown(shutCtx)
}

// buildAIAdapter assembles the provider stack from whatever keys are
// configured. Dev mode without keys gets the canned adapter so scans
// still work end to end.
func buildAIAdapter(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (adapter.AIServiceAdapter, string) {
	byProvider := map[string]adapter.AIServiceAdapter{}

	if cfg.AI.OpenAIKey != "" {
		oa, err := aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, "gpt-4o-mini")
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
		byProvider["openai"] = oa
	}
	if cfg.AI.GeminiKey != "" {
		ga, err := aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, "gemini-1.5-flash", 1024)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		byProvider["gemini"] = ga
	}

	if len(byProvider) == 0 {
		if !cfg.Runtime.Dev {
			logger.Fatal().Msg("no AI provider configured: set ai.openai_key or ai.gemini_key")
		}
		logger.Warn().Msg("no AI keys; using canned commentary adapter")
		return aiAdapters.NewNoopAdapter(), "noop"
	}

	def := "openai"
	if _, ok := byProvider[def]; !ok {
		def = "gemini"
	}
	if p := cfg.AI.DefaultProvider; p != "" {
		if _, ok := byProvider[providerFamily(p)]; ok {
			def = providerFamily(p)
		}
	}

	multi := aiAdapters.NewMultiAIAdapter(def, byProvider, nil)
	return aiAdapters.NewLimitedAI(multi, cfg.AI.ConcurrentLimit), def
}

// providerFamily maps a model name onto its vendor family.
func providerFamily(model string) string {
	switch {
	case len(model) >= 6 && model[:6] == "gemini":
		return "gemini"
	default:
		return "openai"
	}
}
