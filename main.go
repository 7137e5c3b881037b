package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"vidyutmitra/internal/audit"
	"vidyutmitra/internal/auth"
	"vidyutmitra/internal/discom"
	"vidyutmitra/internal/insight"
	"vidyutmitra/internal/observability/metrics"
	profilerepo "vidyutmitra/internal/profile/infrastructure/postgres"
	profilehttp "vidyutmitra/internal/profile/interfaces/http"
	readingsrepo "vidyutmitra/internal/readings/infrastructure/postgres"
	readingshttp "vidyutmitra/internal/readings/interfaces/http"
	reportapp "vidyutmitra/internal/report/application"
	reporthttp "vidyutmitra/internal/report/interfaces/http"
	tariffapp "vidyutmitra/internal/tariff/application"
	tariff "vidyutmitra/internal/tariff/domain"
	tariffrepo "vidyutmitra/internal/tariff/infrastructure/postgres"
	tariffcache "vidyutmitra/internal/tariff/infrastructure/redis"
	tariffhttp "vidyutmitra/internal/tariff/interfaces/http"
	"vidyutmitra/internal/weather"

	goredis "github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)
	auditRepo := audit.NewRepository(db)

	sampleRepo := tariffrepo.NewSampleRepository(db, tariffrepo.WithTable(cfg.TariffTable))

	var latestSource tariffcache.LatestReader = sampleRepo
	var cache *tariffcache.SampleCache
	if cfg.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		cache, err = tariffcache.NewSampleCache(client, sampleRepo, tariffcache.WithTTL(cfg.TariffCacheTTL))
		if err != nil {
			logger.Fatalf("tariff cache error: %v", err)
		}
		latestSource = cache
		logger.Printf("tariff cache enabled: addr=%s", cfg.RedisAddr)
	}

	schedule, err := tariffapp.LoadConfig()
	if err != nil {
		logger.Fatalf("tariff config error: %v", err)
	}

	var appender tariffapp.SampleAppender = sampleRepo
	if cache != nil {
		appender = invalidatingAppender{repo: sampleRepo, cache: cache}
	}
	synthesizer, err := tariffapp.NewSynthesizer(appender, logger, tariffapp.WithSchedule(schedule))
	if err != nil {
		logger.Fatalf("synthesizer error: %v", err)
	}
	scheduler := tariffapp.NewScheduler(synthesizer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go scheduler.Start(ctx)

	var weatherFetcher reportapp.WeatherFetcher
	if cfg.WeatherAPIKey != "" {
		client, err := weather.NewClient(cfg.WeatherBaseURL, cfg.WeatherAPIKey)
		if err != nil {
			logger.Fatalf("weather client error: %v", err)
		}
		weatherFetcher = client
	} else {
		logger.Printf("weather client disabled: no api key")
	}

	var insightCaller reportapp.InsightCaller
	if cfg.InsightAPIKey != "" {
		client, err := insight.NewClient(cfg.InsightBaseURL, cfg.InsightAPIKey, insight.WithModel(cfg.InsightModel))
		if err != nil {
			logger.Fatalf("insight client error: %v", err)
		}
		insightCaller = client
	} else {
		logger.Printf("insight client disabled: no api key")
	}

	profileRepo := profilerepo.NewProfileRepository(db)
	readingRepo := readingsrepo.NewReadingRepository(db)

	reportService, err := reportapp.NewService(
		profileRepo,
		readingRepo,
		sampleRepo,
		insightCaller,
		weatherFetcher,
		logger,
		reportapp.WithHistorySamples(cfg.ReportHistorySamples),
	)
	if err != nil {
		logger.Fatalf("report service error: %v", err)
	}

	reader := sampleReader{latest: latestSource, history: sampleRepo}
	latestHandler, err := tariffhttp.NewLatestHandler(reader)
	if err != nil {
		logger.Fatalf("tariff latest handler error: %v", err)
	}
	historyHandler, err := tariffhttp.NewHistoryHandler(reader)
	if err != nil {
		logger.Fatalf("tariff history handler error: %v", err)
	}
	ingestHandler, err := readingshttp.NewIngestHandler(readingRepo, auditRepo, logger)
	if err != nil {
		logger.Fatalf("ingest handler error: %v", err)
	}
	profileHandler, err := profilehttp.NewHandler(profileRepo, auditRepo, logger)
	if err != nil {
		logger.Fatalf("profile handler error: %v", err)
	}
	reportHandler, err := reporthttp.NewHandler(reportService, auditRepo, logger)
	if err != nil {
		logger.Fatalf("report handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics", "/api/v1/tou/latest"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/tou/latest", latestHandler)
	mux.Handle("/api/v1/tou/history", historyHandler)
	mux.Handle("/api/v1/readings", ingestHandler)
	mux.Handle("/api/v1/profile", profileHandler)
	mux.HandleFunc("/api/v1/reports", reportHandler.Generate)
	mux.HandleFunc("/api/v1/reports/export.pdf", reportHandler.ExportPDF)
	mux.HandleFunc("/api/v1/reports/export.xlsx", reportHandler.ExportXLSX)
	mux.Handle("/api/v1/discoms", discom.NewHandler())
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Printf("http shutdown error: %v", err)
		}
	}()

	logger.Printf("http listening on %s", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("http server error: %v", err)
	}
	logger.Printf("shutdown complete")
}

type config struct {
	DatabaseURL          string
	HTTPAddr             string
	JWTSecret            string
	RedisAddr            string
	TariffTable          string
	TariffCacheTTL       time.Duration
	ReportHistorySamples int
	InsightBaseURL       string
	InsightAPIKey        string
	InsightModel         string
	WeatherBaseURL       string
	WeatherAPIKey        string
	ShutdownTimeout      time.Duration
}

func loadConfig() config {
	cfg := config{
		DatabaseURL:          getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:             getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:            getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		RedisAddr:            getenvDefault("REDIS_ADDR", ""),
		TariffTable:          getenvDefault("TARIFF_TABLE", "tariff_samples"),
		TariffCacheTTL:       getenvDuration("TARIFF_CACHE_TTL", 5*time.Minute),
		ReportHistorySamples: getenvIntDefault("REPORT_HISTORY_SAMPLES", 24),
		InsightBaseURL:       getenvDefault("INSIGHT_BASE_URL", "https://api.groq.com/openai"),
		InsightAPIKey:        getenvDefault("INSIGHT_API_KEY", ""),
		InsightModel:         getenvDefault("INSIGHT_MODEL", ""),
		WeatherBaseURL:       getenvDefault("WEATHER_BASE_URL", ""),
		WeatherAPIKey:        getenvDefault("WEATHER_API_KEY", ""),
		ShutdownTimeout:      getenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// ---- Adapters ----

// sampleReader serves latest reads through the cache when one is
// configured and history reads straight from the repository.
type sampleReader struct {
	latest  tariffcache.LatestReader
	history interface {
		ListRecent(ctx context.Context, n int) ([]tariff.Sample, error)
	}
}

func (r sampleReader) Latest(ctx context.Context) (tariff.Sample, error) {
	return r.latest.Latest(ctx)
}

func (r sampleReader) ListRecent(ctx context.Context, n int) ([]tariff.Sample, error) {
	return r.history.ListRecent(ctx, n)
}

// invalidatingAppender drops the cached latest sample after each
// successful write.
type invalidatingAppender struct {
	repo  *tariffrepo.SampleRepository
	cache *tariffcache.SampleCache
}

func (a invalidatingAppender) Append(ctx context.Context, sample tariff.Sample) error {
	if err := a.repo.Append(ctx, sample); err != nil {
		return err
	}
	a.cache.Invalidate(ctx)
	return nil
}
