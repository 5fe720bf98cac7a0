// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jlonij/dac/internal/clients"
	"github.com/jlonij/dac/internal/config"
	"github.com/jlonij/dac/internal/domain"
	"github.com/jlonij/dac/internal/http/handlers"
	"github.com/jlonij/dac/internal/http/middleware"
	"github.com/jlonij/dac/internal/linking"
	"github.com/jlonij/dac/internal/repo"
	"github.com/jlonij/dac/internal/services"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"
)

// runRepoShim adapts the repository free functions to the services.RunRepo
// interface expected by the RunService. This keeps services decoupled from
// the concrete repo package while reusing existing functions.
type runRepoShim struct{}

// CreateRun proxies repo.CreateRun.
func (runRepoShim) CreateRun(ctx context.Context, db *gorm.DB, userID, articleURL, requestedText string) (*domain.LinkRun, error) {
	return repo.CreateRun(ctx, db, userID, articleURL, requestedText)
}

// ListRuns proxies repo.ListRuns.
func (runRepoShim) ListRuns(ctx context.Context, db *gorm.DB, userID string) ([]domain.LinkRun, error) {
	return repo.ListRuns(ctx, db, userID)
}

// GetRun proxies repo.GetRun.
func (runRepoShim) GetRun(ctx context.Context, db *gorm.DB, id, userID string) (*domain.LinkRun, error) {
	return repo.GetRun(ctx, db, id, userID)
}

// CountRuns proxies repo.CountRuns (pagination support).
func (runRepoShim) CountRuns(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountRuns(ctx, db, userID)
}

// ListRunsPage proxies repo.ListRunsPage (pagination support).
func (runRepoShim) ListRunsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.LinkRun, error) {
	return repo.ListRunsPage(ctx, db, userID, offset, limit)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. Rate limiter (per user/IP, bypass on replay)
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key", // project-specific sensitive header example
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 8) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← repo/db/upstream clients
	runSvc := services.NewRunService(db, runRepoShim{})

	httpClient := http.DefaultClient
	var classifier linking.Classifier
	if c, err := linking.LoadLogisticClassifier(cfg.Linking.ModelPath); err != nil {
		log.Printf("linking: classifier %q unavailable, predictions will fail: %v", cfg.Linking.ModelPath, err)
	} else {
		classifier = c
	}

	linkSvc := &services.LinkService{
		DB:  db,
		OCR: clients.NewOCRClient(httpClient),
		NER: clients.NewNERClient(httpClient, cfg.Linking.TPTAURL),
		SRU: clients.NewSRUClient(httpClient, cfg.Linking.JSRUURL),
		Linker: &linking.EntityLinker{
			Search:     clients.NewSearchClient(httpClient, cfg.Linking.SolrURL),
			Classifier: classifier,
			Env: linking.FeatureEnv{
				Vectors: clients.NewVectorClient(httpClient, cfg.Linking.W2VURL),
				SRU:     clients.NewSRUClient(httpClient, cfg.Linking.JSRUURL),
			},
			RowBudget: cfg.Linking.SolrRows,
			MinProb:   cfg.Linking.MinProb,
		},
	}

	fbSvc := &services.FeedbackService{DB: db}
	h := handlers.New(runSvc, linkSvc, fbSvc)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Runs
		api.POST("/runs", h.CreateRun)
		api.GET("/runs", h.ListRuns)
		api.GET("/runs/:id", h.GetRun)
		api.GET("/runs/:id/results", h.ListResults)

		// Feedback
		api.POST("/results/:id/feedback", h.LeaveFeedback)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
