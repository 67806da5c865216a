package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/polyglotta/polyglotta-api/internal/config"
	"github.com/polyglotta/polyglotta-api/internal/database"
	"github.com/polyglotta/polyglotta-api/internal/handlers"
	"github.com/polyglotta/polyglotta-api/internal/logger"
	"github.com/polyglotta/polyglotta-api/internal/middleware"
	"github.com/polyglotta/polyglotta-api/internal/provider"
	"github.com/polyglotta/polyglotta-api/internal/queue"
	"github.com/polyglotta/polyglotta-api/internal/session"
	"github.com/polyglotta/polyglotta-api/internal/telemetry"
	"github.com/polyglotta/polyglotta-api/internal/token"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	// Parse command-line flags
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	// Initialize logger
	zapLogger, err := logger.New(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			// Ignore sync errors on shutdown
			_ = syncErr
		}
	}()

	zapLogger.Info("starting_server",
		zap.String("version", Version),
		zap.Bool("debug_mode", debugMode),
		zap.String("environment", cfg.Environment),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	var tracerProvider interface{ Shutdown(context.Context) error }
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), "polyglotta-api", cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerProvider = tp
				zapLogger.Info("otel_tracer_initialized",
					zap.String("endpoint", cfg.OTELEndpoint),
				)
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Connect to database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer migrateCancel()
	if err := db.Migrate(migrateCtx); err != nil {
		zapLogger.Fatal("failed_to_run_migrations", zap.Error(err))
	}

	// Connect to Redis for sessions and rate limiting
	redisClient, err := session.NewRedisClient(cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_redis")

	// Connect to RabbitMQ for audit events (optional). Audit publishing is
	// best-effort, so a missing broker degrades to log-only auditing.
	var events queue.EventQueue
	if cfg.RabbitMQURL != "" {
		const maxRetries = 5
		const initialDelay = 2 * time.Second
		for attempt := 0; attempt < maxRetries; attempt++ {
			eq, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
			if err == nil {
				events = eq
				zapLogger.Info("connected_to_rabbitmq")
				defer func() {
					if err := eq.Close(); err != nil {
						zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
					}
				}()
				break
			}

			delay := initialDelay * time.Duration(1<<uint(attempt))
			if delay > 30*time.Second {
				delay = 30 * time.Second
			}
			zapLogger.Warn("failed_to_connect_to_rabbitmq_retrying",
				zap.Int("attempt", attempt+1),
				zap.Int("max_retries", maxRetries),
				zap.Error(err),
				zap.Duration("retry_delay", delay),
			)
			time.Sleep(delay)
		}
		if events == nil {
			zapLogger.Warn("rabbitmq_unavailable_audit_events_disabled")
		}
	}

	// Initialize repositories and services
	userRepo := database.NewUserRepository(db)
	progressRepo := database.NewProgressRepository(db)
	identityProvider := provider.NewLocal(userRepo)

	sessionStore := session.NewRedisStore(redisClient)
	resolver := session.NewCookieResolver(sessionStore, userRepo)

	tokenCodec := token.NewCodec([]byte(cfg.SessionSecret), cfg.TokenTTL)

	// Load the route table
	routeTable := middleware.DefaultRouteTable()
	if cfg.RoutesFile != "" {
		routeTable, err = middleware.LoadRouteTable(cfg.RoutesFile)
		if err != nil {
			zapLogger.Fatal("failed_to_load_route_table",
				zap.String("path", cfg.RoutesFile),
				zap.Error(err),
			)
		}
		zapLogger.Info("loaded_route_table", zap.String("path", cfg.RoutesFile))
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(identityProvider, sessionStore, resolver, cfg.SessionTTL, cfg.IsProduction(), events, zapLogger)
	tokenHandler := handlers.NewTokenHandler(tokenCodec, userRepo, events, zapLogger)
	progressHandler := handlers.NewProgressHandler(progressRepo, zapLogger)
	accountHandler := handlers.NewAccountHandler(userRepo, zapLogger)
	healthChecker := handlers.NewHealthChecker(db, redisClient)

	// Rate limiting for unauthenticated auth routes
	rateLimitMW, err := middleware.RateLimit(redisClient, middleware.DefaultAuthRate)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}

	// Setup router
	r := mux.NewRouter()

	// Note: In gorilla/mux, middleware registered first executes first
	if cfg.OTELEnabled && tracerProvider != nil {
		r.Use(otelmux.Middleware("polyglotta-api"))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Recovery(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	// Public routes
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	// API routes
	apiRouter := r.PathPrefix("/api").Subrouter()

	authRouter := apiRouter.PathPrefix("/auth").Subrouter()
	authRouter.Use(rateLimitMW)
	authHandler.RegisterRoutes(authRouter)

	tokenRouter := apiRouter.PathPrefix("/token").Subrouter()
	tokenHandler.RegisterRoutes(tokenRouter)

	progressRouter := apiRouter.PathPrefix("/progress").Subrouter()
	progressHandler.RegisterRoutes(progressRouter)

	accountRouter := apiRouter.PathPrefix("/account").Subrouter()
	accountHandler.RegisterRoutes(accountRouter)

	// Catch-all OPTIONS handler for preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// The gate wraps the router from outside so every path is classified,
	// including ones no route matches. Audit sits outside the gate to see
	// its denials; CORS is outermost so even denials carry CORS headers.
	gate := middleware.Gate(routeTable, resolver, zapLogger)
	audit := middleware.Audit(zapLogger, events)
	corsMW := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	handler := corsMW.Handler(audit(gate(r)))

	// Setup server
	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        handler,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("server_starting",
			zap.String("port", cfg.ServerPort),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

func versionInfo(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"version": Version}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
