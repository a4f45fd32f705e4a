package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	swgui "github.com/swaggest/swgui/v5cdn"

	"school-admin/auth"
	"school-admin/config"
	"school-admin/database"
	"school-admin/handlers"
	"school-admin/middleware"
	"school-admin/services"
	"school-admin/telemetry"
)

//go:embed docs/openapi.yaml
var openapi []byte

func main() {
	log.Println("🚀 Starting School Admin Server...")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration:\n%v", err)
	}
	log.Printf("📋 Configuration loaded: Server Port %s", cfg.ServerPort)

	otelShutdown, err := telemetry.Setup(context.Background(), cfg.TracingEnabled, os.Stdout)
	if err != nil {
		log.Fatal("❌ Error setting up OpenTelemetry:", err)
	}
	defer otelShutdown(context.Background())

	backend, err := database.Open(cfg)
	if err != nil {
		log.Fatal("❌ Error initializing database:", err)
	}
	defer backend.Close()

	if err := database.Migrate(backend.DB, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal("❌ Error running migrations:", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("❌ Error connecting to Redis:", err)
	}
	log.Printf("✅ Connected to Redis at %s", cfg.RedisAddr)

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	authService := auth.NewService(backend.DB, jwtService, auth.NewRedisSessionStore(redisClient))

	authMiddleware := middleware.NewAuthMiddleware(authService)
	trustedProxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatal("❌ Error reading TRUSTED_PROXIES:", err)
	}
	loginLimiter, err := middleware.NewLoginRateLimiter(redisClient, cfg.LoginRateLimit, trustedProxies)
	if err != nil {
		log.Fatal("❌ Error creating login rate limiter:", err)
	}

	classService := services.NewClassService(backend)
	teacherService := services.NewTeacherService(backend)
	studentService := services.NewStudentService(backend)

	h := &handlers.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Classes:  handlers.NewClassHandler(classService, studentService),
		Teachers: handlers.NewTeacherHandler(teacherService),
		Students: handlers.NewStudentHandler(studentService),
		Reports:  handlers.NewReportHandler(classService, studentService, cfg.School),
	}

	r := mux.NewRouter()
	r.Use(middleware.CORS)
	r.Use(middleware.Logging)

	setupRoutes(r, h, authMiddleware, loginLimiter, newHealthHandler(backend, redisClient))

	serverAddr := ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           telemetry.Handler(r, "school-admin"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("✅ Server successfully started on %s", serverAddr)
		log.Printf("🌐 Available at: http://localhost%s", serverAddr)
		log.Printf("📚 API docs: http://localhost%s/api/docs/", serverAddr)
		log.Printf("🔐 Session expiry: %d hours", cfg.JWTExpiry)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("❌ Server error:", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Error during shutdown: %v", err)
	}
}

func setupRoutes(r *mux.Router, h *handlers.Handlers,
	authMiddleware *middleware.AuthMiddleware,
	loginLimiter *middleware.LoginRateLimiter,
	healthHandler http.HandlerFunc) {

	// API docs
	r.HandleFunc("/api/docs/openapi.yaml", serveOpenapi).Methods("GET")
	r.PathPrefix("/api/docs/").Handler(swgui.New("School Admin API", "/api/docs/openapi.yaml", "/api/docs/"))

	// Public API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Handle("/auth/login", loginLimiter.Limit(http.HandlerFunc(h.Auth.Login))).Methods("POST")

	// Protected API routes
	protectedAPI := r.PathPrefix("/api").Subrouter()
	protectedAPI.Use(authMiddleware.AuthMiddleware)
	h.RegisterProtected(protectedAPI)

	r.HandleFunc("/", rootHandler).Methods("GET")
	r.HandleFunc("/health", healthHandler).Methods("GET")

	// Preflight for every route; CORS headers are set by the middleware.
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serveOpenapi(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(openapi)
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/api/docs/", http.StatusFound)
}

func newHealthHandler(backend *database.Backend, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := map[string]string{"database": "ok", "redis": "ok"}
		if err := backend.X.PingContext(ctx); err != nil {
			log.Printf("❌ Health check: database: %v", err)
			checks["database"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("❌ Health check: redis: %v", err)
			checks["redis"] = "unavailable"
			status = http.StatusServiceUnavailable
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		response := map[string]interface{}{
			"status":    overall,
			"service":   "school-admin",
			"checks":    checks,
			"timestamp": time.Now().Format(time.RFC3339),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(response)
	}
}
