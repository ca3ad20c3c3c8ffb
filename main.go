package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"playpal/admin"
	"playpal/auth"
	"playpal/booking"
	"playpal/config"
	"playpal/locks"
	"playpal/logging"
	"playpal/messages"
	"playpal/middleware"
	"playpal/ratelim"
	"playpal/rdx"
	"playpal/routes"
	"playpal/sessions"
	"playpal/storage/mongostore"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// requestLogging logs each request method, path, remote address, and duration.
func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request", "method", r.Method, "path", r.RequestURI, "remote", r.RemoteAddr, "duration", time.Since(start))
	})
}

// health is a simple health check handler.
func health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func setupRouter(cfg config.Config, store *mongostore.Store, redisClient *rdx.Client) *httprouter.Router {
	rateLimiter := ratelim.NewRateLimiter()
	mw := middleware.NewAuth(cfg.JWTSecret)
	locker := locks.NewRedisLocker(redisClient)

	feed := messages.NewFeed()
	msgSvc := messages.NewService(store, feed)
	authSvc := auth.NewService(store, cfg.AdminEmail)
	bookSvc := booking.NewService(store, locker, msgSvc)
	sessSvc := sessions.NewService(store, locker, msgSvc)
	adminSvc := admin.NewService(store, msgSvc, cfg.AdminEmail)

	router := httprouter.New()
	router.GET("/health", health)

	routes.AddAuthRoutes(router, rateLimiter, mw, auth.NewHandler(authSvc, mw, redisClient))
	routes.AddBookingRoutes(router, rateLimiter, mw, booking.NewHandler(bookSvc), booking.NewReceiptHandler(bookSvc, cfg.ReceiptSecret))
	routes.AddSessionRoutes(router, rateLimiter, mw, sessions.NewHandler(sessSvc))
	routes.AddMessageRoutes(router, rateLimiter, mw, messages.NewHandler(msgSvc, feed))
	routes.AddAdminRoutes(router, mw, admin.NewHandler(adminSvc))

	return router
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found; using system environment")
	}
	logging.Setup()

	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		slog.Error("failed to connect to MongoDB", "err", err)
		os.Exit(1)
	}
	store := mongostore.New(client.Database(cfg.MongoDB))
	if err := store.EnsureIndexes(ctx); err != nil {
		slog.Warn("index creation failed", "err", err)
	}

	redisClient := rdx.New(cfg.RedisAddr)

	router := setupRouter(cfg, store, redisClient)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := requestLogging(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("ListenAndServe error", "err", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	slog.Info("shutdown signal received; shutting down gracefully")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "err", err)
		os.Exit(1)
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		slog.Warn("mongo disconnect failed", "err", err)
	}
	if err := redisClient.Close(); err != nil {
		slog.Warn("redis close failed", "err", err)
	}

	slog.Info("server stopped cleanly")
}
