/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the MindFlow life-ledger server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Create domain services (activities, finance, health, development)
  4. Create API handler and router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port        HTTP server port (default: 8080)
  -db          SQLite database path (default: mindflow.db)
               Use ":memory:" for in-memory database
  -jwt-secret  Token signing secret; falls back to JWT_SECRET, then to
               a development default. Set it in production.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/mindflow.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port with a real secret
  ./server -port=3000 -jwt-secret="$(openssl rand -hex 32)"

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
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

	"github.com/mindflow/life-ledger/activity"
	"github.com/mindflow/life-ledger/api"
	"github.com/mindflow/life-ledger/auth"
	"github.com/mindflow/life-ledger/development"
	"github.com/mindflow/life-ledger/finance"
	"github.com/mindflow/life-ledger/generic"
	"github.com/mindflow/life-ledger/health"
	"github.com/mindflow/life-ledger/store/sqlite"
)

// defaultJWTSecret keeps local development frictionless. Production
// deployments must override it via -jwt-secret or JWT_SECRET.
const defaultJWTSecret = "mindflow_secret_key_123"

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "mindflow.db", "SQLite database path")
	jwtSecret := flag.String("jwt-secret", "", "JWT signing secret (falls back to JWT_SECRET env)")
	flag.Parse()

	secret := *jwtSecret
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		secret = defaultJWTSecret
		log.Println("Warning: using development JWT secret, set -jwt-secret in production")
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize services. Collections load from the store once at
	// startup and persist on every mutation.
	ctx := context.Background()
	clock := generic.SystemClock{}

	authSvc := auth.NewService(store, []byte(secret), clock)
	activities := activity.NewService(ctx, store, clock)
	finances := finance.NewService(ctx, store, clock)
	wellbeing := health.NewService(ctx, store, clock)
	plans := development.NewService(ctx, store, clock)

	// Create router
	handler := api.NewHandler(authSvc, activities, finances, wellbeing, plans)
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
