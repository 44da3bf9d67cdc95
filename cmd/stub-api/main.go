// Command stub-api runs the local campaign backend. With DATABASE_URL set it
// persists to PostgreSQL; otherwise it serves seeded in-memory data with
// simulated send progress.
package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/ignite/campaign-console/internal/config"
	"github.com/ignite/campaign-console/internal/stubapi"
)

func main() {
	cfg, err := config.LoadFromEnv(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var repo stubapi.Repository
	if cfg.StubAPI.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.StubAPI.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}
		log.Println("[StubAPI] Using PostgreSQL storage")
		repo = stubapi.NewPostgresRepo(db)
	} else {
		mem := stubapi.NewMemoryRepo()
		mem.Simulate = true
		mem.SeedDemoData()
		log.Println("[StubAPI] Using in-memory storage with demo data")
		repo = mem
	}

	srv := stubapi.NewServer(repo, cfg.StubAPI.AuthToken)

	go func() {
		log.Printf("[StubAPI] Listening on %s", cfg.StubAPI.ListenAddr)
		if err := srv.ListenAndServe(cfg.StubAPI.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[StubAPI] Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[StubAPI] Shutdown error: %v", err)
	}
	log.Println("[StubAPI] Stopped")
}
