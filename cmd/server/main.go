package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gfq-app/gfq/internal/config"
	"github.com/gfq-app/gfq/internal/db"
	"github.com/gfq-app/gfq/internal/server"
	"github.com/gfq-app/gfq/internal/services"
	"github.com/gfq-app/gfq/internal/store"
)

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	conn, err := db.ConnectAndMigrate(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("erreur connexion DB: %v", err)
	}
	if *migrateOnlyFlag {
		log.Println("migrations completed; exiting as requested")
		return
	}

	sync := services.NewSyncEngine(store.New(conn))
	// Initial load also seeds the default zones on a fresh store.
	if _, err := sync.LoadAll(); err != nil {
		log.Fatalf("chargement initial: %v", err)
	}

	log.Printf("starting server env=%s port=%s", cfg.Env, cfg.Port)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: withLogging(server.New(sync, conn))}

	go func() {
		log.Printf("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	log.Println("server gracefully stopped")
}
