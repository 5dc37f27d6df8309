// Package entrypoint wires the services together and runs the HTTP server.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dayoung/bookdam/internal/config"
	"github.com/dayoung/bookdam/internal/database"
	"github.com/dayoung/bookdam/internal/database/books"
	http_controllers "github.com/dayoung/bookdam/internal/http"
	"github.com/dayoung/bookdam/internal/library"
	"github.com/dayoung/bookdam/internal/providers/googlebooks"
	"github.com/dayoung/bookdam/internal/providers/kakao"
	"github.com/dayoung/bookdam/internal/search"
	"github.com/dayoung/bookdam/internal/stats"
)

func Run(cfg *config.Config, version string) {
	log.Printf("Starting bookdam v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	repo := books.NewRepository(db.DB)
	store := library.NewStore(repo)
	tracker := stats.NewTracker(repo)

	if cfg.Kakao.APIKey == "" {
		log.Printf("WARNING: Kakao API key is not set; the Kakao catalog will return no results. Set 'KAKAO_API_KEY' to enable.")
	}
	if cfg.GoogleBooks.APIKey == "" {
		log.Printf("WARNING: Google Books API key is not set; the Google Books catalog will return no results. Set 'GOOGLE_BOOKS_API_KEY' to enable.")
	}

	// Kakao before Google Books: the commerce catalog wins on duplicates.
	aggregator := search.NewAggregator(
		cfg.Search.ProviderTimeout,
		kakao.NewClient(cfg.Kakao.APIKey),
		googlebooks.NewClient(cfg.GoogleBooks.APIKey),
	)

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Books:  http_controllers.NewBooksController(store, tracker),
		Search: http_controllers.NewSearchController(aggregator),
		Stats:  http_controllers.NewStatsController(tracker),
		Health: http_controllers.NewHealthController(db, version),
	})

	serve(router, cfg)
}

func serve(handler http.Handler, cfg *config.Config) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: handler,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}
