package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/MimiTechAi/MimiSupply-sub001/internal/cart"
	"github.com/MimiTechAi/MimiSupply-sub001/internal/catalog"
	"github.com/MimiTechAi/MimiSupply-sub001/internal/db"
	"github.com/MimiTechAi/MimiSupply-sub001/internal/domain"
	"github.com/MimiTechAi/MimiSupply-sub001/internal/httpapi"
	"github.com/MimiTechAi/MimiSupply-sub001/internal/pricing"
	"github.com/MimiTechAi/MimiSupply-sub001/internal/repository"
)

type Config struct {
	HTTPPort        string
	DBPath          string
	SeedDemo        bool
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DBPath:          getEnv("DB_PATH", "./data/mimisupply.db"),
		SeedDemo:        getEnv("SEED_DEMO", "true") == "true",
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	if err := os.MkdirAll("./data", 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Connected to SQLite at %s", cfg.DBPath)

	if cfg.SeedDemo {
		if err := seedDemoCatalog(ctx, database); err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
	}

	cachedCatalog := catalog.NewCachedCatalog(catalog.NewSQLiteCatalog(database))

	rules := pricing.DefaultConfig()
	sessions := httpapi.NewSessions(func(customerID string) *cart.Store {
		store := cart.NewStore(repository.NewSQLiteRepository(database, customerID), cart.DefaultConfig())
		if err := store.Load(ctx); err != nil {
			log.Printf("failed to rehydrate cart for %s: %v", customerID, err)
		}
		return store
	})

	cartHandler := httpapi.NewCartHandler(sessions, cachedCatalog, rules, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(httpapi.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(httpapi.MockAuthMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		cartHandler.Routes(r)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "cartd"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Cart engine starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Println("Cart engine stopped")
}

// seedDemoCatalog loads the demo partner assortment on an empty catalog.
func seedDemoCatalog(ctx context.Context, database *sql.DB) error {
	var count int
	if err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	sqliteCatalog := catalog.NewSQLiteCatalog(database)

	stock := func(n int32) *int32 { return &n }
	products := []domain.Product{
		{ID: "prod-brezel", PartnerID: "partner-baeckerei-schmidt", Name: "Laugenbrezel", Description: "Frisch gebacken, mit grobem Salz", PriceCents: 120, Category: "bakery", Available: true},
		{ID: "prod-apfelschorle", PartnerID: "partner-edeka-mitte", Name: "Apfelschorle 0,5l", Description: "Naturtrübe Schorle", PriceCents: 149, Category: "beverages", Available: true, StockQuantity: stock(48)},
		{ID: "prod-leberkaese", PartnerID: "partner-metzgerei-huber", Name: "Leberkäse-Semmel", Description: "Warm, mit süßem Senf", PriceCents: 390, Category: "deli", Available: true, StockQuantity: stock(12)},
		{ID: "prod-ibuprofen", PartnerID: "partner-rats-apotheke", Name: "Ibuprofen 400mg", Description: "20 Tabletten, apothekenpflichtig", PriceCents: 649, Category: "pharmacy", Available: true, StockQuantity: stock(30), Tags: []string{"otc"}},
		{ID: "prod-doener-box", PartnerID: "partner-city-doener", Name: "Dönerbox", Description: "Mit Pommes und Kräutersauce", PriceCents: 750, Category: "restaurant", Available: true},
		{ID: "prod-vollkornbrot", PartnerID: "partner-baeckerei-schmidt", Name: "Vollkornbrot 750g", Description: "Sauerteig, ohne Zusatzstoffe", PriceCents: 419, Category: "bakery", Available: true, StockQuantity: stock(8)},
	}

	for _, p := range products {
		if err := sqliteCatalog.Put(ctx, p); err != nil {
			return err
		}
	}

	log.Printf("Seeded catalog with %d demo products", len(products))
	return nil
}
