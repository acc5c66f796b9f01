package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"place-picker-service/internal/adapters/geolocation"
	"place-picker-service/internal/adapters/repositories"
	"place-picker-service/internal/adapters/storage"
	"place-picker-service/internal/api"
	"place-picker-service/internal/api/handlers"
	"place-picker-service/internal/config"
	"place-picker-service/internal/domain"
	"place-picker-service/internal/metrics"
	"place-picker-service/internal/platform/db"
	"place-picker-service/internal/ports"
	"place-picker-service/internal/services"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

// main is the application composition root.
// It wires concrete adapters (SQLite/Postgres/Redis, locators) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seed, err := repositories.LoadPlaces(cfg.SeedPath)
	if err != nil {
		log.Fatal(err)
	}

	kv, repo, closeStore, err := openStorage(ctx, cfg, seed)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	places, err := repo.ListPlaces(ctx)
	if err != nil {
		log.Fatal(err)
	}
	catalog, err := domain.NewCatalog(places)
	if err != nil {
		log.Fatal(err)
	}

	selection, err := services.NewSelectionStore(catalog, kv, cfg.SelectionKey)
	if err != nil {
		log.Fatal(err)
	}
	picked := selection.Initialize(ctx)
	log.Printf("Selection hydrated backend=%s key=%s picked=%d catalog=%d",
		cfg.StorageBackend, cfg.SelectionKey, len(picked), catalog.Len())

	dialog := &handlers.Dialog{}
	removal, err := services.NewRemovalCoordinator(selection, dialog)
	if err != nil {
		log.Fatal(err)
	}

	locator, closeLocator, err := openLocator(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLocator()

	// One position lookup per process; the ranked list stays empty if it never lands.
	availability := services.NewAvailability(catalog, cfg.LocateTimeout)
	availability.Start(ctx, locator)

	reg := prometheus.NewRegistry()
	metrics.Register(reg)

	router := api.NewRouter(api.Deps{
		Catalog:      catalog,
		Selection:    selection,
		Availability: availability,
		Removal:      removal,
		Metrics:      metrics.Handler(reg),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown failed: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// openStorage returns the selection store and catalog source for the configured backend.
// SQL backends also get their schema initialized and the catalog seeded.
func openStorage(ctx context.Context, cfg config.Config, seed []domain.Place) (ports.KeyValueStore, ports.PlaceRepository, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		conn, err := db.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := initAndSeed(ctx, conn, repositories.SQLite, seed); err != nil {
			conn.Close()
			return nil, nil, nil, err
		}
		return storage.NewSqliteKeyValueStore(conn), repositories.NewSQLPlaceRepository(conn), func() { conn.Close() }, nil

	case config.BackendPostgres:
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := initAndSeed(ctx, conn, repositories.Postgres, seed); err != nil {
			conn.Close()
			return nil, nil, nil, err
		}
		return storage.NewSQLKeyValueStore(conn), repositories.NewSQLPlaceRepository(conn), func() { conn.Close() }, nil

	case config.BackendRedis:
		client, err := storage.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			return nil, nil, nil, err
		}
		return storage.NewRedisKeyValueStore(client, cfg.RedisPrefix), repositories.NewStaticPlaceRepository(seed), func() { client.Close() }, nil

	default:
		log.Println("Using in-memory storage; the selection will not survive a restart")
		return storage.NewMemoryKeyValueStore(), repositories.NewStaticPlaceRepository(seed), func() {}, nil
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect repositories.Dialect, seed []domain.Place) error {
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedPlaces(ctx, conn, dialect, seed); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

func openLocator(cfg config.Config) (ports.Locator, func(), error) {
	switch cfg.Locator {
	case config.LocatorStatic:
		return geolocation.NewStaticLocator(cfg.HomeLat, cfg.HomeLon), func() {}, nil
	case config.LocatorGeoIP:
		l, err := geolocation.NewGeoIPLocator(cfg.GeoIPDBPath, cfg.GeoIPAddress)
		if err != nil {
			return nil, nil, err
		}
		return l, func() { _ = l.Close() }, nil
	case config.LocatorHTTP:
		l, err := geolocation.NewHTTPLocator(cfg.LocateURL)
		if err != nil {
			return nil, nil, err
		}
		return l, func() {}, nil
	default:
		return nil, func() {}, nil
	}
}
