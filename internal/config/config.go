package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends for the persisted selection.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Position sources for the availability task.
const (
	LocatorNone   = "none"
	LocatorStatic = "static"
	LocatorGeoIP  = "geoip"
	LocatorHTTP   = "http"
)

type Config struct {
	Port           string
	StorageBackend string
	DBPath         string
	DatabaseURL    string
	RedisAddr      string
	RedisPass      string
	RedisDB        int
	RedisPrefix    string
	SeedPath       string
	SelectionKey   string

	Locator       string
	HomeLat       float64
	HomeLon       float64
	GeoIPDBPath   string
	GeoIPAddress  string
	LocateURL     string
	LocateTimeout time.Duration
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load collects the service configuration from the environment.
// Backend-specific settings are only validated for the selected backend.
func Load() (Config, error) {
	cfg := Config{
		Port:           Get("PORT", "8080"),
		StorageBackend: strings.ToLower(Get("STORAGE_BACKEND", BackendSQLite)),
		DBPath:         Get("DB_PATH", "data/app.db"),
		DatabaseURL:    Get("DATABASE_URL", ""),
		RedisAddr:      Get("REDIS_HOST", "127.0.0.1") + ":" + Get("REDIS_PORT", "6379"),
		RedisPass:      os.Getenv("REDIS_PASS"),
		RedisPrefix:    Get("REDIS_PREFIX", "placepicker:"),
		SeedPath:       Get("SEED_PATH", ""),
		SelectionKey:   Get("SELECTION_KEY", "selectedPlaces"),
		Locator:        strings.ToLower(Get("LOCATOR", LocatorNone)),
		GeoIPDBPath:    Get("GEOIP_DB_PATH", ""),
		GeoIPAddress:   Get("GEOIP_IP", ""),
		LocateURL:      Get("LOCATE_URL", ""),
	}

	redisDB, err := strconv.Atoi(Get("REDIS_DB", "0"))
	if err != nil || redisDB < 0 {
		return Config{}, fmt.Errorf("load config: REDIS_DB must be a non-negative integer, got %q", os.Getenv("REDIS_DB"))
	}
	cfg.RedisDB = redisDB

	cfg.LocateTimeout, err = time.ParseDuration(Get("LOCATE_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("load config: parse LOCATE_TIMEOUT: %w", err)
	}
	if cfg.LocateTimeout <= 0 {
		return Config{}, errors.New("load config: LOCATE_TIMEOUT must be positive")
	}

	switch cfg.StorageBackend {
	case BackendSQLite, BackendRedis, BackendMemory:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("load config: DATABASE_URL is required for the postgres backend")
		}
	default:
		return Config{}, fmt.Errorf("load config: unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	switch cfg.Locator {
	case LocatorNone:
	case LocatorStatic:
		if cfg.HomeLat, err = parseFloatEnv("HOME_LAT"); err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
		if cfg.HomeLon, err = parseFloatEnv("HOME_LON"); err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
	case LocatorGeoIP:
		if cfg.GeoIPDBPath == "" || cfg.GeoIPAddress == "" {
			return Config{}, errors.New("load config: GEOIP_DB_PATH and GEOIP_IP are required for the geoip locator")
		}
	case LocatorHTTP:
		if cfg.LocateURL == "" {
			return Config{}, errors.New("load config: LOCATE_URL is required for the http locator")
		}
	default:
		return Config{}, fmt.Errorf("load config: unknown LOCATOR %q", cfg.Locator)
	}

	return cfg, nil
}

func parseFloatEnv(key string) (float64, error) {
	raw := Get(key, "")
	if raw == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}
