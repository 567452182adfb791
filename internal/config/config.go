// Package config loads application configuration from environment
// variables.  Required variables halt startup when missing; optional
// ones fall back to development defaults.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Strings for
// identifiers and secrets, ints for costs and TTLs, durations for
// timeouts.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for staff password hashing

	// Durable backend selection: "jsonfile" (default) or "mysql".
	StoreBackend string
	DataDir      string // collection files directory for the jsonfile backend

	// MySQL connection parameters for the mysql backend.
	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	// Liveness gate.
	FaceServiceURL string        // detection sidecar base URL
	FaceSkip       bool          // use the stub detector instead of the sidecar
	FaceTimeout    time.Duration // bound on one detection pass
}

// Load reads configuration from the environment.
func Load() Config {
	cfg := Config{
		Env:            getenvDefault("APP_ENV", "dev"),
		Port:           getenvDefault("APP_PORT", "8080"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   intDefault("ACCESS_TOKEN_TTL_MIN", 60),
		BcryptCost:     intDefault("BCRYPT_COST", 10),
		StoreBackend:   getenvDefault("STORE_BACKEND", "jsonfile"),
		DataDir:        getenvDefault("DATA_DIR", "data"),
		FaceServiceURL: getenvDefault("FACE_SERVICE_URL", "http://localhost:8000"),
		FaceSkip:       boolDefault("FACE_SKIP", false),
		FaceTimeout:    durDefault("FACE_TIMEOUT", 10*time.Second),
	}
	if cfg.StoreBackend == "mysql" {
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS")
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	}
	return cfg
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid int for %s: %q, using %d", key, v, def)
		return def
	}
	return n
}

func boolDefault(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return def
}

func durDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid duration for %s: %q, using %s", key, v, def)
		return def
	}
	return d
}
