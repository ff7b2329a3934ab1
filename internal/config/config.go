package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strings" // strings normalizes driver names

    "github.com/joho/godotenv" // godotenv loads a local .env file when present
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
    DriverRedis  = "redis"
    DriverMySQL  = "mysql"
    DriverMemory = "memory"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
    Env               string // application environment (e.g. "dev", "prod")
    Port              string // HTTP port to listen on
    StorageDriver     string // redis | mysql | memory
    SlotPrefix        string // key prefix for the persisted roster slots
    DBUser            string // database username (mysql driver)
    DBPass            string // database password (optional)
    DBHost            string // database host address
    DBPort            string // database port number
    DBName            string // database name
    JWTSecret         string // secret used to sign JWTs
    AccessTTLMin      int    // access token time-to-live in minutes
    CoachUsername     string // login name of the coach account
    CoachPasswordHash string // bcrypt hash of the coach password
    AMQPURL           string // broker URL; empty disables lineup events
}

// Load reads an optional .env file and then the environment.  JWT_SECRET is
// required; everything else has a development default.
func Load() Config {
    // A missing .env is the normal case in containers.
    _ = godotenv.Load()
    return Config{
        Env:               getenv("APP_ENV", "dev"),
        Port:              getenv("APP_PORT", "8080"),
        StorageDriver:     strings.ToLower(getenv("STORAGE_DRIVER", DriverRedis)),
        SlotPrefix:        getenv("SLOT_PREFIX", "lineup"),
        DBUser:            getenv("DB_USER", "root"),
        DBPass:            os.Getenv("DB_PASS"),
        DBHost:            getenv("DB_HOST", "127.0.0.1"),
        DBPort:            getenv("DB_PORT", "3306"),
        DBName:            getenv("DB_NAME", "lineup"),
        JWTSecret:         must("JWT_SECRET"),
        AccessTTLMin:      envInt("ACCESS_TOKEN_TTL_MIN", 120),
        CoachUsername:     getenv("COACH_USERNAME", "coach"),
        CoachPasswordHash: os.Getenv("COACH_PASSWORD_HASH"),
        AMQPURL:           amqpURL(),
    }
}

// IsProd reports whether the service runs in production mode.
func (c Config) IsProd() bool {
    return c.Env == "prod" || c.Env == "production"
}

// amqpURL prefers RABBITMQ_URL and falls back to AMQP_URL.
func amqpURL() string {
    if v := os.Getenv("RABBITMQ_URL"); v != "" {
        return v
    }
    return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}
