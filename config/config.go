package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBUrl         string
	RunMigrations bool
	LogLevel      string
	// Supabase Auth
	SupabaseUrl       string
	SupabaseJWTSecret string
	FrontendURL       string
	// Airtable job source
	AirtableAPIKey    string
	AirtableBaseID    string
	AirtableTableName string
	AirtableView      string
	AirtableRateLimit float64 // requests per second
	// Sync scheduling
	SyncSchedule   string
	SyncOnStartup  bool
	SyncFetchDelay time.Duration
	SyncLockTTL    time.Duration
	DigestSchedule string
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Resume analysis (Anthropic)
	AnthropicAPIKey string
	AnthropicModel  string
	// Email (Resend)
	ResendAPIKey   string
	EmailFrom      string
	NotifyMinScore int
	NotifyMaxJobs  int
	// Resume storage (Supabase Storage S3 endpoint)
	StorageEndpoint        string
	StorageRegion          string
	StorageBucket          string
	StorageAccessKeyID     string
	StorageSecretAccessKey string
	StoragePublicURL       string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
	RateLimitUploadThreshold int
}

func LoadConfig() (*Config, error) {
	// Only effective locally; production reads the real environment
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBUrl:         getEnv("DATABASE_URL", ""),
		RunMigrations: getEnvBool("RUN_MIGRATIONS", true),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		// Trailing slash stripped to avoid ".co//auth"
		SupabaseUrl:       strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", getEnv("SUPABASE_JWT_KEY", "")),
		FrontendURL:       strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		// Airtable
		AirtableAPIKey:    getEnv("AIRTABLE_API_KEY", ""),
		AirtableBaseID:    getEnv("AIRTABLE_BASE_ID", ""),
		AirtableTableName: getEnv("AIRTABLE_TABLE_NAME", "Jobs"),
		AirtableView:      getEnv("AIRTABLE_VIEW", ""),
		AirtableRateLimit: getEnvFloat("AIRTABLE_RATE_LIMIT", 5),
		// Sync
		SyncSchedule:   getEnv("SYNC_SCHEDULE", "@every 6h"),
		SyncOnStartup:  getEnvBool("SYNC_ON_STARTUP", false),
		SyncFetchDelay: getEnvDuration("SYNC_FETCH_DELAY", 200*time.Millisecond),
		SyncLockTTL:    getEnvDuration("SYNC_LOCK_TTL", 10*time.Minute),
		DigestSchedule: getEnv("DIGEST_SCHEDULE", "@weekly"),
		// Redis
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Anthropic
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
		// Resend
		ResendAPIKey:   getEnv("RESEND_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", "Job Matches <matches@example.com>"),
		NotifyMinScore: getEnvInt("NOTIFY_MIN_SCORE", 70),
		NotifyMaxJobs:  getEnvInt("NOTIFY_MAX_JOBS", 10),
		// Storage
		StorageEndpoint:        strings.TrimRight(getEnv("STORAGE_ENDPOINT", ""), "/"),
		StorageRegion:          getEnv("STORAGE_REGION", "us-east-1"),
		StorageBucket:          getEnv("STORAGE_BUCKET", "resumes"),
		StorageAccessKeyID:     getEnv("STORAGE_ACCESS_KEY_ID", ""),
		StorageSecretAccessKey: getEnv("STORAGE_SECRET_ACCESS_KEY", ""),
		StoragePublicURL:       strings.TrimRight(getEnv("STORAGE_PUBLIC_URL", ""), "/"),
		// Rate limiting
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		RateLimitUploadThreshold: getEnvInt("RATE_LIMIT_UPLOAD_THRESHOLD", 10),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}

	if cfg.AirtableAPIKey == "" || cfg.AirtableBaseID == "" {
		log.Println("WARNING: AIRTABLE_API_KEY / AIRTABLE_BASE_ID not configured. Job sync will fail.")
	}

	if cfg.StoragePublicURL == "" && cfg.SupabaseUrl != "" {
		cfg.StoragePublicURL = cfg.SupabaseUrl + "/storage/v1/object/public"
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Sync lock and rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// AirtableConfigured reports whether the job source credentials are present.
func (c *Config) AirtableConfigured() bool {
	return c.AirtableAPIKey != "" && c.AirtableBaseID != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("250ms", "10m")
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
