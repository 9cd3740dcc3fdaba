// Package config provides centralized default values for PresetBase
package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		if err := godotenv.Load(); err == nil {
			log.Println("Loading configuration overrides from .env file...")
		}
	})
}

func init() {
	loadEnvFile()
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

// Server Configuration
var (
	Port = getEnvString("PORT", "8080")

	ServerReadTimeout  = getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second)
	ServerIdleTimeout  = getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second)
)

// Upstream API Configuration
var (
	// UpstreamBaseURL is the PresetBase REST backend this engine fronts.
	UpstreamBaseURL = getEnvString("UPSTREAM_BASE_URL", "http://localhost:3000")

	// UpstreamTimeout of zero means no timeout; a hung request stays in
	// flight until the caller gives up.
	UpstreamTimeout = getEnvDuration("UPSTREAM_TIMEOUT", 0)
)

// Cache Configuration
var (
	// DefaultCacheTTL governs stale-while-revalidate entries.
	DefaultCacheTTL = getEnvDuration("DEFAULT_CACHE_TTL", 5*time.Minute)

	CacheDBPath          = getEnvString("CACHE_DB_PATH", "data/presetbase-cache.db")
	CacheCleanupInterval = getEnvDuration("CACHE_CLEANUP_INTERVAL", 30*time.Minute)
	CacheEntryMaxAge     = getEnvDuration("CACHE_ENTRY_MAX_AGE", 24*time.Hour)

	// Remote cache store (libsql); falls back to local SQLite when unset.
	TursoDatabase = getEnvString("TURSO_DATABASE_URL", "")
	TursoToken    = getEnvString("TURSO_AUTH_TOKEN", "")
)

// Editor Configuration
var (
	EditorSessionTimeout         = getEnvDuration("EDITOR_SESSION_TIMEOUT", 2*time.Hour)
	EditorSessionCleanupInterval = getEnvDuration("EDITOR_SESSION_CLEANUP_INTERVAL", 10*time.Minute)
)

// Suggestion Configuration
var (
	SuggestDebounce = getEnvDuration("SUGGEST_DEBOUNCE", 150*time.Millisecond)
	SuggestLimit    = getEnvInt("SUGGEST_LIMIT", 7)
)

// Auth Configuration
var (
	JWTSecret = getEnvString("JWT_SECRET", "")

	AccessTokenTTL  = getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute)
	RefreshTokenTTL = getEnvDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour)

	AdminUsername     = getEnvString("ADMIN_USERNAME", "admin")
	AdminPasswordHash = getEnvString("ADMIN_PASSWORD_HASH", "")
)

// Media Validation
var (
	MinImageWidth   = getEnvInt("MIN_IMAGE_WIDTH", 1000)
	MinImageHeight  = getEnvInt("MIN_IMAGE_HEIGHT", 1000)
	MaxAudioSeconds = getEnvInt("MAX_AUDIO_SECONDS", 15)
	ArtworkQuality  = getEnvInt("ARTWORK_WEBP_QUALITY", 85)
	MaxUploadBytes  = getEnvInt("MAX_UPLOAD_BYTES", 10*1024*1024)
)

// Email Configuration
var (
	ResendAPIKey  = getEnvString("RESEND_API_KEY", "")
	EmailFrom     = getEnvString("EMAIL_FROM", "noreply@presetbase.net")
	EmailFromName = getEnvString("EMAIL_FROM_NAME", "PresetBase")
)
