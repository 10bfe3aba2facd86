package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	PostgresConnStr         string
	RedisURL                string
	FeedCacheTTL            time.Duration
	AuthProvider            string
	FirebaseCredentialsPath string
	JWTSecret               string
	MetricsPort             string

	MediaBucket         string
	MediaPrefix         string
	MediaPublicBaseURL  string
	MediaMaxUploadBytes int64
	MediaEndpoint       string
	MediaAccessKeyID    string
	MediaSecretKey      string
	AWSRegion           string
}

// Load reads the configuration from the environment, after loading .env if present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		RedisURL:                getEnv("REDIS_URL", ""),
		FeedCacheTTL:            getDuration("FEED_CACHE_TTL", 30*time.Second),
		AuthProvider:            getEnv("AUTH_PROVIDER", "firebase"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		MetricsPort:             getEnv("METRICS_PORT", "9090"),

		MediaBucket:         getEnv("MEDIA_BUCKET", ""),
		MediaPrefix:         getEnv("MEDIA_PREFIX", "pigstar"),
		MediaPublicBaseURL:  getEnv("MEDIA_PUBLIC_BASE_URL", ""),
		MediaMaxUploadBytes: getInt64("MEDIA_MAX_UPLOAD_BYTES", 10<<20),
		MediaEndpoint:       getEnv("MEDIA_ENDPOINT", ""),
		MediaAccessKeyID:    getEnv("MEDIA_ACCESS_KEY_ID", ""),
		MediaSecretKey:      getEnv("MEDIA_SECRET_ACCESS_KEY", ""),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return d
}

func getInt64(key string, defaultValue int64) int64 {
	n, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
