package config

import (
	"os"
	"strconv"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
}

type Analytics struct {
	HistoricalDaysBack  int
	MaxHistoricalDays   int
	HotspotBatchSize    int
	HotspotBatchDelayMs int
	InsightCallDelayMs  int
	RunCooldownHours    int
}

type Config struct {
	InstagramClientID     string
	InstagramClientSecret string
	InstagramRedirectURI  string
	FacebookClientID      string
	FacebookClientSecret  string
	FacebookRedirectURI   string
	PostgresURI           string
	RedisURI              string
	FrontendURL           string
	R2                    R2
	Analytics             Analytics
	SecretKey             string
	CookieName            string
}

func LoadConfig() *Config {
	return &Config{
		InstagramClientID:     getEnv("INSTAGRAM_CLIENT_ID", ""),
		InstagramClientSecret: getEnv("INSTAGRAM_CLIENT_SECRET", ""),
		InstagramRedirectURI:  getEnv("INSTAGRAM_REDIRECT_URI", ""),
		FacebookClientID:      getEnv("FACEBOOK_CLIENT_ID", ""),
		FacebookClientSecret:  getEnv("FACEBOOK_CLIENT_SECRET", ""),
		FacebookRedirectURI:   getEnv("FACEBOOK_REDIRECT_URI", ""),
		PostgresURI:           getEnv("POSTGRES_URI", ""),
		RedisURI:              getEnv("REDIS_URI", ""),
		FrontendURL:           getEnv("FRONTEND_URL", "http://localhost:5173"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
		},
		Analytics: Analytics{
			HistoricalDaysBack:  getEnvInt("ANALYTICS_HISTORICAL_DAYS", 30),
			MaxHistoricalDays:   getEnvInt("ANALYTICS_MAX_HISTORICAL_DAYS", 90),
			HotspotBatchSize:    getEnvInt("HOTSPOT_BATCH_SIZE", 3),
			HotspotBatchDelayMs: getEnvInt("HOTSPOT_BATCH_DELAY_MS", 2000),
			InsightCallDelayMs:  getEnvInt("INSIGHT_CALL_DELAY_MS", 100),
			RunCooldownHours:    getEnvInt("ANALYTICS_RUN_COOLDOWN_HOURS", 20),
		},
		SecretKey:  getEnv("SECRET_KEY", ""),
		CookieName: getEnv("COOKIE_NAME", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
