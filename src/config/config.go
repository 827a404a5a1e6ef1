package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr     string
	Env            string
	DatabaseURL    string
	PriceFeed      PriceFeedConfig
	TokenCacheTTL  time.Duration
	RedisAddr      string
	Kafka          KafkaConfig
	OtelEndpoint   string
	StatsCron      string
	DepositAddress map[string]string
}

type PriceFeedConfig struct {
	BaseURL  string
	APIKey   string
	CacheTTL time.Duration
}

type KafkaConfig struct {
	Brokers     []string
	TopicPrefix string
}

// deposit address keys, one per network identifier
var depositNetworks = []string{"Solana", "BEP20", "ERC20", "Base", "TRC20", "BTC"}

// LoadFromEnv reads configuration from environment variables with fallback defaults.
// It also loads `.env` if present (for local development).
func LoadFromEnv() *Config {
	// Load .env if exists, ignore error if no file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, relying on environment variables")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("[FATAL] DATABASE_URL is required")
	}

	priceTTL := mustDuration("PRICE_CACHE_TTL", "30s")
	tokenTTL := mustDuration("TOKEN_CACHE_TTL", "5m")

	deposit := make(map[string]string, len(depositNetworks))
	for _, network := range depositNetworks {
		key := "DEPOSIT_ADDRESS_" + strings.ToUpper(network)
		deposit[network] = getEnv(key, "")
	}

	return &Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		Env:         getEnv("ENV", "dev"),
		DatabaseURL: databaseURL,
		PriceFeed: PriceFeedConfig{
			BaseURL:  getEnv("PRICE_FEED_BASE_URL", "https://api.coingecko.com/api/v3"),
			APIKey:   getEnv("PRICE_FEED_API_KEY", ""),
			CacheTTL: priceTTL,
		},
		TokenCacheTTL: tokenTTL,
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		Kafka: KafkaConfig{
			Brokers:     splitList(getEnv("KAFKA_BROKERS", "")),
			TopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", "bridgeswap"),
		},
		OtelEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		StatsCron:      getEnv("STATS_CRON", "@every 12h"),
		DepositAddress: deposit,
	}
}

func mustDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("[FATAL] Invalid %s duration: %v", key, err)
	}
	if d <= 0 {
		log.Fatalf("[FATAL] %s must be positive, got %s", key, raw)
	}
	return d
}

// helper to get env with default fallback
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
