package config

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Forecast ForecastConfig
	Insight  InsightConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	ForecastTTLSeconds int
}

// ForecastConfig holds the windowing constants shared by the ledger
// reconstruction and the forward projection. AnchorDate must be a Monday;
// every relative-week offset in the system is counted from it.
type ForecastConfig struct {
	AnchorDate       time.Time
	HistoryWeeks     int
	HorizonWeeks     int
	TrendWindowStart int
	TrendWindowEnd   int
	DefaultPlant     string
	DCReorderFactor  int
	DCPlants         map[string][]string
}

type InsightConfig struct {
	GeminiAPIKey string
	GeminiModel  string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "stocklens")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_FORECAST_TTL_SECONDS", 300)
		viper.SetDefault("FORECAST_ANCHOR_DATE", "2024-12-23")
		viper.SetDefault("FORECAST_HISTORY_WEEKS", 4)
		viper.SetDefault("FORECAST_HORIZON_WEEKS", 8)
		viper.SetDefault("FORECAST_TREND_WINDOW_START", 3)
		viper.SetDefault("FORECAST_TREND_WINDOW_END", 5)
		viper.SetDefault("FORECAST_DEFAULT_PLANT", "15KA")
		viper.SetDefault("FORECAST_DC_REORDER_FACTOR", 11)
		viper.SetDefault("FORECAST_DC_PLANTS", "")
		viper.SetDefault("GEMINI_API_KEY", "")
		viper.SetDefault("GEMINI_MODEL", "gemini-1.5-pro-latest")

		viper.AutomaticEnv()

		anchor, err := time.Parse("2006-01-02", viper.GetString("FORECAST_ANCHOR_DATE"))
		if err != nil {
			log.Fatalf("invalid FORECAST_ANCHOR_DATE: %v", err)
		}
		if anchor.Weekday() != time.Monday {
			log.Fatalf("FORECAST_ANCHOR_DATE must be a Monday, got %s", anchor.Weekday())
		}

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:            viper.GetBool("CACHE_ENABLED"),
				RedisURL:           viper.GetString("REDIS_URL"),
				RedisHost:          viper.GetString("REDIS_HOST"),
				RedisPort:          viper.GetString("REDIS_PORT"),
				RedisPassword:      viper.GetString("REDIS_PASSWORD"),
				RedisDB:            viper.GetInt("REDIS_DB"),
				ForecastTTLSeconds: viper.GetInt("CACHE_FORECAST_TTL_SECONDS"),
			},
			Forecast: ForecastConfig{
				AnchorDate:       anchor,
				HistoryWeeks:     viper.GetInt("FORECAST_HISTORY_WEEKS"),
				HorizonWeeks:     viper.GetInt("FORECAST_HORIZON_WEEKS"),
				TrendWindowStart: viper.GetInt("FORECAST_TREND_WINDOW_START"),
				TrendWindowEnd:   viper.GetInt("FORECAST_TREND_WINDOW_END"),
				DefaultPlant:     viper.GetString("FORECAST_DEFAULT_PLANT"),
				DCReorderFactor:  viper.GetInt("FORECAST_DC_REORDER_FACTOR"),
				DCPlants:         parseDCPlants(viper.GetString("FORECAST_DC_PLANTS")),
			},
			Insight: InsightConfig{
				GeminiAPIKey: viper.GetString("GEMINI_API_KEY"),
				GeminiModel:  viper.GetString("GEMINI_MODEL"),
			},
		}
	})

	return instance
}

// parseDCPlants parses "91KA:sku1|sku2;92KA:sku3" into a plant -> SKU list map.
// Distribution-center plants carry a fixed SKU catalog instead of a per-plant
// assortment in the master data.
func parseDCPlants(raw string) map[string][]string {
	result := make(map[string][]string)
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 {
			continue
		}
		plant := strings.TrimSpace(parts[0])
		var skus []string
		for _, sku := range strings.Split(parts[1], "|") {
			sku = strings.TrimSpace(sku)
			if sku != "" {
				skus = append(skus, sku)
			}
		}
		if plant != "" && len(skus) > 0 {
			result[plant] = skus
		}
	}
	return result
}
