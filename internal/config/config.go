package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	CountriesAPIURL        string
	ExchangeAPIURL         string
	MongoURI               string
	MongoAuthDB            string
	DBName                 string
	CollectionCountries    string
	CollectionMigrations   string
	HTTPAddr               string
	ImageCachePath         string
	RefreshIntervalMinutes int
}

// Load reads the .env file and loads the configuration
func Load() *Config {
	// Ignore err if .env file is not found in deployment
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	return &Config{
		CountriesAPIURL:        getEnv("COUNTRIES_API_URL", "https://restcountries.com/v2/all"),
		ExchangeAPIURL:         getEnv("EXCHANGE_API_URL", "https://open.er-api.com/v6/latest/USD"),
		MongoURI:               getMongoURI(),
		MongoAuthDB:            os.Getenv("MONGO_AUTH_DB"),
		DBName:                 getEnv("DB_COUNTRIES_NAME", "country_cache"),
		CollectionCountries:    getEnv("COLLECTION_COUNTRIES", "countries"),
		CollectionMigrations:   getEnv("COLLECTION_MIGRATIONS_HISTORY", "migrations_history"),
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		ImageCachePath:         getEnv("IMAGE_CACHE_PATH", "cache/summary.png"),
		RefreshIntervalMinutes: getEnvInt("REFRESH_INTERVAL_MINUTES", 0),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid value for %s: %v, using %d", key, err, fallback)
		return fallback
	}
	return n
}

// getMongoURI constructs the MongoDB URI from environment variables
func getMongoURI() string {
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		return uri
	}

	host := getEnv("MONGO_HOST", "localhost")
	port := getEnv("MONGO_PORT", "27017")
	user := os.Getenv("MONGO_USER")
	pass := os.Getenv("MONGO_PASS")

	if user == "" {
		return "mongodb://" + host + ":" + port
	}
	return "mongodb://" + user + ":" + pass + "@" + host + ":" + port
}
