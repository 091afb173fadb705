package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTP_ADDR         string
	MONGO_URL         string
	MONGO_DB          string
	JWT_SECRET        string
	ADMIN_EMAIL       string
	ADMIN_PASSWORD    string
	ES_URL            string
	ES_USER           string
	ES_PASSWORD       string
	KAFKA_ADDRESS     string
	ORDER_PREFIX      string
	LOG_LEVEL         string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		HTTP_ADDR:      getDefault("HTTP_ADDR", ":8080"),
		MONGO_URL:      getDefault("MONGO_URL", "mongodb://localhost:27017"),
		MONGO_DB:       getDefault("MONGO_DB", "tiflun"),
		JWT_SECRET:     os.Getenv("JWT_SECRET"),
		ADMIN_EMAIL:    os.Getenv("ADMIN_EMAIL"),
		ADMIN_PASSWORD: os.Getenv("ADMIN_PASSWORD"),
		ES_URL:         os.Getenv("ES_URL"),
		ES_USER:        os.Getenv("ES_USER"),
		ES_PASSWORD:    os.Getenv("ES_PASSWORD"),
		KAFKA_ADDRESS:  os.Getenv("KAFKA_ADDRESS"),
		ORDER_PREFIX:   getDefault("ORDER_NUMBER_PREFIX", "TIF-"),
		LOG_LEVEL:      getDefault("LOG_LEVEL", "info"),
	}

	return config, nil
}

func getDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
