package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DatabaseURL  string
	JWTSecret    string
	UploadDir    string
	PublicURL    string
	KafkaAddress string
	ESURL        string
	ESUser       string
	ESPassword   string
	LogLevel     string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		Port:         getenv("PORT", "4000"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		UploadDir:    getenv("UPLOAD_DIR", "upload/images"),
		PublicURL:    os.Getenv("PUBLIC_URL"),
		KafkaAddress: os.Getenv("KAFKA_ADDRESS"),
		ESURL:        os.Getenv("ES_URL"),
		ESUser:       os.Getenv("ES_USER"),
		ESPassword:   os.Getenv("ES_PASSWORD"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
	}

	if config.PublicURL == "" {
		config.PublicURL = "http://localhost:" + config.Port
	}

	return config, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
